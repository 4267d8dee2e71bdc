package runtime

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Local is an in-process Runtime for single-machine execution and tests.
// Partition work runs on one goroutine per partition; the directory is a
// fixed snapshot configured at construction.
type Local struct {
	entries  []Entry
	workerID string
}

var _ Runtime = (*Local)(nil)

// LocalOption configures a Local runtime.
type LocalOption func(*Local)

// WithEntries replaces the directory snapshot. The default is a single
// driver entry on the local host.
func WithEntries(entries ...Entry) LocalOption {
	return func(l *Local) {
		l.entries = entries
	}
}

// WithCurrentWorker sets the worker id reported outside of partition work.
// The default is DriverID.
func WithCurrentWorker(id string) LocalOption {
	return func(l *Local) {
		l.workerID = id
	}
}

// NewLocal creates a Local runtime whose directory contains a single
// driver entry on host, unless overridden by options.
func NewLocal(host string, opts ...LocalOption) *Local {
	l := &Local{
		entries:  []Entry{{ID: DriverID, Host: host}},
		workerID: DriverID,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Directory returns the driver-scoped directory view.
func (l *Local) Directory() WorkerDirectory {
	return &localDirectory{local: l, partition: 0}
}

// MapPartitions runs fn once per partition on its own goroutine and
// collects results in partition order. The first error cancels the
// remaining work via the group context.
func (l *Local) MapPartitions(ctx context.Context, shards Shards, fn PartitionFunc) ([]string, error) {
	n := shards.NumPartitions()
	results := make([]string, n)

	g, ctx := errgroup.WithContext(ctx)
	for p := 0; p < n; p++ {
		g.Go(func() error {
			out, err := fn(ctx, &localDirectory{local: l, partition: p})
			if err != nil {
				return err
			}
			results[p] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// localDirectory is a partition-scoped view of the Local snapshot.
type localDirectory struct {
	local     *Local
	partition int
}

func (d *localDirectory) Entries() []Entry {
	out := make([]Entry, len(d.local.entries))
	copy(out, d.local.entries)
	return out
}

func (d *localDirectory) CurrentWorkerID() string {
	return d.local.workerID
}

func (d *localDirectory) CurrentPartition() int {
	return d.partition
}
