// Package runtime defines the contracts this module consumes from the
// distributed data-processing runtime: the worker directory, partitioned
// data handles, and the execute-and-collect partition map.
//
// The runtime itself is an external collaborator. Local, an in-process
// implementation backed by errgroup, is provided for single-machine
// topologies and tests.
package runtime

import "context"

// DriverID is the directory identifier of the coordinating process. The
// driver never participates as a training worker; its presence as the
// current worker id signals a local (non-distributed) execution context.
const DriverID = "driver"

// Entry is one worker directory record.
type Entry struct {
	ID   string
	Host string
}

// WorkerDirectory is the runtime's registry of active execution contexts.
// It is read-only from this module's perspective; the runtime owns and
// mutates it.
type WorkerDirectory interface {
	// Entries returns all distinct directory records, including the
	// driver. No traversal order is guaranteed.
	Entries() []Entry

	// CurrentWorkerID returns the identifier of the calling execution
	// context, DriverID when there is no distributed executor context.
	CurrentWorkerID() string

	// CurrentPartition returns the index of the partition being processed
	// by the calling execution context.
	CurrentPartition() int
}

// Shards is an opaque handle to a partitioned dataset.
type Shards interface {
	NumPartitions() int
}

// PartitionFunc is one independent unit of work over a single partition.
// The directory it receives is scoped to that partition's execution
// context, so CurrentPartition reflects the partition being processed.
type PartitionFunc func(ctx context.Context, dir WorkerDirectory) (string, error)

// Runtime is the execution surface consumed from the distributed runtime.
type Runtime interface {
	// Directory returns the worker directory of the calling context.
	Directory() WorkerDirectory

	// MapPartitions runs fn once per partition of shards, in parallel and
	// without cross-partition coordination, and collects one result per
	// partition. The collection point is a synchronization barrier.
	MapPartitions(ctx context.Context, shards Shards, fn PartitionFunc) ([]string, error)
}

// Partitions returns a Shards handle for a plain partition count, for
// callers whose data is already partition-aligned.
func Partitions(n int) Shards {
	return fixedShards(n)
}

type fixedShards int

func (s fixedShards) NumPartitions() int { return int(s) }
