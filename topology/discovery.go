package topology

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/Mallik-G/lgbridge/runtime"
)

// Discovery resolves training endpoints against a distributed runtime.
//
// Nothing is cached across calls: the directory snapshot may change
// between rounds (e.g. partition-to-worker reassignment in local test
// runs), so every resolution queries the runtime afresh.
type Discovery struct {
	rt runtime.Runtime
}

// NewDiscovery creates a Discovery over the given runtime.
func NewDiscovery(rt runtime.Runtime) *Discovery {
	return &Discovery{rt: rt}
}

// WorkerID returns the caller's logical worker id: the runtime-assigned
// executor identifier, or the current partition index when the caller is
// the driver (local topology, no true executor context).
func (d *Discovery) WorkerID() (int, error) {
	return workerID(d.rt.Directory())
}

func workerID(dir runtime.WorkerDirectory) (int, error) {
	id := dir.CurrentWorkerID()
	if id == runtime.DriverID {
		return dir.CurrentPartition(), nil
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, &InvalidWorkerIDError{ID: id, cause: err}
	}
	return n, nil
}

// Endpoints lists one endpoint per non-driver directory entry, at port
// defaultPort plus the entry's numeric worker id. The port offset is what
// gives colocated logical workers distinct ports. No order is guaranteed.
func (d *Discovery) Endpoints(defaultPort int) ([]Endpoint, error) {
	var endpoints []Endpoint
	for _, entry := range d.rt.Directory().Entries() {
		if entry.ID == runtime.DriverID {
			continue
		}
		n, err := strconv.Atoi(entry.ID)
		if err != nil {
			return nil, &InvalidWorkerIDError{ID: entry.ID, cause: err}
		}
		endpoints = append(endpoints, Endpoint{Host: entry.Host, Port: defaultPort + n})
	}
	return endpoints, nil
}

// endpointsFromPartitions synthesizes one endpoint per partition of shards,
// for pure local execution where the directory lists no executors. All
// partitions share the first directory host (single-machine assumption);
// ports are offset by each partition's resolved worker id. Runs as an
// uncoordinated parallel map over partitions.
func (d *Discovery) endpointsFromPartitions(ctx context.Context, shards runtime.Shards, defaultPort int) ([]string, error) {
	entries := d.rt.Directory().Entries()
	if len(entries) == 0 {
		return nil, ErrEmptyTopology
	}
	host := entries[0].Host

	return d.rt.MapPartitions(ctx, shards, func(_ context.Context, dir runtime.WorkerDirectory) (string, error) {
		id, err := workerID(dir)
		if err != nil {
			return "", err
		}
		return Endpoint{Host: host, Port: defaultPort + id}.String(), nil
	})
}

// Resolve derives the cluster topology for one training round. The
// directory-derived endpoint list is authoritative; only when it is empty
// does the per-partition fallback run. The result is sorted
// lexicographically, deduplicated and comma-joined, so permuting directory
// traversal order cannot change it.
func (d *Discovery) Resolve(ctx context.Context, shards runtime.Shards, defaultPort int) (Topology, error) {
	endpoints, err := d.Endpoints(defaultPort)
	if err != nil {
		return Topology{}, err
	}

	var nodes []string
	if len(endpoints) > 0 {
		nodes = make([]string, 0, len(endpoints))
		for _, e := range endpoints {
			nodes = append(nodes, e.String())
		}
	} else {
		nodes, err = d.endpointsFromPartitions(ctx, shards, defaultPort)
		if err != nil {
			return Topology{}, err
		}
	}

	slices.Sort(nodes)
	nodes = slices.Compact(nodes)
	if len(nodes) == 0 {
		return Topology{}, ErrEmptyTopology
	}

	return Topology{
		Nodes: strings.Join(nodes, ","),
		Count: len(nodes),
	}, nil
}
