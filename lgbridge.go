// Package lgbridge bridges a distributed data-processing runtime and an
// external gradient-boosting training engine.
//
// The bridge has two responsibilities: resolving the cluster topology
// (the deduplicated, sorted host:port list the engine uses for network
// rendezvous) and marshalling row-oriented matrices into the flat native
// buffers the engine's dataset-creation calls expect, with every buffer
// released exactly once on every exit path.
//
// # Usage
//
//	rt := runtime.NewLocal("127.0.0.1")
//	bridge := lgbridge.New(rt, engine)
//
//	topo, err := bridge.ResolveTopology(ctx, runtime.Partitions(3))
//	// topo.Nodes -> "127.0.0.1:12400,127.0.0.1:12401,127.0.0.1:12402"
//
//	handle, err := bridge.BuildDenseDataset(dataset.Dense{
//	    {1.0, 2.0},
//	    {3.0, 4.0},
//	})
//
// The training engine itself (boosting, hyperparameters, shared-library
// loading) is out of scope; it is consumed through the native.Engine
// interface.
package lgbridge

import (
	"context"

	"github.com/Mallik-G/lgbridge/buffer"
	"github.com/Mallik-G/lgbridge/dataset"
	"github.com/Mallik-G/lgbridge/native"
	"github.com/Mallik-G/lgbridge/runtime"
	"github.com/Mallik-G/lgbridge/topology"
)

// DefaultListenPort is the base rendezvous port. Worker ids are added to
// it, so colocated logical workers listen on distinct ports.
const DefaultListenPort = 12400

// Bridge composes topology discovery and dataset marshalling over one
// runtime and one engine. Safe for concurrent use; discovery performs
// independent reads and each build call owns its buffers exclusively.
type Bridge struct {
	discovery *topology.Discovery
	builder   *dataset.Builder
	logger    *Logger
	port      int
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithListenPort overrides the base rendezvous port.
func WithListenPort(port int) Option {
	return func(b *Bridge) {
		b.port = port
	}
}

// WithArena supplies a shared buffer arena, e.g. to assert on leak
// accounting across several builds.
func WithArena(arena *buffer.Arena) Option {
	return func(b *Bridge) {
		b.builder = dataset.NewBuilder(b.builder.Engine(), arena)
	}
}

// New creates a Bridge over the given runtime and engine.
func New(rt runtime.Runtime, eng native.Engine, opts ...Option) *Bridge {
	b := &Bridge{
		discovery: topology.NewDiscovery(rt),
		builder:   dataset.NewBuilder(eng, nil),
		logger:    NoopLogger(),
		port:      DefaultListenPort,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ResolveTopology derives the endpoint list and count for one training
// round. Deterministic for a fixed worker directory snapshot.
func (b *Bridge) ResolveTopology(ctx context.Context, shards runtime.Shards) (topology.Topology, error) {
	topo, err := b.discovery.Resolve(ctx, shards, b.port)
	if err != nil {
		return topology.Topology{}, err
	}
	b.logger.Debug("resolved training topology", "nodes", topo.Nodes, "count", topo.Count)
	return topo, nil
}

// WorkerID resolves the calling context's logical worker id.
func (b *Bridge) WorkerID() (int, error) {
	return b.discovery.WorkerID()
}

// BuildDenseDataset marshals a dense matrix into a native dataset handle.
func (b *Bridge) BuildDenseDataset(rows dataset.Dense) (native.DatasetHandle, error) {
	h, err := b.builder.BuildDense(rows)
	if err != nil {
		return 0, err
	}
	b.logger.Debug("created dense dataset", "rows", len(rows))
	return h, nil
}

// BuildCSRDataset marshals sparse rows into a native dataset handle.
func (b *Bridge) BuildCSRDataset(rows []dataset.SparseRow) (native.DatasetHandle, error) {
	h, err := b.builder.BuildCSR(rows)
	if err != nil {
		return 0, err
	}
	b.logger.Debug("created sparse dataset", "rows", len(rows))
	return h, nil
}

// Arena exposes the buffer arena backing dataset builds, for leak
// accounting.
func (b *Bridge) Arena() *buffer.Arena {
	return b.builder.Arena()
}
