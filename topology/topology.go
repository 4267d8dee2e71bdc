// Package topology derives the set of distinct worker endpoints that
// participate in a distributed training round.
//
// The authoritative case reads the runtime's worker directory; when that
// yields no executors (pure local execution), one synthetic endpoint is
// produced per data partition instead. Either way the result is sorted and
// deduplicated, so it is deterministic for a fixed directory snapshot.
package topology

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ErrEmptyTopology is returned when zero endpoints were resolved. Joining
// or counting an empty endpoint list is ill-defined, so resolution fails
// explicitly instead.
var ErrEmptyTopology = errors.New("no training endpoints resolved")

// InvalidWorkerIDError indicates a worker identifier that is not parseable
// as an integer.
//
// The underlying parse error can be accessed via errors.Unwrap.
type InvalidWorkerIDError struct {
	ID    string
	cause error
}

func (e *InvalidWorkerIDError) Error() string {
	return fmt.Sprintf("invalid worker id %q", e.ID)
}

func (e *InvalidWorkerIDError) Unwrap() error { return e.cause }

// Endpoint identifies one training worker for distributed rendezvous.
// Immutable once computed; equality is by the exact host:port string form.
type Endpoint struct {
	Host string
	Port int
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Topology is the resolved cluster topology: the comma-joined, sorted,
// deduplicated endpoint list and its size. Nodes is the form the training
// engine's network-init call expects.
type Topology struct {
	Nodes string
	Count int
}

// Machines returns the individual endpoint strings of the topology.
func (t Topology) Machines() []string {
	if t.Nodes == "" {
		return nil
	}
	return strings.Split(t.Nodes, ",")
}
