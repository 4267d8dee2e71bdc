// Package buffer provides explicitly owned flat buffers for handoff to the
// native engine.
//
// Every buffer is allocated from an Arena and must be released back to it
// exactly once, on every exit path of the operation that allocated it. The
// arena keeps the set of live allocation ids in a Roaring bitmap, so leaks
// and double releases are observable in tests.
package buffer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// ErrDoubleRelease is returned when a buffer is released more than once or
// was never allocated from this arena.
var ErrDoubleRelease = errors.New("buffer already released")

// Buffer is an arena-owned flat buffer.
type Buffer interface {
	id() uint32
}

// Float64 is an arena-owned flat buffer of 64-bit floating values.
type Float64 struct {
	bufID uint32
	Data  []float64
}

func (b *Float64) id() uint32 { return b.bufID }

// Int32 is an arena-owned flat buffer of 32-bit integer values.
type Int32 struct {
	bufID uint32
	Data  []int32
}

func (b *Int32) id() uint32 { return b.bufID }

// Arena allocates flat buffers and tracks their lifetimes. Thread-safe.
type Arena struct {
	mu   sync.Mutex
	live *roaring.Bitmap
	next uint32
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		live: roaring.New(),
	}
}

// Float64s allocates a zeroed buffer of n float64 values.
func (a *Arena) Float64s(n int) *Float64 {
	return &Float64{
		bufID: a.allocate(),
		Data:  make([]float64, n),
	}
}

// Int32s allocates a zeroed buffer of n int32 values.
func (a *Arena) Int32s(n int) *Int32 {
	return &Int32{
		bufID: a.allocate(),
		Data:  make([]int32, n),
	}
}

// Release returns a buffer to the arena. Releasing a buffer twice is a
// bug in the caller and reported as ErrDoubleRelease.
func (a *Arena) Release(b Buffer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.live.Contains(b.id()) {
		return fmt.Errorf("%w: id %d", ErrDoubleRelease, b.id())
	}
	a.live.Remove(b.id())
	return nil
}

// Live returns the number of buffers allocated but not yet released.
func (a *Arena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int(a.live.GetCardinality())
}

func (a *Arena) allocate() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.next
	a.next++
	a.live.Add(id)
	return id
}
