package bufview

import "sync/atomic"

// Handle is a refcounted shared-ownership wrapper around a contiguous block
// of T. Views and slices derived from one another share the same Handle, so
// the block stays alive while any of them still holds a reference.
//
// A Handle value is a reference, not the block itself: copying the struct
// does NOT create a new reference. Use Retain for that. Release drops a
// reference and runs the release action once the last one is gone. The
// release action receives the whole block, which makes pool-backed storage
// possible (the slab goes back to its pool, not element by element).
//
// Retain and Release are safe for concurrent use. Element access through
// the block is not synchronized here at all.
type Handle[T any] struct {
	b *block[T]
}

type block[T any] struct {
	data    []T
	refs    atomic.Int64
	release func([]T)
}

// NewHandle wraps data with an initial refcount of one. release may be nil
// for storage that needs no disposal beyond garbage collection.
func NewHandle[T any](data []T, release func([]T)) Handle[T] {
	b := &block[T]{data: data, release: release}
	b.refs.Store(1)
	return Handle[T]{b: b}
}

// Retain returns a new reference to the same block.
func (h Handle[T]) Retain() Handle[T] {
	if h.b != nil {
		h.b.refs.Add(1)
	}
	return h
}

// Release drops one reference. The release action runs exactly once, on the
// call that drops the last reference. Releasing a zero Handle is a no-op.
func (h Handle[T]) Release() {
	if h.b == nil {
		return
	}
	if h.b.refs.Add(-1) == 0 && h.b.release != nil {
		h.b.release(h.b.data)
	}
}

// Data returns the raw block. The caller must not hold onto it past the
// last Release when the block came from a recycling allocator.
func (h Handle[T]) Data() []T {
	if h.b == nil {
		return nil
	}
	return h.b.data
}

// IsNil reports whether h holds no block. An empty view has a nil handle.
func (h Handle[T]) IsNil() bool { return h.b == nil }

// Allocator obtains storage for views. Implementations decide size policy
// and failure behavior; NewWith propagates their errors unchanged.
// See pkg/alloc for a heap and a pooled implementation.
type Allocator[T any] interface {
	Allocate(n int) (Handle[T], error)
}
