// Package bufview provides a run-time-sized contiguous memory view with
// bounds-checked element access and zero-copy slicing into strided
// sub-ranges.
//
// A View holds statically-sized contiguous memory of any element type.
// Unlike a growable slice it cannot be resized after construction; unlike
// an array its length is a run-time value. Views can be "sliced" (python
// terminology) into sub-views that expose a subset of the underlying block
// with a non-unit stride:
//
//	v, _ := bufview.New[byte](10)
//	s, _ := v.Slice(2, 4, 1)  // half-open interval, elements 2 and 3
//	s2, _ := v.Slice(0, 10, 2) // full range, every other element
//	s3, _ := v.Slice(2, 10, 3) // the two strategies combined
//
// Ownership of the block is shared through a refcounted Handle, so a slice
// stays valid after the view it came from is closed. Storage can come from
// the heap or from an Allocator collaborator (see pkg/alloc); a pooled
// allocator gets its slab back through the Handle release action.
//
// Every access routes through a process-wide, configurable bounds policy
// (SetCheckMode): return a typed error through a hook, terminate with a
// diagnostic, or skip checking entirely.
package bufview

import (
	"fmt"
	"iter"
	"unsafe"
)

// View is the unstrided base view: a shared handle plus an element count.
// The zero View is empty and valid.
type View[T any] struct {
	mem    Handle[T]
	length int
}

// New allocates n zeroed elements on the heap and returns a view with
// exclusive initial ownership. n < 0 is an allocation failure.
func New[T any](n int) (View[T], error) {
	if n < 0 {
		return View[T]{}, fmt.Errorf("%w: negative length %d", ErrAlloc, n)
	}
	if n == 0 {
		return View[T]{}, nil
	}
	return View[T]{mem: NewHandle(make([]T, n), nil), length: n}, nil
}

// NewWith allocates n elements through a. The allocator's failure is
// propagated unchanged apart from added context; no retry, no wrapping
// policy of its own.
func NewWith[T any](n int, a Allocator[T]) (View[T], error) {
	h, err := a.Allocate(n)
	if err != nil {
		return View[T]{}, fmt.Errorf("bufview: allocator: %w", err)
	}
	return View[T]{mem: h, length: n}, nil
}

// Adopt wraps an existing handle as a view of n elements, sharing
// ownership. It does not verify that the handle really addresses n
// elements; that is the caller's responsibility and the trust boundary of
// this package.
func Adopt[T any](h Handle[T], n int) View[T] {
	return View[T]{mem: h.Retain(), length: n}
}

// Len returns the element count.
func (v View[T]) Len() int { return v.length }

// Handle exposes the ownership handle. Mostly useful with Adopt to build
// another view over the same block.
func (v View[T]) Handle() Handle[T] { return v.mem }

// Data returns the backing block for use with generic slice algorithms.
// Access through Data bypasses the bounds policy.
func (v View[T]) Data() []T {
	return v.mem.Data()[:v.length:v.length]
}

// At returns the element at i. Valid for 0 <= i < Len; otherwise the
// configured bounds policy decides the outcome.
func (v View[T]) At(i int) (T, error) {
	if Checking() != CheckDisabled && (i < 0 || i >= v.length) {
		var zero T
		return zero, boundsFail(i, v.length, "0 <= i && i < len")
	}
	return v.mem.Data()[i], nil
}

// Set stores x at i under the same bounds rules as At.
func (v View[T]) Set(i int, x T) error {
	if Checking() != CheckDisabled && (i < 0 || i >= v.length) {
		return boundsFail(i, v.length, "0 <= i && i < len")
	}
	v.mem.Data()[i] = x
	return nil
}

// Ptr returns the address of element i, the mutable-reference form of At.
func (v View[T]) Ptr(i int) (*T, error) {
	if Checking() != CheckDisabled && (i < 0 || i >= v.length) {
		return nil, boundsFail(i, v.length, "0 <= i && i < len")
	}
	return &v.mem.Data()[i], nil
}

// All iterates index/element pairs in order.
func (v View[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, x := range v.Data() {
			if !yield(i, x) {
				return
			}
		}
	}
}

// Iter returns a cursor over the whole view, positioned before the first
// element.
func (v View[T]) Iter() *Iterator[T] {
	return &Iterator[T]{data: v.mem.Data(), stride: 1, pos: -1, extent: v.length}
}

// Slice derives a strided sub-view of the half-open interval [begin, end).
// Requires 0 <= begin <= end <= Len and stride >= 1; violations are a
// typed ErrInvalidRange regardless of the bounds-checking mode, never a
// clamped or malformed view. The result shares ownership with v.
func (v View[T]) Slice(begin, end, stride int) (Slice[T], error) {
	if stride < 1 {
		return Slice[T]{}, &RangeSpecError{Begin: begin, End: end, Bound: v.length, Stride: stride}
	}
	if begin < 0 || begin > end || end > v.length {
		return Slice[T]{}, &RangeSpecError{Begin: begin, End: end, Bound: v.length, Stride: stride}
	}
	return Slice[T]{mem: v.mem.Retain(), offset: begin, limit: end, stride: stride}, nil
}

// Close drops this view's reference to the block. The block survives while
// other views or slices still reference it. Views over heap storage may
// skip Close and rely on the garbage collector; views over pooled storage
// must not.
func (v View[T]) Close() error {
	v.mem.Release()
	return nil
}

// ByteSize returns the number of bytes a view's elements occupy.
func ByteSize[T any](v View[T]) int {
	var zero T
	return v.Len() * int(unsafe.Sizeof(zero))
}
