package bufview

import (
	"iter"

	"github.com/rawbytedev/bufview/internal/common"
)

// Slice is a strided view derived from a View or another Slice. It shares
// the source's ownership handle and narrows the addressable region: logical
// index i maps to physical position offset + i*stride, always strictly
// below limit. Slice keeps its own bookkeeping so a View stays exactly as
// large as its handle plus a length.
//
// The stride is fixed at construction and never mutated afterwards; it is
// validated once, at slice time.
type Slice[T any] struct {
	mem    Handle[T]
	offset int // first physical element visited
	limit  int // exclusive physical bound of the sliced region
	stride int
}

// Extent returns the number of logically addressable elements:
// ceil((limit-offset)/stride). A range of 5 elements with stride 2 has
// extent 3 (positions 0, 2, 4).
func (s Slice[T]) Extent() int {
	if s.stride < 1 || s.limit <= s.offset {
		return 0
	}
	return common.CeilDiv(s.limit-s.offset, s.stride)
}

// Len is Extent under the usual container name.
func (s Slice[T]) Len() int { return s.Extent() }

// Stride returns the fixed step between visited physical positions.
func (s Slice[T]) Stride() int { return s.stride }

// Handle exposes the shared ownership handle.
func (s Slice[T]) Handle() Handle[T] { return s.mem }

// At returns the element at logical index i. The check is against the
// extent, never the raw limit, so stride-skipped positions are not
// reachable.
func (s Slice[T]) At(i int) (T, error) {
	if Checking() != CheckDisabled && (i < 0 || i >= s.Extent()) {
		var zero T
		return zero, boundsFail(i, s.Extent(), "0 <= i && i < extent")
	}
	return s.mem.Data()[s.offset+i*s.stride], nil
}

// Set stores x at logical index i under the same bounds rules as At.
func (s Slice[T]) Set(i int, x T) error {
	if Checking() != CheckDisabled && (i < 0 || i >= s.Extent()) {
		return boundsFail(i, s.Extent(), "0 <= i && i < extent")
	}
	s.mem.Data()[s.offset+i*s.stride] = x
	return nil
}

// Ptr returns the address of the element at logical index i.
func (s Slice[T]) Ptr(i int) (*T, error) {
	if Checking() != CheckDisabled && (i < 0 || i >= s.Extent()) {
		return nil, boundsFail(i, s.Extent(), "0 <= i && i < extent")
	}
	return &s.mem.Data()[s.offset+i*s.stride], nil
}

// All iterates logical index/element pairs in stride order.
func (s Slice[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		data := s.mem.Data()
		for i, n := 0, s.Extent(); i < n; i++ {
			if !yield(i, data[s.offset+i*s.stride]) {
				return
			}
		}
	}
}

// Iter returns a cursor positioned before logical index 0.
func (s Slice[T]) Iter() *Iterator[T] {
	return &Iterator[T]{data: s.mem.Data(), offset: s.offset, stride: s.stride, pos: -1, extent: s.Extent()}
}

// Slice derives a further slice over logical indices [begin, end) of s,
// composing the addressing: the new offset is offset + begin*stride, the
// strides multiply, and the new limit is min(limit, offset + end*stride).
// The same validation as View.Slice applies, against s's extent.
func (s Slice[T]) Slice(begin, end, stride int) (Slice[T], error) {
	if stride < 1 {
		return Slice[T]{}, &RangeSpecError{Begin: begin, End: end, Bound: s.Extent(), Stride: stride}
	}
	if begin < 0 || begin > end || end > s.Extent() {
		return Slice[T]{}, &RangeSpecError{Begin: begin, End: end, Bound: s.Extent(), Stride: stride}
	}
	offset := s.offset + begin*s.stride
	limit := min(s.limit, s.offset+end*s.stride)
	if offset > limit {
		// begin == end == extent on a partial final step; empty, never invalid.
		offset = limit
	}
	return Slice[T]{mem: s.mem.Retain(), offset: offset, limit: limit, stride: s.stride * stride}, nil
}

// Close drops this slice's reference to the block. Parent and sibling
// views stay valid; ownership is shared, not exclusive.
func (s Slice[T]) Close() error {
	s.mem.Release()
	return nil
}
