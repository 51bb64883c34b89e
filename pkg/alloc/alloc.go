// Package alloc provides Allocator implementations for bufview: a plain
// heap allocator and a size-class pooled allocator that recycles slabs
// through the handle release action.
package alloc

import (
	"fmt"
	"sync"

	"github.com/rawbytedev/bufview"
)

// Heap allocates a fresh zeroed block every time and recycles nothing.
type Heap[T any] struct{}

// Allocate implements bufview.Allocator.
func (Heap[T]) Allocate(n int) (bufview.Handle[T], error) {
	if n < 0 {
		return bufview.Handle[T]{}, fmt.Errorf("%w: negative length %d", bufview.ErrAlloc, n)
	}
	recordAlloc(kindHeap, n)
	return bufview.NewHandle(make([]T, n), func([]T) {
		recordRelease(kindHeap, n)
	}), nil
}

// Pool recycles blocks across size classes. Classes grow from minSize to
// maxSize by factor; a request lands in the smallest class that fits and
// gets a zeroed slab. Releasing the last handle reference puts the slab
// back. Requests beyond maxSize fall through to the heap.
//
// Get/Put are safe for concurrent use.
type Pool[T any] struct {
	buckets []bucket[T]
}

type bucket[T any] struct {
	size int
	pool sync.Pool
}

// NewPool builds a pool with size classes minSize, minSize*factor, ...
// up to and including the first class >= maxSize. minSize must be > 0 and
// factor > 1.
func NewPool[T any](minSize, maxSize int, factor float64) *Pool[T] {
	if minSize < 1 || factor <= 1 || maxSize < minSize {
		panic("alloc: invalid pool sizing")
	}
	p := &Pool[T]{}
	for size := minSize; ; size = int(float64(size) * factor) {
		p.buckets = append(p.buckets, bucket[T]{size: size})
		if size >= maxSize {
			break
		}
	}
	return p
}

// Allocate implements bufview.Allocator. The returned handle's release
// action returns the slab to its size class.
func (p *Pool[T]) Allocate(n int) (bufview.Handle[T], error) {
	if n < 0 {
		return bufview.Handle[T]{}, fmt.Errorf("%w: negative length %d", bufview.ErrAlloc, n)
	}
	if n == 0 {
		// no block goes out, so nothing to count against releases
		return bufview.NewHandle[T](nil, nil), nil
	}
	recordAlloc(kindPool, n)
	for i := range p.buckets {
		b := &p.buckets[i]
		if b.size < n {
			continue
		}
		var data []T
		if reuse, ok := b.pool.Get().([]T); ok {
			data = reuse[:b.size]
			clear(data)
		} else {
			data = make([]T, b.size)
		}
		return bufview.NewHandle(data[:n], func(d []T) {
			p.put(d)
			recordRelease(kindPool, n)
		}), nil
	}
	// Oversize request: plain heap block, not recycled.
	return bufview.NewHandle(make([]T, n), func([]T) {
		recordRelease(kindPool, n)
	}), nil
}

func (p *Pool[T]) put(data []T) {
	c := cap(data)
	for i := range p.buckets {
		b := &p.buckets[i]
		if b.size < c {
			continue
		}
		if b.size == c {
			b.pool.Put(data[:c])
		}
		return
	}
}
