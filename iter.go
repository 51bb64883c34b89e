package bufview

// Iterator is a random-access cursor over the positions p, p+stride,
// p+2*stride, ... of a view or slice. Position, comparison and distance are
// all in logical indices, independent of stride, so two cursors over the
// same slice are Index()-apart by the number of logical steps between
// them.
//
// The cursor starts before the first element:
//
//	it := s.Iter()
//	for it.Next() {
//	    _ = it.At()
//	}
type Iterator[T any] struct {
	data   []T
	offset int
	stride int
	pos    int // logical, -1 before first
	extent int
}

// Next advances by exactly one stride unit and reports whether the cursor
// still addresses an element.
func (it *Iterator[T]) Next() bool {
	if it.pos+1 >= it.extent {
		it.pos = it.extent
		return false
	}
	it.pos++
	return true
}

// Prev retreats by one stride unit.
func (it *Iterator[T]) Prev() bool {
	if it.pos <= 0 {
		it.pos = -1
		return false
	}
	it.pos--
	return true
}

// At returns the element at the current position. Calling it with the
// cursor before the first or at/past the last element is the caller's
// error; the backing slice will panic on a position outside the block.
func (it *Iterator[T]) At() T {
	return it.data[it.offset+it.pos*it.stride]
}

// Ptr returns the address of the element at the current position.
func (it *Iterator[T]) Ptr() *T {
	return &it.data[it.offset+it.pos*it.stride]
}

// Index returns the current logical position, or -1 before the first
// Next.
func (it *Iterator[T]) Index() int { return it.pos }

// Len returns the number of logical positions the cursor spans.
func (it *Iterator[T]) Len() int { return it.extent }

// Seek jumps to logical position i in O(1) and reports whether i is
// addressable. Seek(-1) rewinds to the start state.
func (it *Iterator[T]) Seek(i int) bool {
	if i < -1 || i > it.extent {
		return false
	}
	it.pos = i
	return i >= 0 && i < it.extent
}
