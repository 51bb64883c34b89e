package bufview

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange reports an index outside the valid logical range of a
	// View or Slice. Access errors returned by the default hook unwrap to it.
	ErrOutOfRange = errors.New("bufview: index out of range")

	// ErrInvalidRange reports a slicing request with begin > end, a bound
	// outside the parent, or a stride < 1. Always returned as a typed error
	// regardless of the configured checking mode.
	ErrInvalidRange = errors.New("bufview: invalid slice range")

	// ErrAlloc reports that a construction request could not be satisfied.
	ErrAlloc = errors.New("bufview: allocation failed")
)

// RangeError carries the offending index and the bound it was compared
// against. Produced by the default bounds hook.
type RangeError struct {
	Index int
	Bound int

	msg string
}

func (e *RangeError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return fmt.Sprintf("bufview: index %d out of range [0, %d)", e.Index, e.Bound)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// RangeSpecError carries a rejected slicing request. Bound is the parent's
// length or extent at the time of the request.
type RangeSpecError struct {
	Begin  int
	End    int
	Bound  int
	Stride int
}

func (e *RangeSpecError) Error() string {
	if e.Stride < 1 {
		return fmt.Sprintf("bufview: slice stride %d < 1", e.Stride)
	}
	return fmt.Sprintf("bufview: slice range [%d, %d) outside [0, %d]", e.Begin, e.End, e.Bound)
}

func (e *RangeSpecError) Unwrap() error { return ErrInvalidRange }
