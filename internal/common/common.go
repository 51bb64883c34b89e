// Package common holds small helpers shared by the view core and the wire
// codec.
package common

import "unsafe"

// CeilDiv returns ceil(n / d) for non-negative n and positive d. It is the
// canonical extent rule: a final partial stride step counts whenever its
// starting position is still inside the range.
func CeilDiv(n, d int) int {
	return (n + d - 1) / d
}

// IsAligned reports whether p is aligned to a power-of-two boundary align.
func IsAligned(p unsafe.Pointer, align uintptr) bool {
	return uintptr(p)&(align-1) == 0
}
