// Package snapwire serializes the contents of a bufview view into a
// compact binary record and back: a fixed little-endian header, a uvarint
// element count, then the raw element payload, optionally zstd-compressed.
// Strided slices are gathered into contiguous form before encoding.
//
// The payload is the machine representation of the elements, so records
// are only portable between hosts of the same endianness and element
// width. Element types are restricted to fixed-width primitives.
package snapwire

import (
	"encoding/binary"
	"errors"
	"unsafe"
)

const (
	// MagicV1 marks a version-1 snapshot record ("BVS1").
	MagicV1 uint32 = 0x31535642

	VersionV1 uint16 = 1

	// HeaderSize is the fixed prefix before the element count.
	HeaderSize = 12

	// FlagZstd marks a zstd-compressed payload, prefixed with a uvarint
	// uncompressed byte length.
	FlagZstd uint16 = 1 << 0
)

var (
	ErrBadMagic   = errors.New("snapwire: bad magic")
	ErrBadVersion = errors.New("snapwire: unsupported version")
	ErrElemWidth  = errors.New("snapwire: element width mismatch")
	ErrTruncated  = errors.New("snapwire: truncated record")
	ErrMisaligned = errors.New("snapwire: payload not aligned for zero-copy decode")
)

// Element restricts snapshots to fixed-width primitive element types.
type Element interface {
	~bool |
		~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Options controls runtime codec behaviour.
type Options struct {
	// Compress writes the payload through zstd.
	Compress bool

	// ZeroCopy lets Decode alias the record's payload as the view's
	// storage instead of copying. The caller must then keep the record
	// bytes alive and unmodified for the lifetime of the view. Ignored
	// for compressed records.
	ZeroCopy bool

	// CheckAlignment makes a misaligned zero-copy decode fail with
	// ErrMisaligned instead of silently falling back to a copy.
	CheckAlignment bool
}

type header struct {
	Magic    uint32
	Version  uint16
	Flags    uint16
	ElemSize uint8
}

func encodeHeader(buf []byte, h header) []byte {
	buf = append(buf, make([]byte, HeaderSize)...)
	binary.LittleEndian.PutUint32(buf[0:], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:], h.Version)
	binary.LittleEndian.PutUint16(buf[6:], h.Flags)
	buf[8] = h.ElemSize
	return buf
}

func decodeHeader(data []byte) (header, error) {
	if len(data) < HeaderSize {
		return header{}, ErrTruncated
	}
	h := header{
		Magic:    binary.LittleEndian.Uint32(data[0:]),
		Version:  binary.LittleEndian.Uint16(data[4:]),
		Flags:    binary.LittleEndian.Uint16(data[6:]),
		ElemSize: data[8],
	}
	if h.Magic != MagicV1 {
		return header{}, ErrBadMagic
	}
	if h.Version != VersionV1 {
		return header{}, ErrBadVersion
	}
	return h, nil
}

// elemSize returns sizeof(T) in bytes.
func elemSize[T Element]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// asBytes aliases a primitive slice as its raw bytes without copying.
func asBytes[T Element](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), len(data)*elemSize[T]())
}

// asElems aliases raw bytes as a primitive slice of n elements. The caller
// has already verified length and alignment.
func asElems[T Element](data []byte, n int) []T {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(data))), n)
}
