package snapwire

import (
	"encoding/binary"
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/bufview"
	"github.com/rawbytedev/bufview/pkg/alloc"
)

func newView[T any](t *testing.T, elems []T) bufview.View[T] {
	t.Helper()
	v, err := bufview.New[T](len(elems))
	require.NoError(t, err)
	copy(v.Data(), elems)
	return v
}

func TestRoundTripRaw(t *testing.T) {
	v := newView(t, []int32{-5, 0, 1, 1 << 30})

	record, err := Encode(v, Options{})
	require.NoError(t, err)

	got, err := Decode[int32](record, Options{})
	require.NoError(t, err)
	assert.Equal(t, v.Data(), got.Data())
}

func TestRoundTripZstd(t *testing.T) {
	elems := make([]float64, 500)
	for i := range elems {
		elems[i] = float64(i % 7)
	}
	v := newView(t, elems)

	record, err := Encode(v, Options{Compress: true})
	require.NoError(t, err)
	// repetitive payload should actually shrink
	assert.Less(t, len(record), len(elems)*8)

	got, err := Decode[float64](record, Options{})
	require.NoError(t, err)
	assert.Equal(t, elems, got.Data())
}

func TestRoundTripEmpty(t *testing.T) {
	v, err := bufview.New[uint16](0)
	require.NoError(t, err)
	record, err := Encode(v, Options{})
	require.NoError(t, err)

	got, err := Decode[uint16](record, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestEncodeSliceGathers(t *testing.T) {
	v := newView(t, []int64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90})
	s, err := v.Slice(2, 8, 2) // 20, 40, 60
	require.NoError(t, err)

	record, err := EncodeSlice(s, Options{})
	require.NoError(t, err)
	got, err := Decode[int64](record, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int64{20, 40, 60}, got.Data())
}

func TestDecodeWithAllocator(t *testing.T) {
	pool := alloc.NewPool[uint32](64, 1024, 2)
	v := newView(t, []uint32{1, 2, 3, 4})

	record, err := Encode(v, Options{Compress: true})
	require.NoError(t, err)
	got, err := DecodeWith[uint32](record, Options{}, pool)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3, 4}, got.Data())
	require.NoError(t, got.Close())
}

func TestDecodeBadMagic(t *testing.T) {
	record, err := Encode(newView(t, []byte{1, 2}), Options{})
	require.NoError(t, err)
	record[0] ^= 0xFF
	_, err = Decode[byte](record, Options{})
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeBadVersion(t *testing.T) {
	record, err := Encode(newView(t, []byte{1, 2}), Options{})
	require.NoError(t, err)
	record[4] = 9
	_, err = Decode[byte](record, Options{})
	require.ErrorIs(t, err, ErrBadVersion)
}

func TestDecodeElemWidthMismatch(t *testing.T) {
	record, err := Encode(newView(t, []int32{1, 2, 3}), Options{})
	require.NoError(t, err)
	_, err = Decode[int64](record, Options{})
	require.ErrorIs(t, err, ErrElemWidth)
}

func TestDecodeTruncated(t *testing.T) {
	record, err := Encode(newView(t, []uint64{1, 2, 3, 4}), Options{})
	require.NoError(t, err)

	_, err = Decode[uint64](record[:HeaderSize], Options{})
	require.ErrorIs(t, err, ErrTruncated)

	_, err = Decode[uint64](record[:len(record)-5], Options{})
	require.ErrorIs(t, err, ErrTruncated)

	_, err = Decode[uint64](record[:6], Options{})
	require.ErrorIs(t, err, ErrTruncated)
}

func craftRecord(flags uint16, elemSize uint8, count uint64, tail []byte) []byte {
	out := encodeHeader(nil, header{Magic: MagicV1, Version: VersionV1, Flags: flags, ElemSize: elemSize})
	out = binary.AppendUvarint(out, count)
	return append(out, tail...)
}

func TestDecodeHugeCount(t *testing.T) {
	// a count whose byte size wraps past MaxInt must be rejected before
	// it can size a slice expression
	record := craftRecord(0, 8, (1<<60)+1, make([]byte, 64))
	_, err := Decode[uint64](record, Options{})
	require.ErrorIs(t, err, ErrTruncated)

	record = craftRecord(0, 8, math.MaxUint64, make([]byte, 64))
	_, err = Decode[uint64](record, Options{})
	require.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeCompressedLengthMismatch(t *testing.T) {
	// length prefix disagreeing with the element count
	tail := binary.AppendUvarint(nil, 16) // 4 uint64 elements need 32
	record := craftRecord(FlagZstd, 8, 4, tail)
	_, err := Decode[uint64](record, Options{})
	require.ErrorIs(t, err, ErrTruncated)

	// an enormous length prefix must not size an allocation
	tail = binary.AppendUvarint(nil, 1<<61)
	record = craftRecord(FlagZstd, 8, 4, tail)
	_, err = Decode[uint64](record, Options{})
	require.ErrorIs(t, err, ErrTruncated)
}

func TestZeroCopyAliasesRecord(t *testing.T) {
	record, err := Encode(newView(t, []byte{10, 20, 30}), Options{})
	require.NoError(t, err)

	got, err := Decode[byte](record, Options{ZeroCopy: true})
	require.NoError(t, err)

	// the view reads straight out of the record
	record[len(record)-3] = 99
	x, err := got.At(0)
	require.NoError(t, err)
	assert.Equal(t, byte(99), x)
}

func TestZeroCopyAlignment(t *testing.T) {
	// header (12) + 1-byte count puts the payload at offset 13, which can
	// never be 4-aligned relative to the record's base allocation
	record, err := Encode(newView(t, []int32{1, 2, 3}), Options{})
	require.NoError(t, err)

	_, err = Decode[int32](record, Options{ZeroCopy: true, CheckAlignment: true})
	require.ErrorIs(t, err, ErrMisaligned)

	// without the strict flag the decoder falls back to a copy
	got, err := Decode[int32](record, Options{ZeroCopy: true})
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3}, got.Data())
}

func TestRoundTripProperty(t *testing.T) {
	condition := func(elems []float64, compress bool) bool {
		v, err := bufview.New[float64](len(elems))
		if err != nil {
			return false
		}
		copy(v.Data(), elems)
		record, err := Encode(v, Options{Compress: compress})
		if err != nil {
			return false
		}
		got, err := Decode[float64](record, Options{})
		if err != nil {
			return false
		}
		if got.Len() != len(elems) {
			return false
		}
		for i, x := range got.Data() {
			if x != elems[i] {
				return false
			}
		}
		return true
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func FuzzRoundTrip(f *testing.F) {
	f.Add(int64(0), int64(1), int64(-1), true)
	f.Add(int64(42), int64(1<<40), int64(-7), false)
	f.Fuzz(func(t *testing.T, a, b, c int64, compress bool) {
		v, err := bufview.New[int64](3)
		require.NoError(t, err)
		copy(v.Data(), []int64{a, b, c})

		record, err := Encode(v, Options{Compress: compress})
		require.NoError(t, err)
		got, err := Decode[int64](record, Options{})
		require.NoError(t, err)
		require.Equal(t, []int64{a, b, c}, got.Data())
	})
}
