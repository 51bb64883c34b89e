package snapwire

import (
	"encoding/binary"
	"math"
	"sync"
	"unsafe"

	"github.com/klauspost/compress/zstd"
	"github.com/rawbytedev/bufview"
	"github.com/rawbytedev/bufview/internal/common"
)

// maxDecodeHint caps the decompression buffer preallocated from the
// record's own length claim; DecodeAll grows past it on real data.
const maxDecodeHint = 1 << 20

var (
	decOnce sync.Once
	dec     *zstd.Decoder
	decErr  error
)

func zstdDecoder() (*zstd.Decoder, error) {
	decOnce.Do(func() {
		dec, decErr = zstd.NewReader(nil)
	})
	return dec, decErr
}

// Decode reconstructs a view from a snapshot record, allocating fresh heap
// storage (or aliasing the record itself under Options.ZeroCopy).
func Decode[T Element](data []byte, opts Options) (bufview.View[T], error) {
	return DecodeWith[T](data, opts, nil)
}

// DecodeWith is Decode with storage obtained from a. A nil allocator means
// heap storage. ZeroCopy records bypass the allocator entirely.
func DecodeWith[T Element](data []byte, opts Options, a bufview.Allocator[T]) (bufview.View[T], error) {
	h, err := decodeHeader(data)
	if err != nil {
		return bufview.View[T]{}, err
	}
	size := elemSize[T]()
	if int(h.ElemSize) != size {
		return bufview.View[T]{}, ErrElemWidth
	}

	count, n := binary.Uvarint(data[HeaderSize:])
	if n <= 0 {
		return bufview.View[T]{}, ErrTruncated
	}
	// count is untrusted input; bound it before the multiply can wrap
	if count > uint64(math.MaxInt)/uint64(size) {
		return bufview.View[T]{}, ErrTruncated
	}
	payload := data[HeaderSize+n:]
	want := int(count) * size

	if h.Flags&FlagZstd == 0 {
		if len(payload) < want {
			return bufview.View[T]{}, ErrTruncated
		}
		payload = payload[:want]
		if opts.ZeroCopy {
			if want == 0 || common.IsAligned(unsafe.Pointer(unsafe.SliceData(payload)), unsafe.Alignof(*new(T))) {
				alias := bufview.NewHandle(asElems[T](payload, int(count)), nil)
				return bufview.Adopt(alias, int(count)), nil
			}
			if opts.CheckAlignment {
				return bufview.View[T]{}, ErrMisaligned
			}
			// misaligned payload, fall through to the copying path
		}
		return decodeCopy(payload, int(count), a)
	}

	rawLen, m := binary.Uvarint(payload)
	if m <= 0 {
		return bufview.View[T]{}, ErrTruncated
	}
	// the length prefix must agree with the element count, and it never
	// sizes an allocation on its own
	if rawLen != uint64(want) {
		return bufview.View[T]{}, ErrTruncated
	}
	z, err := zstdDecoder()
	if err != nil {
		return bufview.View[T]{}, err
	}
	raw, err := z.DecodeAll(payload[m:], make([]byte, 0, min(want, maxDecodeHint)))
	if err != nil {
		return bufview.View[T]{}, err
	}
	if len(raw) != want {
		return bufview.View[T]{}, ErrTruncated
	}
	return decodeCopy(raw, int(count), a)
}

func decodeCopy[T Element](payload []byte, count int, a bufview.Allocator[T]) (bufview.View[T], error) {
	var (
		v   bufview.View[T]
		err error
	)
	if a != nil {
		v, err = bufview.NewWith(count, a)
	} else {
		v, err = bufview.New[T](count)
	}
	if err != nil {
		return bufview.View[T]{}, err
	}
	copy(asBytes(v.Data()), payload)
	return v, nil
}
