package snapwire

import (
	"encoding/binary"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/rawbytedev/bufview"
)

var (
	encOnce sync.Once
	enc     *zstd.Encoder
	encErr  error
)

func zstdEncoder() (*zstd.Encoder, error) {
	encOnce.Do(func() {
		enc, encErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
	return enc, encErr
}

// Encode serializes the full contents of v.
func Encode[T Element](v bufview.View[T], opts Options) ([]byte, error) {
	return encodeRaw(v.Data(), opts)
}

// EncodeSlice gathers the strided elements of s into contiguous form and
// serializes them. The record holds extent elements; stride and offset are
// addressing details of the source, not of the snapshot.
func EncodeSlice[T Element](s bufview.Slice[T], opts Options) ([]byte, error) {
	gathered := make([]T, 0, s.Extent())
	for _, x := range s.All() {
		gathered = append(gathered, x)
	}
	return encodeRaw(gathered, opts)
}

func encodeRaw[T Element](data []T, opts Options) ([]byte, error) {
	h := header{Magic: MagicV1, Version: VersionV1, ElemSize: uint8(elemSize[T]())}
	if opts.Compress {
		h.Flags |= FlagZstd
	}

	raw := asBytes(data)
	out := make([]byte, 0, HeaderSize+2*binary.MaxVarintLen64+len(raw))
	out = encodeHeader(out, h)
	out = binary.AppendUvarint(out, uint64(len(data)))

	if !opts.Compress {
		return append(out, raw...), nil
	}

	z, err := zstdEncoder()
	if err != nil {
		return nil, err
	}
	out = binary.AppendUvarint(out, uint64(len(raw)))
	return z.EncodeAll(raw, out), nil
}
