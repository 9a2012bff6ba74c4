package l2encdec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
)

const sizePrefixLen = 4

// compressSized emits the plaintext length as a 4-byte prefix followed by
// a zlib stream at best compression.
func compressSized(data []byte, order binary.ByteOrder) ([]byte, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, fmt.Errorf("plaintext of %d bytes exceeds the size prefix", len(data))
	}

	var buf bytes.Buffer
	buf.Grow(sizePrefixLen + len(data)/2)

	var prefix [sizePrefixLen]byte
	order.PutUint32(prefix[:], uint32(len(data))) // #nosec G115 -- bounds checked above
	buf.Write(prefix[:])

	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decompressSized inflates a stream written by compressSized and checks the
// result against the length prefix. The prefix also caps how much is read.
func decompressSized(data []byte, order binary.ByteOrder) ([]byte, error) {
	if len(data) <= sizePrefixLen {
		return nil, fmt.Errorf("compressed block of %d bytes has no stream", len(data))
	}
	want := order.Uint32(data[:sizePrefixLen])

	r, err := zlib.NewReader(bytes.NewReader(data[sizePrefixLen:]))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, int64(want)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(out)) != uint64(want) {
		return nil, fmt.Errorf("inflated %d bytes, prefix says %d", len(out), want)
	}
	return out, nil
}
