package model

import (
	"fmt"
	"io"
)

// ByteRangeSource produces bytes of the analyzed file on demand. The core
// never depends on where the bytes live; implementations exist for local
// buffers and remote range fetches.
type ByteRangeSource interface {
	io.Reader
	// Seek follows io.Seeker whence semantics but clamps the resulting
	// position to [0, Size()].
	Seek(offset int64, whence int) (int64, error)
	Tell() int64
	Size() int64
}

// BufferSource is an in-memory ByteRangeSource.
type BufferSource struct {
	data []byte
	pos  int64
}

// NewBufferSource wraps a byte slice.
func NewBufferSource(data []byte) *BufferSource {
	return &BufferSource{data: data}
}

func (b *BufferSource) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *BufferSource) Seek(offset int64, whence int) (int64, error) {
	pos, err := resolveSeek(offset, whence, b.pos, int64(len(b.data)))
	if err != nil {
		return b.pos, err
	}
	b.pos = pos
	return pos, nil
}

func (b *BufferSource) Tell() int64 {
	return b.pos
}

func (b *BufferSource) Size() int64 {
	return int64(len(b.data))
}

// resolveSeek applies whence semantics and clamps to [0, size].
func resolveSeek(offset int64, whence int, current, size int64) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = current + offset
	case io.SeekEnd:
		pos = size + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		pos = 0
	}
	if pos > size {
		pos = size
	}
	return pos, nil
}
