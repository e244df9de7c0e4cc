package binary

import (
	"errors"
	"io"
)

// Buffer is an in-memory io.WriteSeeker.
//
// Unlike bytes.Buffer it supports seeking backwards to overwrite previously
// written bytes, and seeking past the end zero-fills the gap on the next write.
type Buffer struct {
	buf []byte
	pos int64
}

// NewBuffer returns an empty Buffer with the given capacity hint.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{buf: make([]byte, 0, capacity)}
}

// Write writes p at the current position, growing the buffer as needed.
func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.buf)) {
		b.buf = append(b.buf, make([]byte, end-int64(len(b.buf)))...)
	}
	copy(b.buf[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

// Seek implements io.Seeker.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.pos + offset
	case io.SeekEnd:
		abs = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("binary.Buffer.Seek: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("binary.Buffer.Seek: negative position")
	}
	b.pos = abs
	return abs, nil
}

// Bytes returns the written contents. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int {
	return len(b.buf)
}
