// Package binary provides type-safe binary writing primitives with offset tracking.
package binary

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrNotSeekable is returned by SafeWriter.Seek when the underlying writer cannot seek.
var ErrNotSeekable = errors.New("writer does not support seeking")

// SafeWriter wraps io.Writer with position tracking.
//
// When the underlying writer also implements io.Seeker, Seek can be used to
// backfill header fields once their values are known.
type SafeWriter struct {
	w      io.Writer
	offset int64
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{
		w:      w,
		offset: 0,
	}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// Seek moves the write position to an absolute offset.
func (sw *SafeWriter) Seek(offset int64) error {
	seeker, ok := sw.w.(io.Seeker)
	if !ok {
		return ErrNotSeekable
	}
	pos, err := seeker.Seek(offset, io.SeekStart)
	if err != nil {
		return fmt.Errorf("seek to %d: %w", offset, err)
	}
	sw.offset = pos
	return nil
}

// PadTo writes zero bytes until the position reaches offset.
// It does nothing when the position is already at or past offset.
func (sw *SafeWriter) PadTo(offset int64) error {
	if sw.offset >= offset {
		return nil
	}
	return sw.WriteBytes(make([]byte, offset-sw.offset))
}

// Align pads the position up to the next multiple of n.
func (sw *SafeWriter) Align(n int64) error {
	if n <= 1 {
		return nil
	}
	if rem := sw.offset % n; rem != 0 {
		return sw.PadTo(sw.offset + n - rem)
	}
	return nil
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (sw *SafeWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

// Write writes a value of type T in big-endian byte order.
// T must be uint8, uint16, uint32, or uint64.
func Write[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T) error {
	return WriteEndian(sw, val, BigEndian)
}

// WriteLE writes a value of type T in little-endian byte order.
// T must be uint8, uint16, uint32, or uint64.
func WriteLE[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T) error {
	return WriteEndian(sw, val, LittleEndian)
}

// WriteEndian writes a value of type T with the given byte order.
func WriteEndian[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T, endian Endianness) error {
	var scratch [8]byte
	size := sizeOf[T]()
	buf := scratch[:size]

	order := endian.ByteOrder()
	switch size {
	case 1:
		buf[0] = byte(val)
	case 2:
		order.PutUint16(buf, uint16(val))
	case 4:
		order.PutUint32(buf, uint32(val))
	default:
		order.PutUint64(buf, uint64(val))
	}

	return sw.WriteBytes(buf)
}

// WriteFloat32 writes an IEEE-754 single with the given byte order.
func WriteFloat32(sw *SafeWriter, val float32, endian Endianness) error {
	return WriteEndian(sw, math.Float32bits(val), endian)
}
