// Package binary provides type-safe binary reading primitives with bounds checking
package binary

import (
	"fmt"
	"io"
	"math"

	"github.com/simonhull/rawksd/internal/types"
)

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
//
// A SafeReader created with NewBytesReader keeps a reference to the backing
// slice so Slice can hand out zero-copy views.
type SafeReader struct {
	r    io.ReaderAt
	data []byte
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// NewBytesReader creates a SafeReader over an in-memory buffer.
func NewBytesReader(data []byte, path string) *SafeReader {
	return &SafeReader{
		r:    byteReaderAt(data),
		data: data,
		size: int64(len(data)),
		path: path,
	}
}

// byteReaderAt implements io.ReaderAt without copying the slice header into a bytes.Reader.
type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the number of readable bytes.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

func (sr *SafeReader) checkBounds(off int64, n int, what string) error {
	if off < 0 || off > sr.size || (off == sr.size && n > 0) {
		return &types.OutOfBoundsError{Path: sr.path, What: what, Offset: off, Length: n, Size: sr.size}
	}
	if off+int64(n) > sr.size {
		return &types.OutOfBoundsError{Path: sr.path, What: what, Offset: off, Length: n, Size: sr.size}
	}
	return nil
}

// ReadAt reads bytes at the given offset with context for error messages.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if err := sr.checkBounds(off, len(b), what); err != nil {
		return err
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			sr.path, what, off, n, len(b))
	}

	return nil
}

// Slice returns n bytes starting at off.
//
// Readers backed by a byte slice return a view that shares storage with the
// source; other readers fall back to a copy.
func (sr *SafeReader) Slice(off int64, n int, what string) ([]byte, error) {
	if n < 0 {
		return nil, &types.OutOfBoundsError{Path: sr.path, What: what, Offset: off, Length: n, Size: sr.size}
	}
	if err := sr.checkBounds(off, n, what); err != nil {
		return nil, err
	}
	if sr.data != nil {
		return sr.data[off : off+int64(n) : off+int64(n)], nil
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if err := sr.ReadAt(buf, off, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// Read reads a value of type T from the given offset.
// T must be uint8, uint16, uint32, or uint64.
func Read[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// Reader provides sequential reading with automatic offset tracking.
type Reader struct {
	*SafeReader
	offset int64
	endian Endianness
}

// NewReader creates a new big-endian Reader starting at the given offset.
func NewReader(sr *SafeReader, offset int64) *Reader {
	return NewReaderEndian(sr, offset, BigEndian)
}

// NewReaderEndian creates a new Reader with the given byte order.
func NewReaderEndian(sr *SafeReader, offset int64, endian Endianness) *Reader {
	return &Reader{
		SafeReader: sr,
		offset:     offset,
		endian:     endian,
	}
}

// Endian returns the byte order used for multi-byte reads.
func (r *Reader) Endian() Endianness {
	return r.endian
}

// ReadValue reads a numeric value and advances the offset.
func ReadValue[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	val, err := ReadEndian[T](r.SafeReader, r.offset, what, r.endian)
	if err != nil {
		var zero T
		return zero, err
	}

	r.offset += int64(sizeOf[T]())
	return val, nil
}

// ReadFloat32 reads an IEEE-754 single and advances the offset.
func (r *Reader) ReadFloat32(what string) (float32, error) {
	bits, err := ReadValue[uint32](r, what)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadString reads a string of the given length and advances the offset.
func (r *Reader) ReadString(length int, what string) (string, error) {
	buf, err := r.ReadBytes(length, what)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadBytes returns the next n bytes and advances the offset.
// See SafeReader.Slice for ownership of the result.
func (r *Reader) ReadBytes(n int, what string) ([]byte, error) {
	buf, err := r.SafeReader.Slice(r.offset, n, what)
	if err != nil {
		return nil, err
	}
	r.offset += int64(n)
	return buf, nil
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// Seek moves the offset to an absolute position.
func (r *Reader) Seek(offset int64) {
	r.offset = offset
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Remaining returns the number of bytes between the offset and the end.
func (r *Reader) Remaining() int64 {
	return r.size - r.offset
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// String reads a string, accumulating any error.
func (cr *ChainReader) String(length int, what string) string {
	if cr.err != nil {
		return ""
	}

	val, err := cr.Reader.ReadString(length, what)
	if err != nil {
		cr.err = err
		return ""
	}

	return val
}

// Float32 reads a float, accumulating any error.
func (cr *ChainReader) Float32(what string) float32 {
	if cr.err != nil {
		return 0
	}

	val, err := cr.Reader.ReadFloat32(what)
	if err != nil {
		cr.err = err
		return 0
	}

	return val
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}
