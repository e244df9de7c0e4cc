package binary

import "encoding/binary"

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian uses big-endian byte order.
	// Used by: FPS4 archives, multi-part container magic, Xbox 360/PS3/Wii item trees.
	BigEndian Endianness = iota
	// LittleEndian uses little-endian byte order.
	// Used by: PC and PS2 item trees, x86/x64 architectures.
	LittleEndian
)

// String returns "big-endian" or "little-endian".
func (e Endianness) String() string {
	if e == LittleEndian {
		return "little-endian"
	}
	return "big-endian"
}

// ByteOrder returns the encoding/binary order for e.
func (e Endianness) ByteOrder() binary.ByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// sizeOf returns the encoded width of T in bytes.
func sizeOf[T uint8 | uint16 | uint32 | uint64]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// ReadLE reads a numeric value of type T at the given offset using little-endian byte order.
//
// This is a convenience wrapper for ReadEndian with LittleEndian.
//
// Example:
//
//	count, err := binary.ReadLE[uint32](sr, offset, "item count")
func ReadLE[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, LittleEndian)
}

// ReadBE reads a numeric value of type T at the given offset using big-endian byte order.
//
// This is a convenience wrapper for ReadEndian with BigEndian.
// Equivalent to Read() but more explicit about byte order.
//
// Example:
//
//	magic, err := binary.ReadBE[uint32](sr, 0, "container magic")
func ReadBE[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// ReadEndian reads a numeric value of type T at the given offset with specified byte order.
//
// This is the low-level function used by Read, ReadLE, and ReadBE.
// Most code should use the convenience wrappers instead.
func ReadEndian[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string, endian Endianness) (T, error) {
	var zero T
	size := sizeOf[T]()

	var scratch [8]byte
	buf := scratch[:size]
	if err := sr.ReadAt(buf, off, what); err != nil {
		return zero, err
	}

	order := endian.ByteOrder()
	var val T
	switch size {
	case 1:
		val = T(buf[0])
	case 2:
		val = T(order.Uint16(buf))
	case 4:
		val = T(order.Uint32(buf))
	default:
		val = T(order.Uint64(buf))
	}

	return val, nil
}
