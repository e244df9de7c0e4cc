// Package milo reads and writes multi-part containers.
//
// A container starts with a big-endian magic that selects compressed or
// uncompressed mode, followed by a header in the platform's byte order:
//
//	0x00  magic
//	0x04  data start offset
//	0x08  part count
//	0x0C  total decoded size
//	0x10  part size table, one 32-bit entry per part
//
// Parts are stored back to back from the data start offset. In compressed
// mode each part is an independent raw deflate stream.
package milo

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/simonhull/rawksd/internal/binary"
	"github.com/simonhull/rawksd/internal/types"
)

// Container magics.
const (
	MagicCompressed   uint32 = 0xAFDEBECB
	MagicUncompressed uint32 = 0xAFDEBECA
)

const (
	sizeTableOffset = 0x10
	defaultAlign    = 0x800
)

// Container is a decoded multi-part container. Each part is an independently
// owned buffer.
type Container struct {
	Parts [][]byte

	// DataOffset is where part data begins. Encode raises it when the size
	// table would not fit below it.
	DataOffset uint32

	// TotalSize is the decoded size recorded in the header. Encode
	// recomputes it.
	TotalSize uint32

	Endian     binary.Endianness
	Compressed bool
}

// New returns an empty container.
func New(compressed bool, endian binary.Endianness) *Container {
	return &Container{Compressed: compressed, Endian: endian}
}

// IsContainer reports whether data starts with one of the container magics.
func IsContainer(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	magic := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	return magic == MagicCompressed || magic == MagicUncompressed
}

// Decode parses a container held in memory. Uncompressed parts are copied
// out of data so the result does not alias the source.
func Decode(data []byte, path string, endian binary.Endianness) (*Container, error) {
	sr := binary.NewBytesReader(data, path)

	magic, err := binary.Read[uint32](sr, 0, "container magic")
	if err != nil {
		return nil, err
	}

	c := &Container{Endian: endian}
	switch magic {
	case MagicCompressed:
		c.Compressed = true
	case MagicUncompressed:
		c.Compressed = false
	default:
		return nil, &types.FormatError{Path: path, Reason: fmt.Sprintf("unrecognized container magic 0x%08X", magic)}
	}

	cr := binary.NewChainReader(binary.NewReaderEndian(sr, 4, endian))
	c.DataOffset = binary.ReadChained[uint32](cr, "data offset")
	count := binary.ReadChained[uint32](cr, "part count")
	c.TotalSize = binary.ReadChained[uint32](cr, "total size")
	if err := cr.Error(); err != nil {
		return nil, err
	}

	if int64(count)*4 > sr.Size() {
		return nil, &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("part count %d exceeds file size", count), Offset: 0x08}
	}

	c.Parts = make([][]byte, 0, count)
	offset := int64(c.DataOffset)

	for i := range int64(count) {
		size, err := binary.ReadEndian[uint32](sr, sizeTableOffset+i*4, "part size", endian)
		if err != nil {
			return nil, err
		}

		raw, err := sr.Slice(offset, int(size), fmt.Sprintf("part %d", i))
		if err != nil {
			return nil, err
		}
		offset += int64(size)

		if !c.Compressed {
			c.Parts = append(c.Parts, bytes.Clone(raw))
			continue
		}

		part, err := inflate(raw)
		if err != nil {
			return nil, &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("inflate part %d: %v", i, err), Offset: offset - int64(size)}
		}
		c.Parts = append(c.Parts, part)
	}

	return c, nil
}

// Encode writes the container to w. The total size and part size table are
// backfilled once every part has been written, so w must be seekable.
func (c *Container) Encode(w io.WriteSeeker) error {
	sw := binary.NewSafeWriter(w)

	dataOffset := int64(c.DataOffset)
	if minimum := int64(sizeTableOffset + 4*len(c.Parts)); dataOffset < minimum {
		dataOffset = (minimum + defaultAlign - 1) / defaultAlign * defaultAlign
	}

	magic := MagicUncompressed
	if c.Compressed {
		magic = MagicCompressed
	}

	if err := binary.Write(sw, magic); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := binary.WriteEndian(sw, uint32(dataOffset), c.Endian); err != nil {
		return fmt.Errorf("write data offset: %w", err)
	}
	if err := binary.WriteEndian(sw, uint32(len(c.Parts)), c.Endian); err != nil {
		return fmt.Errorf("write part count: %w", err)
	}

	backfill := sw.Offset()
	if err := sw.PadTo(dataOffset); err != nil {
		return fmt.Errorf("pad to data offset: %w", err)
	}

	sizes := make([]uint32, 0, len(c.Parts))
	var total uint32

	for i, part := range c.Parts {
		before := sw.Offset()
		if c.Compressed {
			compressed, err := deflate(part)
			if err != nil {
				return fmt.Errorf("deflate part %d: %w", i, err)
			}
			if err := sw.WriteBytes(compressed); err != nil {
				return fmt.Errorf("write part %d: %w", i, err)
			}
		} else if err := sw.WriteBytes(part); err != nil {
			return fmt.Errorf("write part %d: %w", i, err)
		}
		sizes = append(sizes, uint32(sw.Offset()-before))
		total += uint32(len(part))
	}
	end := sw.Offset()

	if err := sw.Seek(backfill); err != nil {
		return err
	}
	if err := binary.WriteEndian(sw, total, c.Endian); err != nil {
		return fmt.Errorf("write total size: %w", err)
	}
	for _, size := range sizes {
		if err := binary.WriteEndian(sw, size, c.Endian); err != nil {
			return fmt.Errorf("write size table: %w", err)
		}
	}

	c.DataOffset = uint32(dataOffset)
	c.TotalSize = total
	return sw.Seek(end)
}

// Bytes encodes the container into a new buffer.
func (c *Container) Bytes() ([]byte, error) {
	buf := binary.NewBuffer(int(c.DataOffset) + c.size())
	if err := c.Encode(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Container) size() int {
	n := 0
	for _, p := range c.Parts {
		n += len(p)
	}
	return n
}

func inflate(raw []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func deflate(part []byte) ([]byte, error) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(part); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
