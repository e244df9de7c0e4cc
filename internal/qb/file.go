package qb

import (
	"errors"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/simonhull/rawksd/internal/binary"
	"github.com/simonhull/rawksd/internal/types"
)

// MaxDepth bounds item nesting on both decode and encode.
const MaxDepth = 64

const (
	fileHeaderSize = 28
	itemHeaderSize = 8
	minItemSize    = 4
)

// ErrDepthExceeded is returned when items nest deeper than MaxDepth.
var ErrDepthExceeded = errors.New("qb: items nested deeper than MaxDepth")

// File is a parsed item tree file: a short header followed by top-level items.
type File struct {
	Format *PakFormat
	Items  []*Item
	Flags  uint32
	path   string
}

// NewFile returns an empty file for format.
func NewFile(format *PakFormat) *File {
	return &File{Format: format}
}

// Path returns the path the file was parsed from.
func (f *File) Path() string {
	return f.path
}

// Add appends top-level items.
func (f *File) Add(items ...*Item) *File {
	for _, it := range items {
		it.Format = f.Format
	}
	f.Items = append(f.Items, items...)
	return f
}

// FindItem searches the top-level items, then their descendants when recursive is set.
func (f *File) FindItem(key Key, recursive bool) *Item {
	root := Item{Type: TypeStruct, Items: f.Items}
	return root.FindItem(key, recursive)
}

// Parse decodes an item tree file held in memory.
func Parse(data []byte, path string, format *PakFormat) (*File, error) {
	sr := binary.NewBytesReader(data, path)
	cr := binary.NewChainReader(binary.NewReaderEndian(sr, 0, format.Endian))
	flags := binary.ReadChained[uint32](cr, "file flags")
	size := binary.ReadChained[uint32](cr, "file size")
	if err := cr.Error(); err != nil {
		return nil, err
	}

	if size < fileHeaderSize || int64(size) > sr.Size() {
		return nil, &types.CorruptedFileError{
			Path:   path,
			Reason: fmt.Sprintf("declared size %d, have %d bytes", size, sr.Size()),
			Offset: 4,
		}
	}

	f := &File{Format: format, Flags: flags, path: path}
	d := newDecoder(data[:size], path, format, fileHeaderSize)
	for d.r.Remaining() > 0 {
		it, err := d.item(0)
		if err != nil {
			return nil, err
		}
		f.Items = append(f.Items, it)
	}

	return f, nil
}

// Bytes encodes the file.
func (f *File) Bytes() ([]byte, error) {
	buf := binary.NewBuffer(256)
	e := newEncoder(buf, f.Format)

	if err := binary.WriteEndian(e.sw, f.Flags, e.endian); err != nil {
		return nil, err
	}
	if err := binary.WriteEndian(e.sw, uint32(0), e.endian); err != nil {
		return nil, err
	}
	if err := e.sw.PadTo(fileHeaderSize); err != nil {
		return nil, err
	}

	for _, it := range f.Items {
		if err := e.item(it, 0); err != nil {
			return nil, err
		}
	}

	end := e.sw.Offset()
	if err := e.sw.Seek(4); err != nil {
		return nil, err
	}
	if err := binary.WriteEndian(e.sw, uint32(end), e.endian); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the encoded file to w.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	data, err := f.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

var narrow encoding.Encoding = charmap.Windows1252

func wide(endian binary.Endianness) encoding.Encoding {
	if endian == binary.LittleEndian {
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	}
	return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
}

type decoder struct {
	r      *binary.Reader
	format *PakFormat
	path   string
}

func newDecoder(data []byte, path string, format *PakFormat, offset int64) *decoder {
	sr := binary.NewBytesReader(data, path)
	return &decoder{
		r:      binary.NewReaderEndian(sr, offset, format.Endian),
		format: format,
		path:   path,
	}
}

func (d *decoder) corrupt(offset int64, format string, args ...any) error {
	return &types.CorruptedFileError{Path: d.path, Reason: fmt.Sprintf(format, args...), Offset: offset}
}

func (d *decoder) item(depth int) (*Item, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%s at offset %d: %w", d.path, d.r.Offset(), ErrDepthExceeded)
	}

	start := d.r.Offset()
	cr := binary.NewChainReader(d.r)
	typ := ItemType(binary.ReadChained[uint8](cr, "item type"))
	flags := binary.ReadChained[uint8](cr, "item flags")
	_ = binary.ReadChained[uint16](cr, "item reserved")
	key := Key(binary.ReadChained[uint32](cr, "item key"))
	count := binary.ReadChained[uint32](cr, "item count")
	if err := cr.Error(); err != nil {
		return nil, err
	}

	if int64(count)*minItemSize > d.r.Remaining() {
		return nil, d.corrupt(start, "%s item count %d exceeds remaining %d bytes", typ, count, d.r.Remaining())
	}

	it := &Item{Type: typ, Flags: flags, Key: key, Format: d.format}

	switch typ {
	case TypeStruct, TypeArray:
		it.Items = make([]*Item, 0, count)
		for range count {
			child, err := d.item(depth + 1)
			if err != nil {
				return nil, err
			}
			it.Items = append(it.Items, child)
		}

	case TypeInteger:
		it.Integers = make([]int32, 0, count)
		for range count {
			v, err := binary.ReadValue[uint32](d.r, "integer value")
			if err != nil {
				return nil, err
			}
			it.Integers = append(it.Integers, int32(v))
		}

	case TypeFloat:
		it.Floats = make([]float32, 0, count)
		for range count {
			v, err := d.r.ReadFloat32("float value")
			if err != nil {
				return nil, err
			}
			it.Floats = append(it.Floats, v)
		}

	case TypeKeyRef:
		it.Keys = make([]Key, 0, count)
		for range count {
			v, err := binary.ReadValue[uint32](d.r, "key value")
			if err != nil {
				return nil, err
			}
			it.Keys = append(it.Keys, Key(v))
		}

	case TypeString, TypeWideString:
		it.Strings = make([]string, 0, count)
		for range count {
			s, err := d.string(typ == TypeWideString)
			if err != nil {
				return nil, err
			}
			it.Strings = append(it.Strings, s)
		}

	default:
		return nil, d.corrupt(start, "unknown item type %d", uint8(typ))
	}

	return it, nil
}

func (d *decoder) string(isWide bool) (string, error) {
	start := d.r.Offset()
	length, err := binary.ReadValue[uint32](d.r, "string length")
	if err != nil {
		return "", err
	}

	n := int64(length)
	enc := narrow
	if isWide {
		n *= 2
		enc = wide(d.r.Endian())
	}
	if n > d.r.Remaining() {
		return "", d.corrupt(start, "string length %d exceeds remaining %d bytes", length, d.r.Remaining())
	}

	raw, err := d.r.ReadBytes(int(n), "string data")
	if err != nil {
		return "", err
	}
	d.r.Seek(align4(d.r.Offset()))

	s, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", d.corrupt(start, "decode string: %v", err)
	}
	return string(s), nil
}

type encoder struct {
	sw     *binary.SafeWriter
	endian binary.Endianness
}

func newEncoder(w io.Writer, format *PakFormat) *encoder {
	return &encoder{sw: binary.NewSafeWriter(w), endian: format.Endian}
}

func (e *encoder) u32(v uint32) error {
	return binary.WriteEndian(e.sw, v, e.endian)
}

func (e *encoder) item(it *Item, depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("encode item %s: %w", it.Key, ErrDepthExceeded)
	}

	if err := e.sw.WriteBytes([]byte{byte(it.Type), it.Flags, 0, 0}); err != nil {
		return err
	}
	if err := e.u32(uint32(it.Key)); err != nil {
		return err
	}
	if err := e.u32(uint32(it.len())); err != nil {
		return err
	}

	switch it.Type {
	case TypeStruct, TypeArray:
		for _, c := range it.Items {
			if err := e.item(c, depth+1); err != nil {
				return err
			}
		}
	case TypeInteger:
		for _, v := range it.Integers {
			if err := e.u32(uint32(v)); err != nil {
				return err
			}
		}
	case TypeFloat:
		for _, v := range it.Floats {
			if err := e.u32(math.Float32bits(v)); err != nil {
				return err
			}
		}
	case TypeKeyRef:
		for _, v := range it.Keys {
			if err := e.u32(uint32(v)); err != nil {
				return err
			}
		}
	case TypeString, TypeWideString:
		for _, s := range it.Strings {
			if err := e.string(s, it.Type == TypeWideString); err != nil {
				return fmt.Errorf("encode item %s: %w", it.Key, err)
			}
		}
	default:
		return fmt.Errorf("encode item %s: unknown item type %d", it.Key, uint8(it.Type))
	}
	return nil
}

func (e *encoder) string(s string, isWide bool) error {
	enc := narrow
	if isWide {
		enc = wide(e.endian)
	}
	raw, _, err := transform.Bytes(enc.NewEncoder(), []byte(s))
	if err != nil {
		return fmt.Errorf("string %q: %w", s, err)
	}

	length := len(raw)
	if isWide {
		length /= 2
	}
	if err := e.u32(uint32(length)); err != nil {
		return err
	}
	if err := e.sw.WriteBytes(raw); err != nil {
		return err
	}
	return e.sw.Align(4)
}

func align4(n int64) int64 {
	return (n + 3) &^ 3
}
