// Package fps4 reads and writes FPS4 indexed archives.
//
// An FPS4 archive is a big-endian header, a table of fixed-size entries
// (offset, padded size, size, name) and the concatenated entry payloads. An
// entry's payload may itself be an FPS4 archive.
//
// Entries returned by OpenBytes borrow the caller's buffer: no payload bytes
// are copied, and the entries are only valid while that buffer is.
package fps4

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/simonhull/rawksd/internal/binary"
	"github.com/simonhull/rawksd/internal/types"
)

// Magic is the leading type tag of every FPS4 archive.
const Magic = "FPS4"

const (
	headerSize = 0x1C
	entrySize  = 0x2C
	nameSize   = 0x20
	dataAlign  = 0x10
)

// MaxDepth bounds nested archive recursion.
const MaxDepth = 8

// ErrNameTooLong is returned when writing an entry whose name does not fit the entry table.
var ErrNameTooLong = errors.New("fps4: entry name longer than 32 bytes")

// Entry is one named child of an archive.
type Entry struct {
	Name string
	Data []byte
}

// IsArchive reports whether the entry's payload is itself an FPS4 archive.
func (e *Entry) IsArchive() bool {
	return IsArchive(e.Data)
}

// Open parses the entry's payload as a nested archive.
func (e *Entry) Open() (*Archive, error) {
	return OpenBytes(e.Data, e.Name)
}

// Archive is a parsed FPS4 archive.
type Archive struct {
	// Type is the four-character content tag (for example "txmv" or "pktx").
	Type    string
	Entries []*Entry
	Flags   uint16
	path    string
}

// New returns an empty archive with the given content tag.
func New(typ string) *Archive {
	return &Archive{Type: typ, Flags: 0x0047}
}

// IsArchive reports whether data starts with the FPS4 type tag.
func IsArchive(data []byte) bool {
	return len(data) >= len(Magic) && string(data[:len(Magic)]) == Magic
}

// OpenBytes parses an archive held in memory.
func OpenBytes(data []byte, path string) (*Archive, error) {
	sr := binary.NewBytesReader(data, path)

	if !IsArchive(data) {
		return nil, &types.FormatError{Path: path, Reason: "missing FPS4 type tag"}
	}

	cr := binary.NewChainReader(binary.NewReader(sr, int64(len(Magic))))
	count := binary.ReadChained[uint32](cr, "entry count")
	hdrSize := binary.ReadChained[uint32](cr, "header size")
	_ = binary.ReadChained[uint32](cr, "data offset")
	entSize := binary.ReadChained[uint16](cr, "entry size")
	flags := binary.ReadChained[uint16](cr, "flags")
	typ := cr.String(4, "content type")
	if err := cr.Error(); err != nil {
		return nil, err
	}

	if hdrSize < headerSize {
		return nil, &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("header size 0x%X too small", hdrSize), Offset: 0x08}
	}
	if entSize < entrySize {
		return nil, &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("entry size 0x%X too small", entSize), Offset: 0x10}
	}
	if int64(count)*int64(entSize) > sr.Size() {
		return nil, &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("entry count %d exceeds file size", count), Offset: 0x04}
	}

	a := &Archive{
		Type:    strings.TrimRight(typ, "\x00"),
		Flags:   flags,
		Entries: make([]*Entry, 0, count),
		path:    path,
	}

	for i := range int64(count) {
		r := binary.NewReader(sr, int64(hdrSize)+i*int64(entSize))
		cr := binary.NewChainReader(r)
		offset := binary.ReadChained[uint32](cr, "entry offset")
		_ = binary.ReadChained[uint32](cr, "entry padded size")
		size := binary.ReadChained[uint32](cr, "entry size")
		name := cr.String(nameSize, "entry name")
		if err := cr.Error(); err != nil {
			return nil, err
		}

		payload, err := sr.Slice(int64(offset), int(size), "entry data")
		if err != nil {
			return nil, err
		}

		if idx := strings.IndexByte(name, 0); idx >= 0 {
			name = name[:idx]
		}
		a.Entries = append(a.Entries, &Entry{Name: name, Data: payload})
	}

	return a, nil
}

// Path returns the path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Add appends a leaf entry.
func (a *Archive) Add(name string, data []byte) {
	a.Entries = append(a.Entries, &Entry{Name: name, Data: data})
}

// Entry returns the first direct child whose name matches, ignoring case.
func (a *Archive) Entry(name string) *Entry {
	for _, e := range a.Entries {
		if strings.EqualFold(e.Name, name) {
			return e
		}
	}
	return nil
}

// WalkFunc is called for every entry visited by Walk. path joins the names of
// enclosing archives with "/".
type WalkFunc func(path string, e *Entry) error

// ErrSkipArchive can be returned by a WalkFunc to avoid descending into a nested archive.
var ErrSkipArchive = errors.New("fps4: skip archive")

// Walk visits every entry depth-first, descending into nested archives up to MaxDepth.
func (a *Archive) Walk(fn WalkFunc) error {
	return a.walk("", fn, 0)
}

func (a *Archive) walk(prefix string, fn WalkFunc, depth int) error {
	if depth > MaxDepth {
		return &types.FormatError{Path: a.path, Reason: fmt.Sprintf("archives nested deeper than %d levels", MaxDepth)}
	}
	for _, e := range a.Entries {
		path := e.Name
		if prefix != "" {
			path = prefix + "/" + e.Name
		}
		err := fn(path, e)
		if errors.Is(err, ErrSkipArchive) {
			continue
		}
		if err != nil {
			return err
		}
		if !e.IsArchive() {
			continue
		}
		nested, err := e.Open()
		if err != nil {
			return fmt.Errorf("open nested archive %s: %w", path, err)
		}
		if err := nested.walk(path, fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the first entry, at any depth, whose base name matches ignoring case.
func (a *Archive) Find(name string) (*Entry, error) {
	var found *Entry
	errFound := errors.New("found")
	err := a.Walk(func(_ string, e *Entry) error {
		if strings.EqualFold(e.Name, name) {
			found = e
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return nil, err
	}
	return found, nil
}

// WriteTo serializes the archive. Entry payloads are aligned to 16 bytes.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	sw := binary.NewSafeWriter(w)

	count := len(a.Entries)
	dataOffset := align(int64(headerSize + count*entrySize))

	typ := make([]byte, 4)
	copy(typ, a.Type)

	if err := sw.WriteString(Magic); err != nil {
		return sw.Offset(), err
	}
	for _, v := range []uint32{uint32(count), headerSize, uint32(dataOffset)} {
		if err := binary.Write(sw, v); err != nil {
			return sw.Offset(), err
		}
	}
	for _, v := range []uint16{entrySize, a.Flags} {
		if err := binary.Write(sw, v); err != nil {
			return sw.Offset(), err
		}
	}
	if err := sw.WriteBytes(typ); err != nil {
		return sw.Offset(), err
	}
	if err := binary.Write(sw, uint32(0)); err != nil {
		return sw.Offset(), err
	}

	offset := dataOffset
	for _, e := range a.Entries {
		if len(e.Name) > nameSize {
			return sw.Offset(), fmt.Errorf("%w: %q", ErrNameTooLong, e.Name)
		}
		name := make([]byte, nameSize)
		copy(name, e.Name)

		padded := align(int64(len(e.Data)))
		for _, v := range []uint32{uint32(offset), uint32(padded), uint32(len(e.Data))} {
			if err := binary.Write(sw, v); err != nil {
				return sw.Offset(), err
			}
		}
		if err := sw.WriteBytes(name); err != nil {
			return sw.Offset(), err
		}
		offset += padded
	}

	for _, e := range a.Entries {
		if err := sw.Align(dataAlign); err != nil {
			return sw.Offset(), err
		}
		if err := sw.WriteBytes(e.Data); err != nil {
			return sw.Offset(), err
		}
	}
	if err := sw.Align(dataAlign); err != nil {
		return sw.Offset(), err
	}

	return sw.Offset(), nil
}

// Bytes serializes the archive into a new buffer.
func (a *Archive) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := a.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func align(n int64) int64 {
	if rem := n % dataAlign; rem != 0 {
		return n + dataAlign - rem
	}
	return n
}
