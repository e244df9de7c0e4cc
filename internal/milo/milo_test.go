package milo

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/simonhull/rawksd/internal/binary"
	"github.com/simonhull/rawksd/internal/types"
)

func parts(n int) [][]byte {
	out := make([][]byte, n)
	for i := range n {
		// Repetitive content so compressed parts are smaller than their input.
		out[i] = bytes.Repeat([]byte(fmt.Sprintf("part %d payload ", i)), 20+i)
	}
	return out
}

func TestContainer_RoundTrip(t *testing.T) {
	for _, compressed := range []bool{false, true} {
		for _, endian := range []binary.Endianness{binary.BigEndian, binary.LittleEndian} {
			for _, n := range []int{0, 1, 4} {
				name := fmt.Sprintf("compressed=%v/%s/parts=%d", compressed, endian, n)
				t.Run(name, func(t *testing.T) {
					c := New(compressed, endian)
					c.Parts = parts(n)

					data, err := c.Bytes()
					if err != nil {
						t.Fatalf("Bytes() error = %v", err)
					}
					if !IsContainer(data) {
						t.Error("IsContainer() = false for encoded container")
					}

					got, err := Decode(data, "test.milo", endian)
					if err != nil {
						t.Fatalf("Decode() error = %v", err)
					}
					if got.Compressed != compressed {
						t.Errorf("Compressed = %v, want %v", got.Compressed, compressed)
					}
					if len(got.Parts) != n {
						t.Fatalf("len(Parts) = %d, want %d", len(got.Parts), n)
					}
					for i := range got.Parts {
						if !bytes.Equal(got.Parts[i], c.Parts[i]) {
							t.Errorf("part %d mismatch", i)
						}
					}
					if got.TotalSize != uint32(c.size()) {
						t.Errorf("TotalSize = %d, want %d", got.TotalSize, c.size())
					}
				})
			}
		}
	}
}

func TestContainer_SizeTableIsContiguous(t *testing.T) {
	c := New(true, binary.BigEndian)
	c.Parts = parts(3)
	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	sr := binary.NewBytesReader(data, "t")
	offset, _ := binary.Read[uint32](sr, 4, "data offset")
	end := int64(offset)
	for i := range int64(3) {
		size, _ := binary.Read[uint32](sr, sizeTableOffset+i*4, "size")
		end += int64(size)
	}
	if end != int64(len(data)) {
		t.Errorf("parts end at %d, container is %d bytes", end, len(data))
	}
}

func TestContainer_KeepsDataOffset(t *testing.T) {
	c := New(false, binary.BigEndian)
	c.DataOffset = 0x40
	c.Parts = [][]byte{[]byte("abc")}

	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if len(data) != 0x43 {
		t.Errorf("len = 0x%X, want 0x43", len(data))
	}
	if string(data[0x40:]) != "abc" {
		t.Errorf("part not at data offset: %q", data[0x40:])
	}
}

func TestDecode_Errors(t *testing.T) {
	valid, err := (&Container{Parts: [][]byte{[]byte("hello world")}}).Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr any
	}{
		{"bad magic", []byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 0}, new(*types.FormatError)},
		{"too short", []byte{0xAF}, new(*types.OutOfBoundsError)},
		{"truncated part", valid[:len(valid)-4], new(*types.OutOfBoundsError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, tt.name, binary.BigEndian)
			if err == nil {
				t.Fatal("Decode() error = nil")
			}
			if !errors.As(err, tt.wantErr) {
				t.Errorf("error = %T %v, want %T", err, err, tt.wantErr)
			}
		})
	}
}

func TestDecode_OversizedPartTable(t *testing.T) {
	c := New(false, binary.BigEndian)
	c.Parts = [][]byte{[]byte("abc")}
	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	// Declare a part larger than the remaining bytes.
	data[sizeTableOffset+3] = 0xFF

	_, err = Decode(data, "oversized", binary.BigEndian)
	var oob *types.OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Errorf("error = %v, want *types.OutOfBoundsError", err)
	}
}

func TestDecode_CorruptDeflate(t *testing.T) {
	c := New(false, binary.BigEndian)
	c.Parts = [][]byte{{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}}
	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	data[3] = 0xCB

	_, err = Decode(data, "corrupt", binary.BigEndian)
	var ce *types.CorruptedFileError
	if !errors.As(err, &ce) {
		t.Errorf("error = %v, want *types.CorruptedFileError", err)
	}
}

func TestDecode_PartsAreOwned(t *testing.T) {
	c := New(false, binary.BigEndian)
	c.Parts = [][]byte{[]byte("xyz")}
	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	got, err := Decode(data, "owned", binary.BigEndian)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	got.Parts[0][0] = 'Q'
	if bytes.Contains(data, []byte("Qyz")) {
		t.Error("decoded part aliases the source buffer")
	}
}
