package qb

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/simonhull/rawksd/internal/binary"
	"github.com/simonhull/rawksd/internal/types"
)

func sampleFile(format *PakFormat) *File {
	song := NewStruct(KeyOf("dlc1")).Add(
		NewString(KeyOf("title"), "Motörhead Tribute"),
		NewWideString(KeyOf("artist"), "バンド", "Second"),
		NewInteger(KeyOf("year"), 2009, -1),
		NewFloat(KeyOf("hammer_on_measure_scale"), 2.95),
		NewKeyRef(KeyOf("genre"), KeyOf("rock")),
		NewArray(KeyOf("tags")).Add(NewString(0, "a"), NewString(0, "bc")),
	)
	return NewFile(format).Add(
		NewStruct(KeyOf("gh5_songlist_props")).Add(song),
		NewInteger(KeyOf("version"), 3),
	)
}

func TestFile_RoundTrip(t *testing.T) {
	for _, p := range []Platform{PlatformPC, PlatformXbox360, PlatformWii} {
		t.Run(p.String(), func(t *testing.T) {
			format := NewPakFormat(p)
			data, err := sampleFile(format).Bytes()
			if err != nil {
				t.Fatalf("Bytes() error = %v", err)
			}
			if len(data)%4 != 0 {
				t.Errorf("encoded length %d not 4-aligned", len(data))
			}

			f, err := Parse(data, "songlist.qb", format)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(f.Items) != 2 {
				t.Fatalf("len(Items) = %d, want 2", len(f.Items))
			}

			again, err := f.Bytes()
			if err != nil {
				t.Fatalf("re-encode error = %v", err)
			}
			if !bytes.Equal(again, data) {
				t.Error("re-encoded bytes differ")
			}

			song := f.FindItem(KeyOf("dlc1"), true)
			if song == nil {
				t.Fatal("song struct not found")
			}
			if song.Format != format {
				t.Error("parsed item does not carry its PakFormat")
			}
			if s, _ := song.FindItem(KeyOf("title"), false).Text(); s != "Motörhead Tribute" {
				t.Errorf("title = %q", s)
			}
			artist := song.FindItem(KeyOf("artist"), false)
			if len(artist.Strings) != 2 || artist.Strings[0] != "バンド" {
				t.Errorf("artist = %q", artist.Strings)
			}
			if y := song.FindItem(KeyOf("year"), false).Integers; len(y) != 2 || y[0] != 2009 || y[1] != -1 {
				t.Errorf("year = %v", y)
			}
			if v, _ := song.FindItem(KeyOf("hammer_on_measure_scale"), false).Float(); v != 2.95 {
				t.Errorf("hopo = %v", v)
			}
			if k, _ := song.FindItem(KeyOf("genre"), false).KeyRef(); k != KeyOf("rock") {
				t.Errorf("genre = %s", k)
			}
		})
	}
}

func TestFile_ByteOrder(t *testing.T) {
	f := NewFile(NewPakFormat(PlatformXbox360)).Add(NewInteger(0x01020304, 1))
	data, err := f.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	key := data[fileHeaderSize+4 : fileHeaderSize+8]
	if !bytes.Equal(key, []byte{1, 2, 3, 4}) {
		t.Errorf("big-endian key bytes = % X", key)
	}
	if size := data[4:8]; !bytes.Equal(size, []byte{0, 0, 0, byte(len(data))}) {
		t.Errorf("size field = % X, want %d", size, len(data))
	}

	f.Format = NewPakFormat(PlatformPC)
	data, err = f.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	key = data[fileHeaderSize+4 : fileHeaderSize+8]
	if !bytes.Equal(key, []byte{4, 3, 2, 1}) {
		t.Errorf("little-endian key bytes = % X", key)
	}
}

func TestFile_SingleItem(t *testing.T) {
	format := NewPakFormat(PlatformPS3)
	song := sampleFile(format).FindItem(KeyOf("dlc1"), true)

	data, err := NewFile(format).Add(song).Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	f, err := Parse(data, "item", format)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(f.Items) != 1 {
		t.Fatalf("Parse() = %d items, want 1", len(f.Items))
	}
	got := f.Items[0]
	if got.Key != KeyOf("dlc1") || got.Type != TypeStruct || len(got.Items) != len(song.Items) {
		t.Errorf("Parse() = %s %s with %d items", got.Key, got.Type, len(got.Items))
	}
}

func TestFile_EncodeErrors(t *testing.T) {
	format := NewPakFormat(PlatformPC)
	encode := func(it *Item) error {
		_, err := NewFile(format).Add(it).Bytes()
		return err
	}

	if err := encode(NewString(0, "日本")); err == nil {
		t.Error("narrow string outside Windows-1252 encoded without error")
	}
	if err := encode(&Item{Type: 99}); err == nil {
		t.Error("unknown item type encoded without error")
	}

	deep := NewStruct(0)
	cur := deep
	for range MaxDepth + 1 {
		next := NewStruct(0)
		cur.Add(next)
		cur = next
	}
	if err := encode(deep); !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("deep encode error = %v, want ErrDepthExceeded", err)
	}
}

type failingWriter struct{}

var errSink = errors.New("sink failed")

func (failingWriter) Write([]byte) (int, error) { return 0, errSink }

func TestFile_WriteTo(t *testing.T) {
	f := sampleFile(NewPakFormat(PlatformXbox360))
	want, err := f.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != int64(len(want)) || !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("WriteTo() wrote %d bytes, differs from Bytes()", n)
	}

	if _, err := f.WriteTo(failingWriter{}); !errors.Is(err, errSink) {
		t.Errorf("WriteTo(failing) error = %v, want sink error", err)
	}
}

func TestParse_Errors(t *testing.T) {
	format := NewPakFormat(PlatformPC)
	valid, err := sampleFile(format).Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	badType := bytes.Clone(valid)
	badType[fileHeaderSize] = 0x7F

	hugeCount := bytes.Clone(valid)
	copy(hugeCount[fileHeaderSize+8:], []byte{0xFF, 0xFF, 0xFF, 0x0F})

	tests := []struct {
		name string
		data []byte
	}{
		{"declared size past end", valid[:len(valid)-8]},
		{"size below header", append([]byte{0, 0, 0, 0, 4, 0, 0, 0}, make([]byte, 20)...)},
		{"unknown item type", badType},
		{"count exceeds data", hugeCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data, tt.name, format)
			var ce *types.CorruptedFileError
			if !errors.As(err, &ce) {
				t.Errorf("Parse() error = %v, want *types.CorruptedFileError", err)
			}
		})
	}

	_, err = Parse([]byte{1, 2}, "short", format)
	var oob *types.OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Errorf("short Parse() error = %v, want *types.OutOfBoundsError", err)
	}
}

func TestParse_DepthGuard(t *testing.T) {
	format := NewPakFormat(PlatformPC)
	buf := binary.NewBuffer(0)
	sw := binary.NewSafeWriter(buf)
	_ = sw.PadTo(fileHeaderSize)
	for range MaxDepth + 2 {
		_ = sw.WriteBytes([]byte{byte(TypeStruct), 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0})
	}
	_ = sw.WriteBytes([]byte{byte(TypeInteger), 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	data := buf.Bytes()
	data[4] = byte(len(data))
	data[5] = byte(len(data) >> 8)

	_, err := Parse(data, "deep", format)
	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("Parse() error = %v, want ErrDepthExceeded", err)
	}
}

func BenchmarkParse(b *testing.B) {
	format := NewPakFormat(PlatformXbox360)
	f := NewFile(format)
	list := NewStruct(KeyOf("gh5_songlist_props"))
	for i := range 200 {
		list.Add(NewStruct(KeyOf(fmt.Sprintf("song%d", i))).Add(
			NewString(KeyOf("title"), "Title"),
			NewInteger(KeyOf("year"), 2009),
		))
	}
	data, err := f.Add(list).Bytes()
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := Parse(data, "bench.qb", format); err != nil {
			b.Fatal(err)
		}
	}
}
