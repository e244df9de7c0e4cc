package ghdisc

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/simonhull/rawksd/internal/binary"
	"github.com/simonhull/rawksd/internal/fps4"
	"github.com/simonhull/rawksd/internal/milo"
	"github.com/simonhull/rawksd/internal/neversoft"
	"github.com/simonhull/rawksd/internal/qb"
	"github.com/simonhull/rawksd/internal/registry"
	"github.com/simonhull/rawksd/internal/types"
)

// mapStorage collects written files in memory.
type mapStorage map[string][]byte

func (m mapStorage) WriteFile(name string, data []byte) error {
	m[name] = bytes.Clone(data)
	return nil
}

type countingProgress struct {
	total, ticks, ends int
}

func (p *countingProgress) NewTask(n int) { p.total = n }
func (p *countingProgress) Progress()     { p.ticks++ }
func (p *countingProgress) EndTask()      { p.ends++ }

func song(id, title string, artist qb.Key) *qb.Item {
	return qb.NewStruct(qb.KeyOf(id)).Add(
		qb.NewString(neversoft.KeysID[0], id),
		qb.NewString(neversoft.KeysName[0], title),
		qb.NewKeyRef(neversoft.KeysArtist[0], artist),
		qb.NewInteger(neversoft.KeysYear[0], 2009),
		qb.NewFloat(0x46507438, -1.5), // overall song volume
	)
}

// songlistBytes encodes a GH5 songlist for platform.
func songlistBytes(t *testing.T, platform qb.Platform, entries ...*qb.Item) []byte {
	t.Helper()
	format := qb.NewPakFormat(platform)
	list := qb.NewStruct(0x3CC2A6C9)
	list.Format = format
	list.Add(entries...)
	data, err := qb.NewFile(format).Add(list).Bytes()
	if err != nil {
		t.Fatalf("encode songlist: %v", err)
	}
	return data
}

func defaultSongs() []*qb.Item {
	return []*qb.Item{
		song("dlc1", "First", qb.KeyOf("artist_one")),
		song("dlc2", "Second", qb.KeyOf("artist_two")),
	}
}

func stringsFor() []byte {
	var buf bytes.Buffer
	l := qb.NewStringList()
	l.AddName("artist_one", "Artist One")
	l.AddName("artist_two", "Artist Two")
	_, _ = l.WriteTo(&buf)
	return buf.Bytes()
}

func packed(t *testing.T, inner []byte) []byte {
	t.Helper()
	a := fps4.New("pak ")
	a.Add("readme.txt", []byte("hi"))
	a.Add("songlist.qb", inner)
	data, err := a.Bytes()
	if err != nil {
		t.Fatalf("encode archive: %v", err)
	}
	return data
}

func multipart(t *testing.T, inner []byte) []byte {
	t.Helper()
	c := milo.New(true, binary.BigEndian)
	c.Parts = [][]byte{[]byte("not an item tree"), inner}
	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("encode container: %v", err)
	}
	return data
}

func TestEngine_CreateLayouts(t *testing.T) {
	xbox := songlistBytes(t, qb.PlatformXbox360, defaultSongs()...)

	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"plain", fstest.MapFS{
			"disc/data/songlist.qb.xen":  {Data: xbox},
			"disc/data/songlist.strings": {Data: stringsFor()},
		}},
		{"archive", fstest.MapFS{
			"disc/data/qb.pak.xen":       {Data: packed(t, xbox)},
			"disc/data/songlist.strings": {Data: stringsFor()},
		}},
		{"multi-part", fstest.MapFS{
			"disc/data/songlist.qb.xen":  {Data: multipart(t, xbox)},
			"disc/data/SONGLIST.STRINGS": {Data: stringsFor()},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(neversoft.New())
			progress := &countingProgress{}

			data, err := e.Create(context.Background(), tt.fsys, "disc", types.GameUnknown, progress)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if data.Game != types.GameGuitarHero5 {
				t.Errorf("Game = %v, want Guitar Hero 5", data.Game)
			}
			if len(data.Songs) != 2 || len(data.Warnings) != 0 {
				t.Fatalf("songs = %d, warnings = %v", len(data.Songs), data.Warnings)
			}
			if progress.total != 2 || progress.ticks != 2 || progress.ends != 1 {
				t.Errorf("progress = %+v", progress)
			}

			first := data.Song("dlc1")
			if first == nil {
				t.Fatal("dlc1 missing")
			}
			if first.Song.Name != "First" || first.Song.Artist != "Artist One" || first.Song.Year != 2009 {
				t.Errorf("song = %+v", first.Song)
			}
			if !e.format.HasFormat(first) {
				t.Error("item stream not stored")
			}
			if first.Audio == nil || first.Audio.Mappings[0].Volume != -1.5 {
				t.Errorf("audio = %v", first.Audio)
			}
		})
	}
}

func TestEngine_CreateBadEntries(t *testing.T) {
	arr := qb.NewArray(qb.KeyOf("dlc3")).Add(song("dlc3", "Wrapped", 0))
	entries := append(defaultSongs(), qb.NewInteger(qb.KeyOf("junk"), 1), arr)

	fsys := fstest.MapFS{"disc/songlist.qb": {Data: songlistBytes(t, qb.PlatformPC, entries...)}}
	data, err := New(neversoft.New()).Create(context.Background(), fsys, "disc", types.GameBandHero, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if data.Game != types.GameBandHero {
		t.Errorf("explicit game overridden: %v", data.Game)
	}
	if len(data.Songs) != 3 {
		t.Errorf("songs = %d, want 3", len(data.Songs))
	}
	if len(data.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1", data.Warnings)
	}
	if s := data.Song("dlc3"); s == nil || s.Song.Name != "Wrapped" {
		t.Error("array entry not unwrapped")
	}
}

func TestEngine_CreateNoSonglist(t *testing.T) {
	fsys := fstest.MapFS{"disc/readme.txt": {Data: []byte("x")}}
	_, err := New(neversoft.New()).Create(context.Background(), fsys, "disc", types.GameUnknown, nil)

	var fe *types.FormatError
	if !errors.As(err, &fe) {
		t.Errorf("Create() error = %v, want *types.FormatError", err)
	}
}

func TestEngine_Detect(t *testing.T) {
	e := New(neversoft.New())

	fsys := fstest.MapFS{"disc/songlist.qb.ps3": {Data: songlistBytes(t, qb.PlatformPS3, defaultSongs()...)}}
	got, err := e.Detect(fsys, "disc")
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(got) != 1 || got[0].Game != types.GameGuitarHero5 || got[0].Engine != e {
		t.Errorf("Detect() = %v", got)
	}

	none, err := e.Detect(fstest.MapFS{"disc/songlist.qb": {Data: []byte("garbage")}}, "disc")
	if err != nil || len(none) != 0 {
		t.Errorf("Detect(garbage) = %v, %v", none, err)
	}
}

func TestEngine_SaveSong(t *testing.T) {
	e := New(neversoft.New())
	fsys := fstest.MapFS{"disc/songlist.qb.ngc": {Data: songlistBytes(t, qb.PlatformWii, defaultSongs()...)}}

	data, err := e.Create(context.Background(), fsys, "disc", types.GameUnknown, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	storage := mapStorage{}
	out := registry.NewPlatformData(e, types.GameGuitarHero5)
	out.Storage = storage
	if err := e.SaveSong(context.Background(), out, data.Songs[0]); err != nil {
		t.Fatalf("SaveSong() error = %v", err)
	}

	raw, ok := storage["dlc1/songlist.qb.ngc"]
	if !ok {
		t.Fatalf("files written = %v", storage)
	}

	back, err := e.Create(context.Background(), fstest.MapFS{"x/dlc1/songlist.qb.ngc": {Data: raw}}, "x", types.GameUnknown, nil)
	if err != nil {
		t.Fatalf("re-import error = %v", err)
	}
	if len(back.Songs) != 1 || back.Songs[0].Song.Name != "First" {
		t.Errorf("re-imported songs = %v", back.Songs)
	}

	if err := e.SaveSong(context.Background(), registry.NewPlatformData(e, types.GameUnknown), data.Songs[0]); !errors.Is(err, ErrNoStorage) {
		t.Errorf("SaveSong() without storage error = %v", err)
	}
}
