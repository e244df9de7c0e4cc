package registry

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/simonhull/rawksd/internal/types"
)

// FormatData is one song as held by an engine: its canonical record plus
// the raw streams each format stores for it.
//
// Streams are keyed "<format id in hex>.<name>", for example
// "1001.neversoftdata".
type FormatData struct {
	Song *types.SongData

	// Audio is the channel layout of the song's audio streams, when known.
	Audio *types.AudioFormat

	streams map[string][]byte
}

// NewFormatData returns an empty FormatData for song.
func NewFormatData(song *types.SongData) *FormatData {
	return &FormatData{Song: song, streams: make(map[string][]byte)}
}

// StreamName returns the stream key used for a format's named stream.
func StreamName(f Format, name string) string {
	return fmt.Sprintf("%x.%s", f.ID(), name)
}

// Stream returns the named stream of f.
func (d *FormatData) Stream(f Format, name string) ([]byte, bool) {
	return d.RawStream(StreamName(f, name))
}

// SetStream stores the named stream of f.
func (d *FormatData) SetStream(f Format, name string, data []byte) {
	d.SetRawStream(StreamName(f, name), data)
}

// HasStream reports whether the named stream of f is present.
func (d *FormatData) HasStream(f Format, name string) bool {
	_, ok := d.Stream(f, name)
	return ok
}

// DeleteStream removes the named stream of f.
func (d *FormatData) DeleteStream(f Format, name string) {
	delete(d.streams, StreamName(f, name))
}

// RawStream returns a stream by its full key.
func (d *FormatData) RawStream(key string) ([]byte, bool) {
	data, ok := d.streams[key]
	return data, ok
}

// SetRawStream stores a stream by its full key.
func (d *FormatData) SetRawStream(key string, data []byte) {
	if d.streams == nil {
		d.streams = make(map[string][]byte)
	}
	d.streams[key] = data
}

// Streams iterates all streams in key order.
func (d *FormatData) Streams() iter.Seq2[string, []byte] {
	return func(yield func(string, []byte) bool) {
		for _, k := range slices.Sorted(maps.Keys(d.streams)) {
			if !yield(k, d.streams[k]) {
				return
			}
		}
	}
}

// FormatIDs returns the distinct format IDs that have streams, sorted.
func (d *FormatData) FormatIDs() []int {
	seen := make(map[int]bool)
	for k := range d.streams {
		prefix, _, ok := strings.Cut(k, ".")
		if !ok {
			continue
		}
		if id, err := strconv.ParseInt(prefix, 16, 32); err == nil {
			seen[int(id)] = true
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

func (d *FormatData) copyStreams(src *FormatData, id int) {
	prefix := fmt.Sprintf("%x.", id)
	for k, v := range src.streams {
		if strings.HasPrefix(k, prefix) {
			d.SetRawStream(k, v)
		}
	}
}

// PlatformData is a song collection imported from, or being exported to,
// one engine.
type PlatformData struct {
	Engine  Engine
	Storage Storage

	Root     string
	Songs    []*FormatData
	Warnings []types.Warning

	Game types.Game
}

// NewPlatformData returns an empty collection for engine and game.
func NewPlatformData(engine Engine, game types.Game) *PlatformData {
	return &PlatformData{Engine: engine, Game: game}
}

// AddSong appends a song.
func (p *PlatformData) AddSong(song *FormatData) {
	p.Songs = append(p.Songs, song)
}

// Warn records a non-fatal problem with the song at path.
func (p *PlatformData) Warn(stage, path string, err error) {
	p.Warnings = append(p.Warnings, types.Warning{Stage: stage, Path: path, Message: err.Error()})
}

// Song returns the song with the given ID.
func (p *PlatformData) Song(id string) *FormatData {
	for _, s := range p.Songs {
		if s.Song != nil && s.Song.ID == id {
			return s
		}
	}
	return nil
}
