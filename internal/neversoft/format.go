package neversoft

import (
	"errors"
	"fmt"

	"github.com/simonhull/rawksd/internal/qb"
	"github.com/simonhull/rawksd/internal/registry"
	"github.com/simonhull/rawksd/internal/types"
)

// Plugin identity.
const (
	FormatID   = 0x1001
	FormatName = "Neversoft Song Data"
	StreamName = "neversoftdata"
)

// ErrNoSongItem is returned when a song carries no Neversoft item data.
var ErrNoSongItem = errors.New("song has no Neversoft item data")

// Format is the metadata plugin that carries a song's original item bytes.
// It stores no decoded model: Decode returns nil and Encode does nothing.
type Format struct {
	registry.Descriptor
}

// New returns the plugin. Register a single instance per registry.
func New() *Format {
	return &Format{
		Descriptor: registry.NewDescriptor(FormatID, FormatName, types.FormatTypeMetadata, true, true),
	}
}

// Decode returns nil: the stream has no meaning beyond SongData.
func (f *Format) Decode(*registry.FormatData) (any, error) { return nil, nil }

// Encode does nothing.
func (f *Format) Encode(any, *registry.FormatData) error { return nil }

// CanTransfer always reports true; the stream is copied verbatim.
func (f *Format) CanTransfer(*registry.FormatData) bool { return true }

// HasFormat reports whether data carries the item stream.
func (f *Format) HasFormat(data *registry.FormatData) bool {
	return data.HasStream(f, StreamName)
}

// SaveSongItem moves the item bytes recorded by SongData from the data bag
// into the format's stream. It does nothing when the bag holds no bytes.
func (f *Format) SaveSongItem(data *registry.FormatData) {
	raw, ok := data.Song.Data.Bytes(DataSongItem)
	if !ok || len(raw) == 0 {
		return
	}
	data.SetStream(f, StreamName, raw)
	data.Song.Data.Delete(DataSongItem)
}

// SongItem re-reads the song's struct from the item stream, first moving
// the bytes out of the data bag if the stream is still empty. An array found
// under the song's key is unwrapped to its first element, which takes the
// array's key.
func (f *Format) SongItem(data *registry.FormatData) (*qb.Item, error) {
	stream, ok := data.Stream(f, StreamName)
	if !ok || len(stream) == 0 {
		f.SaveSongItem(data)
		stream, ok = data.Stream(f, StreamName)
	}
	if !ok || len(stream) == 0 {
		return nil, ErrNoSongItem
	}

	key, ok := data.Song.Data.Int(DataSongItemKey)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrNoSongItem, DataSongItemKey)
	}

	file, err := qb.Parse(stream, registry.StreamName(f, StreamName), SongItemType(data.Song))
	if err != nil {
		return nil, fmt.Errorf("parse song item: %w", err)
	}

	item := file.FindItem(qb.Key(key), true)
	if item == nil {
		return nil, fmt.Errorf("%w: key %s not found", ErrNoSongItem, qb.Key(key))
	}
	if item.Type == qb.TypeArray {
		if len(item.Items) == 0 {
			return nil, fmt.Errorf("%w: array %s is empty", ErrNoSongItem, item.Key)
		}
		first := item.Items[0]
		first.Key = item.Key
		item = first
	}
	if item.Type != qb.TypeStruct {
		return nil, &types.FormatError{
			Path:   registry.StreamName(f, StreamName),
			Reason: fmt.Sprintf("song item %s is %s, want struct", item.Key, item.Type),
		}
	}
	return item, nil
}

// AudioFormat derives the channel layout for a song from its item stream.
func (f *Format) AudioFormat(data *registry.FormatData) (*types.AudioFormat, error) {
	item, err := f.SongItem(data)
	if err != nil {
		return nil, err
	}
	return AudioFormatOf(item, data.Song.Game), nil
}
