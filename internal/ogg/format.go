package ogg

import (
	"errors"

	"github.com/simonhull/rawksd/internal/registry"
	"github.com/simonhull/rawksd/internal/types"
)

// Plugin identity and stream names.
const (
	FormatID      = 0x2001
	FormatName    = "Multitrack Ogg Audio"
	StreamAudio   = "audio"
	StreamPreview = "preview"
)

// ErrNoAudio is returned by Decode when a song carries no audio stream.
var ErrNoAudio = errors.New("song has no audio stream")

// Format carries a song's multitrack audio and optional preview clip.
// Decoding yields the *Info of the audio stream; the streams themselves
// are only ever transferred.
type Format struct {
	registry.Descriptor
}

// New returns the plugin.
func New() *Format {
	return &Format{Descriptor: registry.NewDescriptor(FormatID, FormatName, types.FormatTypeAudio, true, false)}
}

// HasFormat reports whether data carries an audio stream.
func (f *Format) HasFormat(data *registry.FormatData) bool {
	return data.HasStream(f, StreamAudio)
}

// CanTransfer is true whenever there is audio to move.
func (f *Format) CanTransfer(data *registry.FormatData) bool {
	return f.HasFormat(data)
}

// Decode probes the audio stream.
func (f *Format) Decode(data *registry.FormatData) (any, error) {
	audio, ok := data.Stream(f, StreamAudio)
	if !ok {
		return nil, ErrNoAudio
	}
	return Probe(audio, registry.StreamName(f, StreamAudio))
}

// Create stores audio, and preview when not nil, on data. Bare Ogg
// streams are wrapped in a multitrack header first. The audio must
// probe as Vorbis.
func (f *Format) Create(data *registry.FormatData, audio, preview []byte) error {
	if _, err := Probe(audio, StreamAudio); err != nil {
		return err
	}

	if string(audio[:min(len(audio), 4)]) == pageMagic {
		wrapped, err := WrapMogg(audio)
		if err != nil {
			return err
		}
		audio = wrapped
	}

	data.SetStream(f, StreamAudio, audio)
	if preview != nil {
		data.SetStream(f, StreamPreview, preview)
	}
	return nil
}
