package registry

import (
	"context"
	"io/fs"

	"github.com/simonhull/rawksd/internal/types"
)

// Engine is one console and game family target. It owns reading a song
// collection from disk and writing songs back.
type Engine interface {
	ID() int
	Name() string

	// Create imports every song under root. A failure on one song is
	// recorded as a warning and the batch continues.
	Create(ctx context.Context, fsys fs.FS, root string, game types.Game, progress types.Progress) (*PlatformData, error)

	// CreateSong returns a FormatData for song shaped for this engine.
	CreateSong(data *PlatformData, song *types.SongData) *FormatData

	// AddSong adds an imported song to data.
	AddSong(data *PlatformData, song *FormatData) error

	// SaveSong persists song through data.Storage.
	SaveSong(ctx context.Context, data *PlatformData, song *FormatData) error
}

// Storage receives files written by SaveSong. Names are slash-separated and
// relative to the storage root.
type Storage interface {
	WriteFile(name string, data []byte) error
}

// Candidate is an (engine, game) pair proposed by a detector.
type Candidate struct {
	Engine Engine
	Game   types.Game
}

func (c Candidate) String() string {
	return c.Engine.Name() + " (" + c.Game.String() + ")"
}

// Detector probes a directory tree and returns the engines that could read it.
type Detector func(fsys fs.FS, root string) ([]Candidate, error)
