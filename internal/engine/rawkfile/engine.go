// Package rawkfile implements the RawkSD song archive engine: one directory
// per song holding a "songdata" record and the song's streams as files.
package rawkfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/simonhull/rawksd/internal/ogg"
	"github.com/simonhull/rawksd/internal/registry"
	"github.com/simonhull/rawksd/internal/types"
)

// Engine identity.
const (
	ID   = 0x0001
	Name = "RawkSD Song Archive"
)

const (
	songDataFile   = "songdata"
	legacyDataFile = "data"
	legacyChart    = "chart"

	// CompatibilityFlag marks songs imported from the first archive version.
	CompatibilityFlag = "RawkSD2Compatibility"
)

var (
	// ErrNoSongData is reported for directories without a song record.
	ErrNoSongData = errors.New("no song data found")

	// ErrLegacyArchive is reported for songs stored in the first archive
	// version, whose DTB record is not decoded.
	ErrLegacyArchive = errors.New("legacy song archive is not supported")

	// ErrNoStorage is returned by SaveSong when the platform has no storage.
	ErrNoStorage = errors.New("platform has no storage")
)

// Engine reads and writes song archives.
type Engine struct {
	audio *ogg.Format
}

// New returns the engine. When audio is not nil, loose "audio" and
// "preview" Ogg files in a song directory are imported through it.
func New(audio *ogg.Format) *Engine {
	return &Engine{audio: audio}
}

func (e *Engine) ID() int      { return ID }
func (e *Engine) Name() string { return Name }

// Detect proposes this engine when the tree holds a song record anywhere,
// or both a legacy data file and a chart.
func (e *Engine) Detect(fsys fs.FS, root string) ([]registry.Candidate, error) {
	var songData, legacy, chart bool
	err := fs.WalkDir(fsys, root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		switch strings.ToLower(d.Name()) {
		case songDataFile:
			songData = true
		case legacyDataFile:
			legacy = true
		case legacyChart:
			chart = true
		}
		if songData || (legacy && chart) {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if songData || (legacy && chart) {
		return []registry.Candidate{{Engine: e, Game: types.GameUnknown}}, nil
	}
	return nil, nil
}

// Create imports the song in root itself and one song per immediate
// subdirectory. Directories that cannot be imported are recorded as
// warnings.
func (e *Engine) Create(ctx context.Context, fsys fs.FS, root string, game types.Game, progress types.Progress) (*registry.PlatformData, error) {
	if progress == nil {
		progress = types.NopProgress{}
	}

	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	dirs := []string{root}
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, path.Join(root, entry.Name()))
		}
	}

	data := registry.NewPlatformData(e, game)
	data.Root = root

	progress.NewTask(len(dirs))
	defer progress.EndTask()

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return data, err
		}

		if err := e.importSong(fsys, dir, data); err != nil {
			data.Warn("import", dir, err)
		}
		progress.Progress()
	}

	return data, nil
}

func (e *Engine) importSong(fsys fs.FS, dir string, data *registry.PlatformData) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}

	var songData, legacy fs.DirEntry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(entry.Name()) {
		case songDataFile:
			songData = entry
		case legacyDataFile:
			legacy = entry
		}
	}

	if legacy != nil {
		return ErrLegacyArchive
	}
	if songData == nil {
		return ErrNoSongData
	}

	raw, err := fs.ReadFile(fsys, path.Join(dir, songData.Name()))
	if err != nil {
		return err
	}
	song := &types.SongData{}
	if err := json.Unmarshal(raw, song); err != nil {
		return fmt.Errorf("decode %s: %w", songDataFile, err)
	}
	if song.Difficulty == nil {
		song.Difficulty = make(map[types.Instrument]int)
	}

	fd := e.CreateSong(data, song)
	var audio, preview []byte
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == songData.Name() {
			continue
		}
		stream, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		switch looseAudio(entry.Name()) {
		case ogg.StreamAudio:
			if e.audio != nil {
				audio = stream
				continue
			}
		case ogg.StreamPreview:
			if e.audio != nil {
				preview = stream
				continue
			}
		}
		fd.SetRawStream(entry.Name(), stream)
	}

	if audio != nil {
		if err := e.audio.Create(fd, audio, preview); err != nil {
			return fmt.Errorf("import audio: %w", err)
		}
	} else if preview != nil {
		fd.SetRawStream(ogg.StreamPreview+".ogg", preview)
	}

	return e.AddSong(data, fd)
}

// looseAudio returns the stream a loose Ogg file name maps to, or "".
func looseAudio(name string) string {
	base, ext, ok := strings.Cut(strings.ToLower(name), ".")
	if !ok || (ext != "ogg" && ext != "mogg") {
		return ""
	}
	if base == ogg.StreamAudio || base == ogg.StreamPreview {
		return base
	}
	return ""
}

// CreateSong returns an empty FormatData for song.
func (e *Engine) CreateSong(_ *registry.PlatformData, song *types.SongData) *registry.FormatData {
	return registry.NewFormatData(song)
}

// AddSong adds song to data. Songs need an ID to be saved later.
func (e *Engine) AddSong(data *registry.PlatformData, song *registry.FormatData) error {
	if song.Song == nil {
		return errors.New("song has no record")
	}
	data.AddSong(song)
	return nil
}

// SaveSong writes the song record and every stream into a directory named
// after the song's ID.
func (e *Engine) SaveSong(ctx context.Context, data *registry.PlatformData, song *registry.FormatData) error {
	if data.Storage == nil {
		return ErrNoStorage
	}
	if song.Song == nil {
		return errors.New("song has no record")
	}

	dir := song.Song.ID
	if !fs.ValidPath(dir) || dir == "." || strings.Contains(dir, "/") {
		return fmt.Errorf("song ID %q is not a valid directory name", dir)
	}

	record, err := json.MarshalIndent(song.Song, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", songDataFile, err)
	}
	if err := data.Storage.WriteFile(path.Join(dir, songDataFile), record); err != nil {
		return err
	}

	for name, stream := range song.Streams() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := data.Storage.WriteFile(path.Join(dir, name), stream); err != nil {
			return err
		}
	}
	return nil
}

// IsRawkSD2 reports whether song came from the first archive version.
func IsRawkSD2(song *types.SongData) bool {
	return song.Data.Bool(CompatibilityFlag) || song.Version == 0
}
