// Package ghdisc implements the Neversoft disc engine. It reads the
// songlist item tree of a Guitar Hero title, either as a plain file or
// packed in an FPS4 archive or multi-part container, and maps every song
// through the Neversoft metadata mapper.
package ghdisc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/simonhull/rawksd/internal/neversoft"
	"github.com/simonhull/rawksd/internal/qb"
	"github.com/simonhull/rawksd/internal/registry"
	"github.com/simonhull/rawksd/internal/types"
)

// Engine identity.
const (
	ID   = 0x0002
	Name = "Neversoft Disc"
)

// ErrNoStorage is returned by SaveSong when the platform has no storage.
var ErrNoStorage = errors.New("platform has no storage")

// Engine reads Neversoft songlists.
type Engine struct {
	format *neversoft.Format
}

// New returns an engine that stores song items through format.
func New(format *neversoft.Format) *Engine {
	return &Engine{format: format}
}

func (e *Engine) ID() int      { return ID }
func (e *Engine) Name() string { return Name }

// Detect proposes this engine for the first readable songlist under root,
// with the game that ships that songlist.
func (e *Engine) Detect(fsys fs.FS, root string) ([]registry.Candidate, error) {
	paths, err := findSonglists(fsys, root)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, err
		}
		file, err := loadTree(data, p, qb.PlatformFromPath(p), 0)
		if err != nil {
			continue
		}
		if _, info, ok := neversoft.FindSonglist(file); ok {
			return []registry.Candidate{{Engine: e, Game: info.Game}}, nil
		}
	}
	return nil, nil
}

// Create maps every song in the songlist found under root. When game is
// unknown it is taken from the songlist.
func (e *Engine) Create(ctx context.Context, fsys fs.FS, root string, game types.Game, progress types.Progress) (*registry.PlatformData, error) {
	if progress == nil {
		progress = types.NopProgress{}
	}

	sl, err := loadSonglist(fsys, root)
	if err != nil {
		return nil, err
	}
	if game == types.GameUnknown {
		game = sl.info.Game
	}

	data := registry.NewPlatformData(e, game)
	data.Root = root

	progress.NewTask(len(sl.item.Items))
	defer progress.EndTask()

	for _, child := range sl.item.Items {
		if err := ctx.Err(); err != nil {
			return data, err
		}
		if err := e.importSong(data, child, sl.strs); err != nil {
			data.Warn("import", path.Join(sl.path, child.Key.String()), err)
		}
		progress.Progress()
	}

	return data, nil
}

func (e *Engine) importSong(data *registry.PlatformData, item *qb.Item, strs *qb.StringList) error {
	if item.Type == qb.TypeArray && len(item.Items) > 0 {
		first := item.Items[0].Clone()
		first.Key = item.Key
		item = first
	}
	if item.Type != qb.TypeStruct {
		return &types.FormatError{Reason: fmt.Sprintf("songlist entry %s is %s, want struct", item.Key, item.Type)}
	}

	song, err := neversoft.SongData(item, strs, data.Game)
	if err != nil {
		return err
	}

	fd := e.CreateSong(data, song)
	e.format.SaveSongItem(fd)
	fd.Audio = neversoft.AudioFormatOf(item, data.Game)
	return e.AddSong(data, fd)
}

// CreateSong returns an empty FormatData for song.
func (e *Engine) CreateSong(_ *registry.PlatformData, song *types.SongData) *registry.FormatData {
	return registry.NewFormatData(song)
}

// AddSong adds song to data.
func (e *Engine) AddSong(data *registry.PlatformData, song *registry.FormatData) error {
	if song.Song == nil {
		return errors.New("song has no record")
	}
	data.AddSong(song)
	return nil
}

// SaveSong writes the song as a one-entry songlist, "<ID>/songlist.qb"
// plus the platform suffix, under the songlist struct of data's game.
func (e *Engine) SaveSong(_ context.Context, data *registry.PlatformData, song *registry.FormatData) error {
	if data.Storage == nil {
		return ErrNoStorage
	}

	item, err := e.format.SongItem(song)
	if err != nil {
		return err
	}

	format := item.Format
	if format == nil {
		format = neversoft.SongItemType(song.Song)
	}
	list := qb.NewStruct(songlistKey(data.Game))
	list.Format = format
	raw, err := qb.NewFile(format).Add(list.Add(item)).Bytes()
	if err != nil {
		return fmt.Errorf("encode songlist: %w", err)
	}

	id := song.Song.ID
	if id == "" {
		id = item.Key.String()
	}
	if !fs.ValidPath(id) {
		return fmt.Errorf("song ID %q is not a valid directory name", id)
	}
	return data.Storage.WriteFile(path.Join(id, songlistPrefix+format.Platform.Extension()), raw)
}

func songlistKey(game types.Game) qb.Key {
	for _, sl := range neversoft.SonglistKeys {
		if sl.Game == game {
			return sl.Key
		}
	}
	return neversoft.SonglistKeys[0].Key
}
