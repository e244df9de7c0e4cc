package rawksd

import (
	"context"
	"errors"
	"fmt"

	"github.com/simonhull/rawksd/internal/registry"
	"github.com/simonhull/rawksd/internal/types"
)

// ErrNoStorage is returned by Export when storage is nil.
var ErrNoStorage = errors.New("export needs a storage")

// Export writes every song of data through target.
//
// For each song, target shapes a new FormatData, then every registered
// format the song carries is moved across: formats that can transfer their
// streams copy them unchanged, the rest are decoded and re-encoded. The
// song is then saved through storage. Songs that fail are logged,
// recorded on the returned PlatformData's Warnings and skipped.
//
// The returned PlatformData holds the songs that were saved.
func Export(ctx context.Context, data *PlatformData, target Engine, storage Storage, opts ...ExportOption) (*PlatformData, error) {
	if storage == nil {
		return nil, ErrNoStorage
	}
	if err := Initialize(); err != nil {
		return nil, err
	}
	return export(ctx, data, target, storage, applyExportOptions(opts))
}

// ExportDir is Export into a directory. Files are written atomically;
// WithBackup and WithOverwrite control what happens to existing ones.
//
// Example:
//
//	target, _ := rawksd.EngineByName("RawkSD Song Archive")
//	out, err := rawksd.ExportDir(ctx, data, target, "songs", rawksd.WithBackup(".bak"))
func ExportDir(ctx context.Context, data *PlatformData, target Engine, dir string, opts ...ExportOption) (*PlatformData, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	o := applyExportOptions(opts)
	return export(ctx, data, target, o.storage(dir), o)
}

func export(ctx context.Context, data *PlatformData, target Engine, storage Storage, o *exportOptions) (*PlatformData, error) {
	out := registry.NewPlatformData(target, data.Game)
	out.Storage = storage

	formats := defaultRegistry.Formats()

	o.progress.NewTask(len(data.Songs))
	defer o.progress.EndTask()

	for _, src := range data.Songs {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		if err := exportSong(ctx, out, src, formats); err != nil {
			id := songID(src)
			out.Warn("export", id, err)
			o.logger.Warn("export song failed", "song", id, "err", err)
		}
		o.progress.Progress()
	}

	return out, nil
}

func exportSong(ctx context.Context, out *PlatformData, src *FormatData, formats []Format) error {
	if src.Song == nil {
		return errors.New("song has no record")
	}

	dst := out.Engine.CreateSong(out, src.Song)
	if dst.Audio == nil {
		dst.Audio = src.Audio
	}

	for _, f := range formats {
		if !f.HasFormat(src) {
			continue
		}
		if err := moveFormat(f, src, dst); err != nil {
			return fmt.Errorf("%s: %w", f.Name(), err)
		}
	}

	if err := out.Engine.SaveSong(ctx, out, dst); err != nil {
		return err
	}
	return out.Engine.AddSong(out, dst)
}

// moveFormat copies f's data from src to dst, by stream transfer when f
// allows it and by decode then encode otherwise.
func moveFormat(f Format, src, dst *FormatData) error {
	if f.CanTransfer(src) {
		return registry.Transfer(f, src, dst)
	}
	if !f.Readable() || !f.Writable() {
		return &types.UnsupportedOperationError{Format: f.Name(), Op: "export"}
	}

	model, err := registry.Decode(f, src)
	if err != nil {
		return err
	}
	return registry.Encode(f, model, dst)
}

func songID(song *FormatData) string {
	if song.Song == nil {
		return ""
	}
	return song.Song.ID
}
