package rawksd

import (
	"log/slog"

	"github.com/simonhull/rawksd/internal/engine/rawkfile"
	"github.com/simonhull/rawksd/internal/types"
)

// ExportOption configures Export and ExportDir.
//
// Example:
//
//	out, err := rawksd.ExportDir(ctx, data, target, "out",
//	    rawksd.WithBackup(".bak"),
//	)
type ExportOption func(*exportOptions)

type exportOptions struct {
	logger       *slog.Logger
	progress     types.Progress
	backupSuffix string // Suffix for backups of replaced files (e.g., ".bak")
	overwrite    bool   // Replace existing files
}

func defaultExportOptions() *exportOptions {
	return &exportOptions{
		logger:    slog.New(slog.DiscardHandler),
		progress:  types.NopProgress{},
		overwrite: true,
	}
}

func applyExportOptions(opts []ExportOption) *exportOptions {
	o := defaultExportOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// storage returns a directory storage rooted at dir honoring the backup
// and overwrite settings.
func (o *exportOptions) storage(dir string) *rawkfile.DirStorage {
	return rawkfile.NewDirStorage(dir,
		rawkfile.WithBackup(o.backupSuffix),
		rawkfile.WithOverwrite(o.overwrite),
	)
}

// WithBackup keeps a copy of every file ExportDir replaces.
//
// The backup has suffix appended to the original name, so WithBackup(".bak")
// preserves "dlc1/songdata" as "dlc1/songdata.bak". An existing backup is
// replaced.
func WithBackup(suffix string) ExportOption {
	return func(o *exportOptions) {
		o.backupSuffix = suffix
	}
}

// WithOverwrite controls whether ExportDir replaces existing files. When
// false, a song whose files already exist fails with a warning.
func WithOverwrite(overwrite bool) ExportOption {
	return func(o *exportOptions) {
		o.overwrite = overwrite
	}
}

// WithExportLogger sets the logger for per-song export warnings.
func WithExportLogger(logger *slog.Logger) ExportOption {
	return func(o *exportOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithExportProgress reports one tick per exported song.
func WithExportProgress(p Progress) ExportOption {
	return func(o *exportOptions) {
		if p != nil {
			o.progress = p
		}
	}
}
