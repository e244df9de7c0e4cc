package rawksd

import (
	"log/slog"
	"runtime"

	"github.com/simonhull/rawksd/internal/types"
)

// Option configures Import and ImportMany.
//
// Example:
//
//	data, err := rawksd.Import(ctx, os.DirFS("/mnt/disc"), ".",
//	    rawksd.WithGame(rawksd.GameGuitarHero5),
//	    rawksd.WithLogger(slog.Default()),
//	)
type Option func(*options)

type options struct {
	logger      *slog.Logger
	progress    types.Progress
	engine      string // engine name; empty means detect
	game        types.Game
	concurrency int
}

func defaultOptions() *options {
	return &options{
		logger:      slog.New(slog.DiscardHandler),
		progress:    types.NopProgress{},
		game:        types.GameUnknown,
		concurrency: runtime.NumCPU(),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for per-song warnings and debug output.
// By default nothing is logged; warnings are still collected on
// PlatformData.Warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress reports one task per imported root and one tick per song.
//
// With ImportMany and a concurrency above one, p receives notifications
// from several goroutines and must be safe for concurrent use.
func WithProgress(p Progress) Option {
	return func(o *options) {
		if p != nil {
			o.progress = p
		}
	}
}

// WithGame forces the game instead of the one proposed by detection.
func WithGame(game Game) Option {
	return func(o *options) {
		o.game = game
	}
}

// WithEngine skips detection and imports with the named engine.
//
// Example:
//
//	data, err := rawksd.Import(ctx, fsys, "songs",
//	    rawksd.WithEngine("RawkSD Song Archive"),
//	)
func WithEngine(name string) Option {
	return func(o *options) {
		o.engine = name
	}
}

// WithConcurrency limits how many roots ImportMany imports at once.
// Values below one mean runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		o.concurrency = n
	}
}
