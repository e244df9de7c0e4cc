package rawksd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/rawksd/internal/engine/ghdisc"
	"github.com/simonhull/rawksd/internal/engine/rawkfile"
	"github.com/simonhull/rawksd/internal/neversoft"
	"github.com/simonhull/rawksd/internal/ogg"
	"github.com/simonhull/rawksd/internal/registry"
	"github.com/simonhull/rawksd/internal/types"
)

var (
	defaultRegistry = registry.New()
	initOnce        sync.Once
	initErr         error
)

// Initialize registers the built-in formats, engines and detectors. It runs
// once per process; later calls return the first result. Import, ImportMany,
// Detect and Export call it themselves.
func Initialize() error {
	initOnce.Do(func() {
		initErr = register(defaultRegistry)
	})
	return initErr
}

func register(r *registry.Registry) error {
	format := neversoft.New()
	audio := ogg.New()
	archive := rawkfile.New(audio)
	disc := ghdisc.New(format)

	return errors.Join(
		r.RegisterFormat(format),
		r.RegisterFormat(audio),
		r.RegisterEngine(archive),
		r.RegisterEngine(disc),
		r.RegisterDetector(rawkfile.Name, archive.Detect),
		r.RegisterDetector(ghdisc.Name, disc.Detect),
	)
}

// Formats returns the registered formats ordered by ID.
func Formats() []Format {
	if err := Initialize(); err != nil {
		return nil
	}
	return defaultRegistry.Formats()
}

// Engines returns the registered engines ordered by ID.
func Engines() []Engine {
	if err := Initialize(); err != nil {
		return nil
	}
	return defaultRegistry.Engines()
}

// EngineByName returns the registered engine with the given name,
// ignoring case.
func EngineByName(name string) (Engine, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	return defaultRegistry.EngineByName(name)
}

// Detect returns every (engine, game) pair that could read root. Errors
// from individual probes are joined; candidates from probes that succeeded
// are returned alongside them.
func Detect(fsys fs.FS, root string) ([]Candidate, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	return defaultRegistry.Detect(fsys, root)
}

// Import reads every song under root.
//
// The engine is the first detected candidate unless WithEngine names one.
// Songs that fail to import are logged, recorded on the returned
// PlatformData's Warnings and skipped.
//
// Example:
//
//	data, err := rawksd.Import(ctx, os.DirFS("/mnt/disc"), ".")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, song := range data.Songs {
//		fmt.Println(song.Song)
//	}
func Import(ctx context.Context, fsys fs.FS, root string, opts ...Option) (*PlatformData, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	return importRoot(ctx, fsys, root, applyOptions(opts))
}

func importRoot(ctx context.Context, fsys fs.FS, root string, o *options) (*PlatformData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engine, game, err := chooseEngine(fsys, root, o)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("importing", "root", root, "engine", engine.Name(), "game", game)

	data, err := engine.Create(ctx, fsys, root, game, o.progress)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", root, err)
	}

	checkAudio(data, defaultRegistry.Formats())

	for _, w := range data.Warnings {
		o.logger.Warn("import song failed", "stage", w.Stage, "dir", w.Path, "err", w.Message)
	}
	return data, nil
}

// channelCounter is implemented by decoded audio stream models.
type channelCounter interface {
	ChannelCount() int
}

// checkAudio warns about songs whose audio streams do not match the
// channel layout derived from their metadata.
func checkAudio(data *PlatformData, formats []Format) {
	for _, song := range data.Songs {
		if song.Audio == nil {
			continue
		}
		for _, f := range formats {
			if f.Type() != types.FormatTypeAudio || !f.Readable() || !f.HasFormat(song) {
				continue
			}
			model, err := registry.Decode(f, song)
			if err != nil {
				data.Warn("audio", songID(song), err)
				continue
			}
			c, ok := model.(channelCounter)
			if !ok || c.ChannelCount() == 0 {
				continue
			}
			if want := len(song.Audio.Mappings); c.ChannelCount() != want {
				data.Warn("audio", songID(song), fmt.Errorf("%s has %d channels, layout has %d", f.Name(), c.ChannelCount(), want))
			}
		}
	}
}

// chooseEngine resolves the engine and game for root.
func chooseEngine(fsys fs.FS, root string, o *options) (Engine, Game, error) {
	if o.engine != "" {
		engine, err := defaultRegistry.EngineByName(o.engine)
		return engine, o.game, err
	}

	candidates, err := defaultRegistry.Detect(fsys, root)
	if len(candidates) == 0 {
		if err != nil {
			return nil, GameUnknown, fmt.Errorf("%s: %w: %w", root, ErrNoEngine, err)
		}
		return nil, GameUnknown, fmt.Errorf("%s: %w", root, ErrNoEngine)
	}
	if err != nil {
		o.logger.Debug("detection incomplete", "root", root, "err", err)
	}

	chosen := candidates[0]
	if len(candidates) > 1 {
		o.logger.Debug("several engines match", "root", root, "candidates", len(candidates), "chosen", chosen.String())
	}

	game := chosen.Game
	if o.game != GameUnknown {
		game = o.game
	}
	return chosen.Engine, game, nil
}

// ImportMany imports several roots concurrently.
//
// Roots are imported in parallel using up to WithConcurrency goroutines
// (runtime.NumCPU() by default); songs within one root are imported in
// order. Results are returned in the same order as roots.
//
// If any root fails to import, an error is returned and no results.
//
// Example:
//
//	data, err := rawksd.ImportMany(ctx, os.DirFS("/mnt"), []string{"gh5", "bh"})
func ImportMany(ctx context.Context, fsys fs.FS, roots []string, opts ...Option) ([]*PlatformData, error) {
	if len(roots) == 0 {
		return nil, nil
	}
	if err := Initialize(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	results := make([]*PlatformData, len(roots))

	for i, root := range roots {
		g.Go(func() error {
			data, err := importRoot(ctx, fsys, root, o)
			if err != nil {
				return err
			}
			results[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
