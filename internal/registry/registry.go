// Package registry holds the format plugins, engines and platform detectors
// known to the process.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"

	"github.com/simonhull/rawksd/internal/types"
)

// ErrNoEngine is returned when no registered engine matches a request.
var ErrNoEngine = errors.New("no matching engine")

type namedDetector struct {
	detect Detector
	name   string
}

// Registry is an append-only table of formats, engines and detectors.
// Registration happens during initialization; lookups are safe for
// concurrent use afterwards.
type Registry struct {
	formats   map[int]Format
	engines   map[int]Engine
	detectors []namedDetector
	mu        sync.RWMutex
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		formats: make(map[int]Format),
		engines: make(map[int]Engine),
	}
}

// RegisterFormat adds a format. Registering an ID twice is an error.
func (r *Registry) RegisterFormat(f Format) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.formats[f.ID()]; ok {
		return &types.DuplicateRegistrationError{Kind: "format", ID: f.ID(), Name: f.Name()}
	}
	r.formats[f.ID()] = f
	return nil
}

// RegisterEngine adds an engine. Registering an ID twice is an error.
func (r *Registry) RegisterEngine(e Engine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engines[e.ID()]; ok {
		return &types.DuplicateRegistrationError{Kind: "engine", ID: e.ID(), Name: e.Name()}
	}
	r.engines[e.ID()] = e
	return nil
}

// RegisterDetector adds a detection probe under a unique name.
func (r *Registry) RegisterDetector(name string, d Detector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, nd := range r.detectors {
		if nd.name == name {
			return &types.DuplicateRegistrationError{Kind: "detector", Name: name}
		}
	}
	r.detectors = append(r.detectors, namedDetector{name: name, detect: d})
	return nil
}

// Format returns the format with id, or nil.
func (r *Registry) Format(id int) Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formats[id]
}

// Formats returns all formats ordered by ID.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Format, 0, len(r.formats))
	for _, f := range r.formats {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b Format) int { return a.ID() - b.ID() })
	return out
}

// Engine returns the engine with id, or nil.
func (r *Registry) Engine(id int) Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engines[id]
}

// EngineByName returns the engine whose name matches, ignoring case.
func (r *Registry) EngineByName(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.engines {
		if strings.EqualFold(e.Name(), name) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("engine %q: %w", name, ErrNoEngine)
}

// Engines returns all engines ordered by ID.
func (r *Registry) Engines() []Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Engine, 0, len(r.engines))
	for _, e := range r.engines {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Engine) int { return a.ID() - b.ID() })
	return out
}

// Detect runs every detector, in registration order, against root and
// returns all proposed candidates. Choosing among several candidates is
// left to the caller. Detector errors are joined; candidates from
// detectors that succeeded are still returned.
func (r *Registry) Detect(fsys fs.FS, root string) ([]Candidate, error) {
	r.mu.RLock()
	detectors := slices.Clone(r.detectors)
	r.mu.RUnlock()

	var candidates []Candidate
	var errs []error
	for _, nd := range detectors {
		found, err := nd.detect(fsys, root)
		if err != nil {
			errs = append(errs, fmt.Errorf("detector %s: %w", nd.name, err))
			continue
		}
		candidates = append(candidates, found...)
	}
	return candidates, errors.Join(errs...)
}
