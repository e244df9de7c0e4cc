package rawksd

import (
	"github.com/simonhull/rawksd/internal/registry"
	"github.com/simonhull/rawksd/internal/types"
)

// OutOfBoundsError is an alias to types.OutOfBoundsError.
type OutOfBoundsError = types.OutOfBoundsError

// FormatError is an alias to types.FormatError.
type FormatError = types.FormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
type CorruptedFileError = types.CorruptedFileError

// UnsupportedOperationError is an alias to types.UnsupportedOperationError.
type UnsupportedOperationError = types.UnsupportedOperationError

// DuplicateRegistrationError is an alias to types.DuplicateRegistrationError.
type DuplicateRegistrationError = types.DuplicateRegistrationError

// Warning is an alias to types.Warning.
type Warning = types.Warning

// ErrNoEngine is returned when no engine can read a directory, or when
// WithEngine names an engine that is not registered.
var ErrNoEngine = registry.ErrNoEngine
