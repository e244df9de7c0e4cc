package types

import "fmt"

// OutOfBoundsError is returned when attempting to read beyond the bounds of a byte source.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// FormatError is returned when a byte source is not in the expected format:
// an unrecognized type tag or magic, a missing nested archive, or nesting
// deeper than a codec allows.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unsupported format: %s", e.Reason)
	}
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when file structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// UnsupportedOperationError reports a call to a plugin capability the plugin
// does not declare (for example Encode on a format that is not Writable).
//
// This is a programming error on the caller's side: capabilities must be
// queried before use. It is deliberately a different type from FormatError so
// batch code never mistakes it for bad input.
type UnsupportedOperationError struct {
	Format string
	Op     string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s: operation %s not supported", e.Format, e.Op)
}

// DuplicateRegistrationError is returned when a format, engine or detector is
// registered twice.
type DuplicateRegistrationError struct {
	Kind string
	ID   int
	Name string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("%s %q (id 0x%04X) already registered", e.Kind, e.Name, e.ID)
}

// Warning represents a non-fatal issue encountered while importing or exporting.
//
// Warnings indicate problems that don't stop a batch. Examples include:
//   - A song directory without song data
//   - A song whose metadata could not be decoded
//   - A stream that could not be transferred
//
// Warnings are collected in PlatformData.Warnings.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "detect", "import", "export"

	// Song directory or file the warning concerns ("" if not applicable)
	Path string

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	prefix := w.Stage
	if w.Path != "" {
		prefix += " " + w.Path
	}
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", prefix, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, w.Message)
}
