package rawkfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrExists is returned by DirStorage when a file exists and overwriting is disabled.
var ErrExists = errors.New("file already exists")

// DirStorage writes files below a root directory. Every write goes to a
// temporary file in the destination directory that is then renamed over the
// target, so a failed write never leaves a partial file behind.
type DirStorage struct {
	root         string
	backupSuffix string
	overwrite    bool
}

// StorageOption configures a DirStorage.
type StorageOption func(*DirStorage)

// WithBackup keeps the previous version of a replaced file under
// name+suffix.
func WithBackup(suffix string) StorageOption {
	return func(s *DirStorage) {
		s.backupSuffix = suffix
	}
}

// WithOverwrite controls whether existing files may be replaced. It is
// enabled by default.
func WithOverwrite(overwrite bool) StorageOption {
	return func(s *DirStorage) {
		s.overwrite = overwrite
	}
}

// NewDirStorage returns a storage rooted at root.
func NewDirStorage(root string, opts ...StorageOption) *DirStorage {
	s := &DirStorage{root: root, overwrite: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the storage root directory.
func (s *DirStorage) Root() string {
	return s.root
}

// WriteFile atomically writes data to name, a slash-separated path
// relative to the root.
func (s *DirStorage) WriteFile(name string, data []byte) error {
	if !fs.ValidPath(name) || name == "." {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}

	outputPath := filepath.Join(s.root, filepath.FromSlash(name))
	outputDir := filepath.Dir(outputPath)

	if _, err := os.Stat(outputPath); err == nil && !s.overwrite {
		return fmt.Errorf("%s: %w", outputPath, ErrExists)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tempFile, err := os.CreateTemp(outputDir, ".rawksd-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if s.backupSuffix != "" {
		if _, err := os.Stat(outputPath); err == nil {
			if err := os.Rename(outputPath, outputPath+s.backupSuffix); err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
		}
	}

	if err := os.Rename(tempPath, outputPath); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}

	success = true
	return nil
}
