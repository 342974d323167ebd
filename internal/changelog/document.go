package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/universal-changesets/changeset/internal/apperr"
)

// DefaultFilename is the changelog file name at the project root.
const DefaultFilename = "CHANGELOG.md"

// ReadDocument returns the content of the changelog at path.
// A missing file reads as an empty document; Merge then adds the title.
func ReadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: reading changelog %s: %w", apperr.ErrIO, path, err)
	}
	return string(data), nil
}

// WriteDocument replaces the changelog at path with content. The content is
// written to a temporary file in the same directory and renamed into place,
// so a failed write never leaves a truncated changelog behind.
func WriteDocument(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".changelog-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file in %s: %w", apperr.ErrIO, dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing %s: %w", apperr.ErrIO, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %w", apperr.ErrIO, tmpPath, err)
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("%w: setting mode on %s: %w", apperr.ErrIO, tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: replacing %s: %w", apperr.ErrIO, path, err)
	}
	return nil
}
