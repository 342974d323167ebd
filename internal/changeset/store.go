package changeset

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/universal-changesets/changeset/internal/apperr"
)

const (
	// DefaultDir is the project-relative directory holding changeset records.
	DefaultDir = ".changeset"
	// Extension is the file extension of changeset records.
	Extension = ".md"

	// maxNameAttempts bounds retries when a generated name is already taken.
	maxNameAttempts = 16
)

// Store reads, creates and consumes the records in a single directory.
type Store struct {
	Dir    string
	Namer  Namer
	Logger *zap.Logger
}

// NewStore returns a Store over dir with a randomly seeded WordNamer.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		Dir:    dir,
		Namer:  NewWordNamer(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))),
		Logger: logger,
	}
}

func (s *Store) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Collect parses every record in the store directory, in directory order.
// A missing directory holds no changes.
func (s *Store) Collect() (ChangeSet, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger().Debug("changeset directory does not exist", zap.String("dir", s.Dir))
			return ChangeSet{}, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", apperr.ErrIO, s.Dir, err)
	}

	changes := ChangeSet{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != Extension {
			continue
		}

		path := filepath.Join(s.Dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", apperr.ErrIO, path, err)
		}

		change, err := ParseRecord(path, content)
		if err != nil {
			return nil, err
		}
		s.logger().Debug("collected changeset",
			zap.String("path", path),
			zap.Stringer("type", change.Type),
			zap.String("summary", change.Summary))
		changes = append(changes, change)
	}

	return changes, nil
}

// Consume deletes the record behind every change. Each deletion is attempted
// independently; a record that no longer exists is an error.
func (s *Store) Consume(changes ChangeSet) error {
	var errs []error
	for _, c := range changes {
		if err := os.Remove(c.Path); err != nil {
			errs = append(errs, fmt.Errorf("%w: removing %s: %w", apperr.ErrIO, c.Path, err))
			continue
		}
		s.logger().Debug("consumed changeset", zap.String("path", c.Path))
	}
	return errors.Join(errs...)
}

// Create writes a new record and returns its path.
func (s *Store) Create(t IncrementType, summary, description string) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("%w: invalid bump type %v", apperr.ErrMalformedRecord, t)
	}
	if strings.TrimSpace(summary) == "" {
		return "", fmt.Errorf("%w: summary is required", apperr.ErrMalformedRecord)
	}
	if strings.ContainsAny(strings.TrimSpace(summary), "\r\n") {
		return "", fmt.Errorf("%w: summary must be a single line", apperr.ErrMalformedRecord)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating %s: %w", apperr.ErrIO, s.Dir, err)
	}

	content := FormatRecord(t, summary, description)
	for range maxNameAttempts {
		path := filepath.Join(s.Dir, s.Namer.Name()+Extension)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return "", fmt.Errorf("%w: creating %s: %w", apperr.ErrIO, path, err)
		}
		if _, err := f.Write(content); err != nil {
			f.Close()
			return "", fmt.Errorf("%w: writing %s: %w", apperr.ErrIO, path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("%w: closing %s: %w", apperr.ErrIO, path, err)
		}
		s.logger().Debug("created changeset", zap.String("path", path), zap.Stringer("type", t))
		return path, nil
	}

	return "", fmt.Errorf("%w: no free record name in %s after %d attempts", apperr.ErrIO, s.Dir, maxNameAttempts)
}
