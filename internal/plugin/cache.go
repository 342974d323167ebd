package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/universal-changesets/changeset/internal/apperr"
)

const (
	// ArtifactName is the file name of a plugin inside its cache entry and
	// of the release asset the gh: shorthand points at.
	ArtifactName = "plugin.wasm"

	// cacheDirName is the directory under the user cache dir.
	cacheDirName = "changesets"
)

// Artifact is a verified plugin binary on local disk.
type Artifact struct {
	Path   string
	Digest string
}

// Cache stores plugin binaries keyed by the SHA-256 digest of their bytes:
// <Root>/<digest>/plugin.wasm.
type Cache struct {
	Root   string
	Client *http.Client
	Logger *zap.Logger
}

// DefaultCacheRoot returns the per-user cache root.
func DefaultCacheRoot() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%w: locating user cache directory: %w", apperr.ErrIO, err)
	}
	return filepath.Join(dir, cacheDirName), nil
}

// NewCache returns a cache rooted at root using http.DefaultClient.
func NewCache(root string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{Root: root, Client: http.DefaultClient, Logger: logger}
}

// EntryPath returns where the artifact with the given digest lives.
func (c *Cache) EntryPath(digest string) string {
	return filepath.Join(c.Root, digest, ArtifactName)
}

// Lookup returns the cached artifact for digest, if present.
func (c *Cache) Lookup(digest string) (Artifact, bool) {
	if !ValidDigest(digest) {
		return Artifact{}, false
	}
	path := c.EntryPath(digest)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return Artifact{}, false
	}
	return Artifact{Path: path, Digest: digest}, true
}

// FetchAndCache returns a verified local copy of the artifact at url.
//
// When expected is declared and already cached, no network access happens.
// Otherwise the body is streamed into a temporary file while being hashed;
// a digest that differs from expected fails with apperr.ErrChecksumMismatch
// and nothing is written to the cache. A verified download is promoted to the
// entry for its actual digest, never the declared one.
func (c *Cache) FetchAndCache(ctx context.Context, url, expected string) (Artifact, error) {
	log := c.logger().With(zap.String("url", url))

	if expected != "" {
		if a, ok := c.Lookup(expectedKey(expected)); ok {
			log.Debug("plugin cache hit", zap.String("digest", a.Digest))
			return a, nil
		}
	}

	if err := os.MkdirAll(c.Root, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("%w: creating cache root %s: %w", apperr.ErrIO, c.Root, err)
	}

	log.Debug("downloading plugin")
	tmpPath, digest, err := c.download(ctx, url)
	if err != nil {
		return Artifact{}, err
	}
	defer os.Remove(tmpPath)

	if expected != "" && !SameDigest(expected, digest) {
		return Artifact{}, fmt.Errorf("%w: %s: expected %s, got %s",
			apperr.ErrChecksumMismatch, url, expectedKey(expected), digest)
	}

	a, err := c.promote(tmpPath, digest)
	if err != nil {
		return Artifact{}, err
	}
	log.Debug("plugin cached", zap.String("digest", digest), zap.String("path", a.Path))
	return a, nil
}

// download streams url into a temporary file under Root and returns its path
// together with the digest of the bytes written.
func (c *Cache) download(ctx context.Context, url string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: creating request for %s: %w", apperr.ErrDownloadFailed, url, err)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", apperr.ErrDownloadFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", fmt.Errorf("%w: %s: unexpected status %s", apperr.ErrDownloadFailed, url, resp.Status)
	}

	tmp, err := os.CreateTemp(c.Root, ".download-*.wasm")
	if err != nil {
		return "", "", fmt.Errorf("%w: creating temp file in %s: %w", apperr.ErrIO, c.Root, err)
	}
	tmpPath := tmp.Name()

	digest, copyErr := Digest(io.TeeReader(resp.Body, tmp))
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", "", fmt.Errorf("%w: reading body of %s: %w", apperr.ErrDownloadFailed, url, copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", "", fmt.Errorf("%w: closing %s: %w", apperr.ErrIO, tmpPath, closeErr)
	}
	return tmpPath, digest, nil
}

// promote moves a verified temp file into the entry for digest. An existing
// entry holds the same bytes and is kept.
func (c *Cache) promote(tmpPath, digest string) (Artifact, error) {
	if a, ok := c.Lookup(digest); ok {
		return a, nil
	}

	dir := filepath.Join(c.Root, digest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("%w: creating cache entry %s: %w", apperr.ErrIO, dir, err)
	}
	path := c.EntryPath(digest)
	if err := os.Rename(tmpPath, path); err != nil {
		return Artifact{}, fmt.Errorf("%w: promoting %s: %w", apperr.ErrIO, path, err)
	}
	return Artifact{Path: path, Digest: digest}, nil
}

// Clear removes every cache entry.
func (c *Cache) Clear() error {
	if err := os.RemoveAll(c.Root); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: removing %s: %w", apperr.ErrIO, c.Root, err)
	}
	return nil
}

func (c *Cache) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func expectedKey(expected string) string {
	return Descriptor{SHA256: expected}.Expected()
}
