// Package project locates the project a command operates on. The project root
// is the directory holding .changeset/ and is the only host directory the
// version-file plugin is allowed to see.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"

	"github.com/universal-changesets/changeset/internal/apperr"
)

// MarkerDir identifies a project root.
const MarkerDir = ".changeset"

// FindRoot returns the project root for start (the current directory when
// empty). The nearest ancestor containing MarkerDir wins; the search stops at
// the enclosing git worktree root. Without a marker the worktree root is used,
// and outside any repository start itself is the root.
func FindRoot(start string, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("%w: getting current directory: %w", apperr.ErrIO, err)
		}
		start = wd
	}
	start, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s: %w", apperr.ErrIO, start, err)
	}

	repoRoot, err := gitRoot(start)
	if err != nil {
		logger.Debug("no git repository", zap.String("start", start), zap.Error(err))
	}

	for dir := start; ; dir = filepath.Dir(dir) {
		if isDir(filepath.Join(dir, MarkerDir)) {
			logger.Debug("project root found", zap.String("root", dir))
			return dir, nil
		}
		if dir == repoRoot || dir == filepath.Dir(dir) {
			break
		}
	}

	if repoRoot != "" {
		logger.Debug("using git worktree root", zap.String("root", repoRoot))
		return repoRoot, nil
	}
	return start, nil
}

// gitRoot returns the worktree root of the repository containing path. It
// only reads repository metadata.
func gitRoot(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", fmt.Errorf("opening repository at %s: %w", path, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root, err := filepath.Abs(worktree.Filesystem.Root())
	if err != nil {
		return "", err
	}
	return root, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
