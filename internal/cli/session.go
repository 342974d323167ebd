package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/universal-changesets/changeset/internal/changeset"
	"github.com/universal-changesets/changeset/internal/config"
	clierrors "github.com/universal-changesets/changeset/internal/errors"
	"github.com/universal-changesets/changeset/internal/logging"
	"github.com/universal-changesets/changeset/internal/plugin"
	"github.com/universal-changesets/changeset/internal/progress"
	"github.com/universal-changesets/changeset/internal/project"
	"github.com/universal-changesets/changeset/internal/release"
)

// pluginLoader instantiates plugins. Tests replace it with an in-memory module.
var pluginLoader plugin.Loader = plugin.ExtismLoader

// session is the per-invocation state shared by commands.
type session struct {
	root   string
	cfg    *config.Configuration
	logger *zap.Logger
}

// newSession locates the project, loads its configuration, and builds the logger.
func newSession(cmd *cobra.Command) (*session, error) {
	// Logging is needed before config is known; --debug wins over config.
	bootLevel := "warn"
	if debugFlag {
		bootLevel = "debug"
	}
	logger := logging.New(logging.Options{Level: bootLevel, Writer: cmd.ErrOrStderr()})

	root, err := project.FindRoot(dirFlag, logger)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectRoot:   root,
		ConfigPath:    configFlag,
		WarningWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	if !debugFlag && cfg.LogLevel != "" {
		logger = logging.New(logging.Options{Level: cfg.LogLevel, Writer: cmd.ErrOrStderr()})
	}
	logger.Debug("session ready", zap.String("root", root))

	return &session{root: root, cfg: cfg, logger: logger}, nil
}

// store returns the changeset store of the project.
func (s *session) store() *changeset.Store {
	return changeset.NewStore(config.ProjectConfigDir(s.root), s.logger)
}

// provider builds the plugin provider from configuration.
func (s *session) provider() (*plugin.Provider, error) {
	if s.cfg.Plugin.URL == "" {
		return nil, clierrors.MissingPlugin()
	}
	descriptor, err := s.cfg.PluginDescriptor()
	if err != nil {
		return nil, err
	}
	cacheRoot, err := s.cfg.CacheRoot()
	if err != nil {
		return nil, err
	}

	return &plugin.Provider{
		Descriptor: descriptor,
		Cache:      plugin.NewCache(cacheRoot, s.logger),
		Sandbox: &plugin.Sandbox{
			ProjectRoot:   s.root,
			VersionedFile: s.cfg.Plugin.VersionedFile,
			Timeout:       s.cfg.Plugin.Timeout,
			Loader:        pluginLoader,
			Logger:        s.logger,
		},
	}, nil
}

// releaser wires the store and the plugin into a release.Releaser. The first
// plugin download shows a spinner on stderr.
func (s *session) releaser(cmd *cobra.Command) (*release.Releaser, error) {
	p, err := s.provider()
	if err != nil {
		return nil, err
	}

	display := progress.NewDisplay(detectTerminal(cmd.ErrOrStderr()), cmd.ErrOrStderr())
	open := func(ctx context.Context, mode plugin.Mode) (release.VersionStore, error) {
		if !p.Cached() {
			err := display.Step(fmt.Sprintf("Fetching plugin %s", p.Descriptor.URL), func() error {
				_, err := p.Artifact(ctx)
				return err
			})
			if err != nil {
				return nil, err
			}
		}
		return p.Open(ctx, mode)
	}

	return &release.Releaser{
		Changes:       s.store(),
		Open:          open,
		ChangelogPath: s.cfg.ChangelogPath(s.root),
		Logger:        s.logger,
	}, nil
}

// detectTerminal reports the capabilities of w when it is a terminal file;
// other writers get none.
func detectTerminal(w io.Writer) progress.TerminalCapabilities {
	if f, ok := w.(*os.File); ok {
		return progress.DetectTerminalCapabilities(f)
	}
	return progress.TerminalCapabilities{}
}
