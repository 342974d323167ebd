package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/universal-changesets/changeset/internal/build"
	clierrors "github.com/universal-changesets/changeset/internal/errors"
)

// Command groups shown in help output.
const (
	GroupChangesets  = "changesets"
	GroupRelease     = "release"
	GroupMaintenance = "maintenance"
)

var (
	configFlag string
	dirFlag    string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "changeset",
	Short: "Semantic version bumps from changeset records",
	Long: `changeset manages semantic-version bumps through small, human-authored
changeset records stored in .changeset/.

Each record declares a bump type (major, minor, patch) and a summary. Running
'changeset version' folds all pending records into one version bump, prepends
a new entry to CHANGELOG.md, updates the project's version file through a
sandboxed WebAssembly plugin, and deletes the consumed records.

Source: https://github.com/universal-changesets/changeset`,
	Example: `  # Record a change
  changeset add -t minor -m "Add --diff to preview changelog"

  # See what the next release would be
  changeset preview version
  changeset preview changelog --diff

  # Cut the release
  changeset version`,
	Version:       build.Info(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupChangesets, Title: "Changesets:"},
		&cobra.Group{ID: GroupRelease, Title: "Release:"},
		&cobra.Group{ID: GroupMaintenance, Title: "Maintenance:"},
	)

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file (default: .changeset/config.{yml,json})")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "C", "", "Project directory (default: discovered from the current directory)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierrors.NewArgumentError(err.Error(), "Run 'changeset --help' for usage")
	})
}

// Execute runs the root command and prints any failure to stderr.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a caller-supplied context.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	clierrors.FprintError(rootCmd.ErrOrStderr(), clierrors.FromDomain(err))
	return err
}

// Main runs the CLI and returns the process exit code.
func Main() int {
	err := Execute()
	if err == nil {
		return ExitSuccess
	}
	return ExitCode(clierrors.FromDomain(err))
}
