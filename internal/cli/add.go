package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/universal-changesets/changeset/internal/changeset"
	clierrors "github.com/universal-changesets/changeset/internal/errors"
)

const addUsage = `changeset add -t <major|minor|patch> -m "<summary>" [-d "<description>"]`

var (
	addTypeFlag        string
	addMessageFlag     string
	addDescriptionFlag string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a pending change",
	Long: `Record a pending change as a new file in .changeset/.

The file gets a random three-word name and holds the bump type in its
metadata block, the summary as a heading, and an optional description.`,
	Example: `  changeset add -t patch -m "Fix crash on empty config"
  changeset add -t major -m "Drop Go 1.21" -d "Go 1.22 is now the minimum."`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runAdd,
}

func init() {
	addCmd.GroupID = GroupChangesets
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addTypeFlag, "type", "t", "", "Bump type: major, minor, or patch")
	addCmd.Flags().StringVarP(&addMessageFlag, "message", "m", "", "One-line summary of the change")
	addCmd.Flags().StringVarP(&addDescriptionFlag, "description", "d", "", "Longer description (optional)")
}

func runAdd(cmd *cobra.Command, _ []string) error {
	t, err := parseAddFlags()
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	path, err := s.store().Create(t, strings.TrimSpace(addMessageFlag), strings.TrimSpace(addDescriptionFlag))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Changeset created at: %s\n", path)
	return nil
}

// parseAddFlags validates the add flags before anything touches disk.
func parseAddFlags() (changeset.IncrementType, error) {
	if addTypeFlag == "" {
		return 0, clierrors.NewArgumentErrorWithUsage("--type is required", addUsage,
			"Pass --type major, --type minor, or --type patch")
	}
	t, err := changeset.ParseIncrementType(addTypeFlag)
	if err != nil {
		return 0, clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("invalid --type %q", addTypeFlag), addUsage,
			"Valid types are major, minor, and patch (lower case)")
	}

	summary := strings.TrimSpace(addMessageFlag)
	if summary == "" {
		return 0, clierrors.NewArgumentErrorWithUsage("--message is required", addUsage,
			"Summarize the change in one line")
	}
	if strings.ContainsAny(summary, "\r\n") {
		return 0, clierrors.NewArgumentError("--message must be a single line",
			"Put extra detail in --description")
	}
	return t, nil
}
