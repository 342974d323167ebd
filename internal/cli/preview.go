package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/universal-changesets/changeset/internal/changelog"
	"github.com/universal-changesets/changeset/internal/release"
)

var (
	previewDiffFlag  bool
	previewPlainFlag bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show what the next release would do without changing anything",
}

var previewVersionCmd = &cobra.Command{
	Use:          "version",
	Short:        "Print the version the pending changesets would release",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		plan, err := previewPlan(cmd)
		if err != nil {
			return err
		}
		if plan.Empty() {
			fmt.Fprintln(cmd.OutOrStdout(), "There aren't any changes!")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), plan.Next)
		return nil
	},
}

var previewChangelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Print the changelog entry the pending changesets would add",
	Example: `  changeset preview changelog
  changeset preview changelog --plain > entry.md
  changeset preview changelog --diff`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		plan, err := previewPlan(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if plan.Empty() {
			fmt.Fprintln(out, "There aren't any changes!")
			return nil
		}

		if previewDiffFlag {
			diff, err := changelog.Diff(changelog.DefaultFilename, plan.Before, plan.After)
			if err != nil {
				return fmt.Errorf("computing changelog diff: %w", err)
			}
			fmt.Fprint(out, diff)
			return nil
		}

		return changelog.FormatTerminal(plan.Next, plan.Changes, out, changelog.FormatOptions{
			Plain:    previewPlainFlag,
			MaxWidth: detectTerminal(out).Width,
		})
	},
}

func init() {
	previewCmd.GroupID = GroupRelease
	rootCmd.AddCommand(previewCmd)
	previewCmd.AddCommand(previewVersionCmd, previewChangelogCmd)

	previewChangelogCmd.Flags().BoolVar(&previewDiffFlag, "diff", false, "Show a unified diff against the current changelog")
	previewChangelogCmd.Flags().BoolVar(&previewPlainFlag, "plain", false, "Print the raw Markdown entry")
}

func previewPlan(cmd *cobra.Command) (*release.Plan, error) {
	s, err := newSession(cmd)
	if err != nil {
		return nil, err
	}
	r, err := s.releaser(cmd)
	if err != nil {
		return nil, err
	}
	return r.Plan(cmd.Context())
}
