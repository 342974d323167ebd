package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Apply pending changesets: bump the version and update the changelog",
	Long: `Fold all pending changesets into one release.

The highest bump type among the records wins (major > minor > patch). The
changelog gets a new entry, the plugin writes the new version into the
versioned file, and the consumed records are deleted. Nothing happens when
there are no pending changesets.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runVersion,
}

func init() {
	versionCmd.GroupID = GroupRelease
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	r, err := s.releaser(cmd)
	if err != nil {
		return err
	}

	plan, err := r.Plan(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if plan.Empty() {
		fmt.Fprintln(out, "No changesets found")
		return nil
	}

	fmt.Fprintf(out, "Updating version from %s to %s\n", plan.Current, color.New(color.Bold).Sprint(plan.Next))
	if err := r.Apply(cmd.Context(), plan); err != nil {
		return err
	}
	fmt.Fprintf(out, "Consumed %d changeset(s); changelog updated at %s\n",
		len(plan.Changes), r.ChangelogPath)
	return nil
}
