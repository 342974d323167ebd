package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:          "get",
	Short:        "Print the current version reported by the plugin",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		r, err := s.releaser(cmd)
		if err != nil {
			return err
		}

		v, err := r.CurrentVersion(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

func init() {
	getCmd.GroupID = GroupRelease
	rootCmd.AddCommand(getCmd)
}
