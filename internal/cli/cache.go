package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/universal-changesets/changeset/internal/plugin"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the plugin cache",
}

var cacheDirCmd = &cobra.Command{
	Use:          "dir",
	Short:        "Print the plugin cache directory",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := sessionCache(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.Root)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:          "clear",
	Short:        "Delete every cached plugin",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := sessionCache(cmd)
		if err != nil {
			return err
		}
		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", c.Root)
		return nil
	},
}

func init() {
	cacheCmd.GroupID = GroupMaintenance
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheDirCmd, cacheClearCmd)
}

func sessionCache(cmd *cobra.Command) (*plugin.Cache, error) {
	s, err := newSession(cmd)
	if err != nil {
		return nil, err
	}
	root, err := s.cfg.CacheRoot()
	if err != nil {
		return nil, err
	}
	return plugin.NewCache(root, s.logger), nil
}
