package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"derivefmt/internal/cache"
)

// newCacheCmd manages the result cache under $XDG_CACHE_HOME/derivefmt.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the cache of already sorted files",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "dir",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := cache.Open(appName)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget every cached file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := cache.Open(appName)
				if err != nil {
					return err
				}
				if err := c.DropAll(); err != nil {
					return err
				}
				logger.Info("cache cleared")
				if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", c.Dir())
				}
				return nil
			},
		},
	)
	return cmd
}
