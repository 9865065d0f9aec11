package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Discard the cache and import the graph again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Rebuild(cmd.Context(), options(cmd))
		},
	}
}
