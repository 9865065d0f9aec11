package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-import the graph if the inputs changed since the last import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Refresh(cmd.Context(), options(cmd))
		},
	}
}
