package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Check the cache, import if needed and wait until the graph is ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := options(cmd)
			opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
			return c.app.Start(cmd.Context(), opts)
		},
	}
	cmd.Flags().Duration("timeout", 0, "Override the configured ready timeout")
	return cmd
}
