package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the graph ready, re-importing when the inputs change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := options(cmd)
			opts.Interval, _ = cmd.Flags().GetDuration("interval")
			return c.app.Watch(cmd.Context(), opts)
		},
	}
	cmd.Flags().Duration("interval", 0, "Override the configured refresh interval")
	return cmd
}
