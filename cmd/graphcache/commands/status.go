package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the inputs, fingerprints and import state of the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.app.Status(cmd.Context(), options(cmd))
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}

			writeStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the status as JSON")
	return cmd
}
