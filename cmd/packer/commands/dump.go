package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <bundle>",
		Short: "Print the packed output of a bundle without writing an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options(cmd)
			if err != nil {
				return err
			}
			return c.app.Dump(cmd.Context(), args[0], cmd.OutOrStdout(), opts)
		},
	}
}
