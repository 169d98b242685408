package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "name <bundle>",
		Short: "Print the artifact file name of a bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options(cmd)
			if err != nil {
				return err
			}

			name, err := c.app.Name(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func (c *CLI) newAssetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assets <bundle>",
		Short: "Print the resolved assets of a bundle in pack order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options(cmd)
			if err != nil {
				return err
			}

			assets, err := c.app.Assets(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			for _, asset := range assets {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), asset)
			}
			return nil
		},
	}
}
