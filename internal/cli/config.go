package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/divVerent/haydnop20/internal/file"
)

func newConfigCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manages config files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init FILE",
		Short: "Writes the current settings to a new config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config(cmd)
			if err != nil {
				return err
			}
			err = file.WriteConfig(args[0], cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %v\n", args[0])
			return nil
		},
	})
	return cmd
}
