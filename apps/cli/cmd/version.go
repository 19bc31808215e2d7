package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "specrun version %s\n", c.version)
			fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", c.buildTime)
		},
	}
}
