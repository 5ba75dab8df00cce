package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigreer/lvmgraph/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lvmgraph %s\n", version.Version)
		},
	}
}
