package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the application version.
// Set at build time with -ldflags "-X main.Version=1.2.3".
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the glowfield version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "glowfield %s\n", Version)
		},
	}
}
