// ABOUTME: version command and build metadata.
// ABOUTME: version is overridden at build time with -ldflags "-X main.version=...".
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the repquest version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "repquest", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
