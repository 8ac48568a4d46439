package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of intake",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "intake version %s\n", strings.TrimSpace(Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
