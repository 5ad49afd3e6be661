package main

import (
	"github.com/spf13/cobra"

	"github.com/iw2rmb/ceobserve"
)

var version = ceobserve.Version()

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("ceobserve version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
