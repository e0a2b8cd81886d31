package main

import (
	"fmt"
	"strings"

	"github.com/pitchline/pitchline"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pitchline",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pitchline version %s\n", strings.TrimSpace(pitchline.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
