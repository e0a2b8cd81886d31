package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pitchline",
	Short: "Pitchline is a call-flow navigation engine for sales reps",
	Long: `Pitchline walks a rep through a scripted call flow: forward navigation,
objection detours with automatic return points, history rewind, and a call
summary derived from the path the conversation actually took.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("flow", "f", "flow.yaml", "Path to the flow definition file")
}

// flowPath resolves the flow file from the --flow flag, letting a bare
// positional argument override it the way reps expect from muscle memory.
func flowPath(cmd *cobra.Command, args []string) string {
	path, _ := cmd.Flags().GetString("flow")
	if !cmd.Flags().Changed("flow") && len(args) > 0 {
		path = args[0]
	}
	return path
}
