package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitchline/pitchline"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the flow for authoring defects",
	Long:  `Loads the flow and reports dead response links, unreachable beats, and missing openings.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := pitchline.New(flowPath(cmd, args))
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}

		findings := engine.Lint()
		if len(findings) > 0 {
			for _, f := range findings {
				fmt.Println(f.String())
			}
			os.Exit(1)
		}
		fmt.Println("Flow is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
