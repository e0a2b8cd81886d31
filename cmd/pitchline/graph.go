package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitchline/pitchline"
	graphview "github.com/pitchline/pitchline/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the flow graph visualization",
	Long:  `Loads the flow and outputs a Mermaid diagram (graph TD) of its beats and responses.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := pitchline.New(flowPath(cmd, args))
		if err != nil {
			fmt.Printf("Error loading flow: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graphview.Render(engine.Graph(), nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
