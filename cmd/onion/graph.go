package main

import (
	"fmt"
	"os"

	"github.com/aretw0/onion/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the component graph visualization",
	Long:  `Processes the declaration and outputs a Mermaid diagram (graph TD) of its components and references.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.Graph(declarationPath(args), os.Stdout); err != nil {
			fmt.Printf("Error inspecting declaration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
