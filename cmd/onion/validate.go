package main

import (
	"fmt"
	"os"

	"github.com/aretw0/onion/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a declaration without building it",
	Long:  `Decodes the declaration, resolves its configuration, checks every reference and prints the build order.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.Validate(declarationPath(args), os.Stdout); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Declaration is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
