package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/onion"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of onion",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("onion version %s\n", strings.TrimSpace(onion.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
