package main

import (
	"fmt"
	"os"

	"github.com/aretw0/onion/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Build and run a declaration",
	Long:  `Builds every component of the declaration and runs the runnable ones until they return or the process is interrupted.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		listen, _ := cmd.Flags().GetString("listen")
		debug, _ := cmd.Flags().GetBool("debug")
		grace, _ := cmd.Flags().GetDuration("grace")

		opts := cli.RunOptions{
			File:      declarationPath(args),
			LogLevel:  level,
			LogFormat: format,
			Listen:    listen,
			Debug:     debug,
			Grace:     grace,
		}
		if err := cli.Execute(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("listen", "", "Address of the introspection endpoint (e.g. :8080)")
	runCmd.Flags().Bool("debug", false, "Log every build step")
	runCmd.Flags().Duration("grace", 0, "Time allowed for components to stop after an interrupt")
}
