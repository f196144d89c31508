package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AtRiskMedia/flexstack-go/cmd/commands"
)

// Version is set during build with -ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "flexstack-go",
	Short: "Flex message card editor backend",
	Long:  `flexstack-go serves the flex message card editor API and renders card documents offline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Serving is the default.
		return commands.RunServe()
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of flexstack-go",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "flexstack-go version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewHashPasswordCommand())
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
