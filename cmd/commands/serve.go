// Package commands holds the flexstack-go subcommands.
package commands

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/AtRiskMedia/flexstack-go/internal/application/startup"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the editor HTTP service",
		Long: `Start the editor HTTP service. Settings come from the environment
and an optional .env file in the working directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServe()
		},
	}
}

// RunServe blocks until the server shuts down.
func RunServe() error {
	if err := startup.Initialize(); err != nil {
		return err
	}
	log.Println("Application has shut down gracefully.")
	return nil
}
