package main

import (
	"os"

	"github.com/atelierhq/studio-bfa-go/internal/config"

	"github.com/spf13/cobra"
)

var flagEnvFile string

var rootCmd = &cobra.Command{
	Use:   "bfa",
	Short: "Studio backend-for-frontend",
	Long:  "Aggregates project spend and schedule for the studio dashboards and proxies the backend resources they use.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Local development only; real deployments set the environment.
		return config.LoadDotEnv(flagEnvFile)
	},
	RunE: runServe,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Optional .env file loaded before reading configuration")
}
