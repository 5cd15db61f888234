package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "convive",
	Short: "Client for the Convive event-coordination service",
	Long:  "Browse potluck gatherings, claim items, and drive event-lifecycle transitions.\nIrreversible transitions (publish, cancel, complete, purge, restore) always take a second confirming tap.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default: ~/.convive/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
