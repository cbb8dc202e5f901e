// Package cmd provides the CLI commands for custom-costs.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CruGlobal/datadog-custom-costs/internal/config"
	"github.com/CruGlobal/datadog-custom-costs/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "custom-costs",
	Short: "Normalize SaaS billing data and upload it to Datadog Cloud Cost Management",
	Long: `custom-costs fetches usage data from SaaS provider APIs, prices it,
and converts it to FOCUS cost records for Datadog Custom Costs.

Runs are per-day and designed for cron: yesterday is the default billing
date so every run covers a complete 24-hour period.

Examples:
  custom-costs neon --dry-run
  custom-costs neon --date 2026-02-10
  custom-costs github --year 2025 --month 12 --dry-run
  custom-costs pricing --date 2026-01-15`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.custom-costs.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(neonCmd)
	rootCmd.AddCommand(githubCmd)
	rootCmd.AddCommand(pricingCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".custom-costs.json")
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("custom-costs version 1.0.0")
	},
}
