// Package cmd - neon command
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CruGlobal/datadog-custom-costs/internal/config"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
	"github.com/CruGlobal/datadog-custom-costs/providers"

	// Register the provider collectors and their extractors
	_ "github.com/CruGlobal/datadog-custom-costs/providers/neon"
)

var (
	neonDate   string
	neonDryRun bool
	neonOutput string
)

// neonCmd represents the neon command
var neonCmd = &cobra.Command{
	Use:   "neon",
	Short: "Process Neon database consumption costs",
	Long: `Fetch per-project consumption from the Neon console API, price it
under the usage-based plan and upload FOCUS records to Datadog.

Examples:
  custom-costs neon --dry-run
  custom-costs neon --date 2026-02-10
  custom-costs neon --date 2026-02-10 --output json`,
	RunE: runNeon,
}

func init() {
	neonCmd.Flags().StringVar(&neonDate, "date", "", "billing date in YYYY-MM-DD format (default: yesterday)")
	neonCmd.Flags().BoolVar(&neonDryRun, "dry-run", false, "calculate and print costs without uploading")
	neonCmd.Flags().StringVarP(&neonOutput, "output", "o", "table", "output format (table, json)")
}

func runNeon(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(neonDate)
	if err != nil {
		return err
	}

	cfg := config.Get()
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	factory, ok := providers.GetDefaultRegistry().Get("neon")
	if !ok {
		return errors.Config("neon provider not registered")
	}
	collector, err := factory(cfg, table)
	if err != nil {
		return err
	}

	return runPipeline(collector, date, neonDryRun, neonOutput)
}
