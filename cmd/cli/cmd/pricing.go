// Package cmd - pricing command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CruGlobal/datadog-custom-costs/core/pricing"
	"github.com/CruGlobal/datadog-custom-costs/core/types"
	"github.com/CruGlobal/datadog-custom-costs/internal/config"
)

var (
	pricingDate string
	pricingFile string
)

// pricingCmd represents the pricing command
var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Inspect the pricing era table",
	Long: `Print the pricing eras in force, or resolve the era that applies to a
billing date. Useful before reprocessing historical periods: the resolved
era, not today's rates, is what the pipeline will charge.

Examples:
  custom-costs pricing
  custom-costs pricing --date 2026-01-15
  custom-costs pricing --pricing-file eras.hcl`,
	RunE: runPricing,
}

func init() {
	pricingCmd.Flags().StringVar(&pricingDate, "date", "", "resolve the era for this date (YYYY-MM-DD)")
	pricingCmd.Flags().StringVar(&pricingFile, "pricing-file", "", "HCL era file (default: configured file or built-in table)")
}

func runPricing(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if pricingFile != "" {
		cfg.Pricing.File = pricingFile
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	if pricingDate != "" {
		date, err := types.ParseDate(pricingDate)
		if err != nil {
			return err
		}
		era, err := table.EraFor(date)
		if err != nil {
			return err
		}
		fmt.Printf("Era in force on %s: %s (effective from %s)\n\n", date, era.Name, era.EffectiveFrom)
		printEra(era)
		return nil
	}

	for _, era := range table.Eras() {
		fmt.Printf("Era %q, effective from %s\n", era.Name, era.EffectiveFrom)
		printEra(era)
		fmt.Println()
	}
	return nil
}

func printEra(era pricing.Era) {
	fmt.Printf("  compute            $%s per CU-hour\n", era.Rates.ComputePerCUHour)
	fmt.Printf("  storage            $%s per GB-month\n", era.Rates.StoragePerGBMonth)
	fmt.Printf("  data transfer      $%s per GB (after %s GB free, org-level)\n",
		era.Rates.TransferPerGB, era.Rates.TransferFreeGB)
	fmt.Printf("  branches           $%s per branch-month\n", era.Rates.BranchPerMonth)
	fmt.Printf("  instant restore    $%s per GB-month\n", era.Rates.RestorePerGBMonth)
}
