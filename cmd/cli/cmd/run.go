// Package cmd - shared run plumbing for the provider commands
package cmd

import (
	"context"
	"os"
	"time"

	"github.com/CruGlobal/datadog-custom-costs/adapters/datadog"
	"github.com/CruGlobal/datadog-custom-costs/core/engine"
	"github.com/CruGlobal/datadog-custom-costs/core/output"
	"github.com/CruGlobal/datadog-custom-costs/core/pricing"
	"github.com/CruGlobal/datadog-custom-costs/core/types"
	"github.com/CruGlobal/datadog-custom-costs/internal/config"
)

// resolveDate parses --date or defaults to yesterday, the most recent
// complete 24-hour period.
func resolveDate(flag string) (types.Date, error) {
	if flag == "" {
		return types.Yesterday(time.Now()), nil
	}
	return types.ParseDate(flag)
}

// loadTable builds the pricing table: the configured HCL era file when one
// is set, the built-in eras otherwise.
func loadTable(cfg *config.Config) (*pricing.Table, error) {
	if cfg.Pricing.File != "" {
		return pricing.LoadFile(cfg.Pricing.File)
	}
	return pricing.Default(), nil
}

// runPipeline executes one provider run and renders the result. The sink
// is constructed only for live runs, so dry runs need no Datadog
// credentials.
func runPipeline(collector engine.Collector, date types.Date, dryRun bool, format string) error {
	outputFormat, err := output.ParseFormat(format)
	if err != nil {
		return err
	}

	var sink engine.Sink
	if !dryRun {
		cfg := config.Get()
		uploader, err := datadog.NewUploader(cfg.Datadog, cfg.HTTP)
		if err != nil {
			return err
		}
		sink = uploader
	}

	result, err := engine.New(collector, sink).Run(context.Background(), engine.RunRequest{
		Date:   date,
		DryRun: dryRun,
	})
	if err != nil {
		return err
	}

	switch outputFormat {
	case output.FormatJSON:
		return output.RenderJSON(os.Stdout, result)
	default:
		if dryRun && len(result.Records) > 0 {
			if err := output.RenderRecords(os.Stdout, result.Records); err != nil {
				return err
			}
		}
		output.RenderSummary(os.Stdout, result)
		return nil
	}
}
