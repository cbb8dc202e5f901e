package neon

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/CruGlobal/datadog-custom-costs/core/engine"
	"github.com/CruGlobal/datadog-custom-costs/core/focus"
	"github.com/CruGlobal/datadog-custom-costs/core/metrics"
	"github.com/CruGlobal/datadog-custom-costs/core/paging"
	"github.com/CruGlobal/datadog-custom-costs/core/pricing"
	"github.com/CruGlobal/datadog-custom-costs/core/types"
	"github.com/CruGlobal/datadog-custom-costs/internal/config"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
	"github.com/CruGlobal/datadog-custom-costs/internal/logging"
	"github.com/CruGlobal/datadog-custom-costs/providers"
)

// ProviderName labels Neon records and uploads
const ProviderName = "Neon"

// Collector runs the Neon consumption pipeline for one billing day
type Collector struct {
	client    *Client
	extractor metrics.Extractor
	model     *pricing.Model
	synth     *focus.Synthesizer
}

// NewCollector builds the Neon collector. The extractor is resolved from
// the configured API version; an unregistered version fails here, before
// any network call.
func NewCollector(cfg *config.Config, table *pricing.Table) (*Collector, error) {
	client, err := NewClient(cfg.Neon, cfg.HTTP)
	if err != nil {
		return nil, err
	}

	extractor, ok := metrics.DefaultRegistry().Get(cfg.Neon.APIVersion)
	if !ok {
		return nil, errors.Configf("unknown Neon API version %q (registered: %v)",
			cfg.Neon.APIVersion, metrics.DefaultRegistry().Versions())
	}

	return &Collector{
		client:    client,
		extractor: extractor,
		model:     pricing.NewModel(table),
		synth:     focus.NewSynthesizer(ProviderName),
	}, nil
}

// Provider returns the provider label
func (c *Collector) Provider() string {
	return ProviderName
}

// Collect fetches consumption for the date, prices each project and
// synthesizes the FOCUS batch. Metadata failure degrades to id-as-name
// attribution; pagination failure aborts the whole run.
func (c *Collector) Collect(ctx context.Context, date types.Date) (*engine.Collection, error) {
	collection := &engine.Collection{}

	names, err := c.client.ProjectNames(ctx)
	metadataHealthy := err == nil
	if err != nil {
		// Best-effort lookup: attribution falls back to project ids and the
		// org-membership filter is disabled so no usage is dropped.
		collection.Warnings = append(collection.Warnings,
			fmt.Sprintf("project metadata fetch failed, attributing by project id: %v", err))
		logging.Warn("project metadata fetch failed", zap.Error(err))
		names = map[string]string{}
	} else {
		logging.Info("fetched project metadata", zap.Int("projects", len(names)))
	}

	from, to := date.Window()
	projects, pages, err := paging.Collect(ctx, func(ctx context.Context, cursor string) (paging.Page[ProjectConsumption], error) {
		return c.client.ConsumptionPage(ctx, from, to, cursor)
	})
	if err != nil {
		return nil, err
	}
	logging.Info("fetched consumption history",
		zap.Int("projects", len(projects)), zap.Int("pages", pages))

	collection.Entities = len(projects)

	for _, project := range projects {
		if metadataHealthy {
			if _, ok := names[project.ProjectID]; !ok {
				logging.Debug("skipping project outside organization",
					zap.String("project_id", project.ProjectID))
				continue
			}
		}

		if len(project.Periods) == 0 {
			continue
		}
		consumption := project.Periods[0].Consumption
		if len(consumption) == 0 {
			continue
		}
		if len(consumption) > 1 {
			// Canonical selection: take the first deterministically, never
			// merge or average across unexpected duplicates.
			collection.Warnings = append(collection.Warnings,
				fmt.Sprintf("project %s: expected 1 daily record but got %d, using first",
					project.ProjectID, len(consumption)))
		}

		bag, err := c.extractor.Extract(consumption[0])
		if err != nil {
			return nil, errors.Wrapf(errors.TypeSchema, err, "project %s", project.ProjectID)
		}

		breakdown, err := c.model.Price(bag, date)
		if err != nil {
			return nil, err
		}

		name := names[project.ProjectID]
		if name == "" {
			name = project.ProjectID
		}

		records := c.synth.Synthesize(breakdown, bag, date, focus.Entity{
			ID:   project.ProjectID,
			Name: name,
		})
		if len(records) > 0 {
			collection.Billable++
		}
		collection.Suppressed += len(pricing.Categories()) - len(records)
		collection.Records = append(collection.Records, records...)
	}

	return collection, nil
}

func init() {
	if err := providers.Register("neon", func(cfg *config.Config, table *pricing.Table) (engine.Collector, error) {
		return NewCollector(cfg, table)
	}); err != nil {
		panic(err)
	}
}
