package github

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/CruGlobal/datadog-custom-costs/core/engine"
	"github.com/CruGlobal/datadog-custom-costs/core/focus"
	"github.com/CruGlobal/datadog-custom-costs/core/pricing"
	"github.com/CruGlobal/datadog-custom-costs/core/types"
	"github.com/CruGlobal/datadog-custom-costs/internal/config"
	"github.com/CruGlobal/datadog-custom-costs/internal/logging"
	"github.com/CruGlobal/datadog-custom-costs/providers"
)

// ProviderName labels GitHub records and uploads
const ProviderName = "GitHub"

// Collector converts GitHub billing usage items into FOCUS records.
// Unlike Neon there is no metric bag: each usage item arrives pre-metered
// as quantity x unit price, so the pipeline is metadata plus decimal math.
type Collector struct {
	client *Client

	// scope, when set, overrides the per-date day scope (month and year
	// runs from the CLI)
	scope Scope
}

// NewCollector builds the GitHub collector
func NewCollector(cfg *config.Config, table *pricing.Table) (*Collector, error) {
	client, err := NewClient(cfg.GitHub, cfg.HTTP)
	if err != nil {
		return nil, err
	}
	return &Collector{client: client}, nil
}

// NewCollectorWithScope builds a collector pinned to an explicit billing
// scope instead of a single day.
func NewCollectorWithScope(cfg *config.Config, scope Scope) (*Collector, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	client, err := NewClient(cfg.GitHub, cfg.HTTP)
	if err != nil {
		return nil, err
	}
	return &Collector{client: client, scope: scope}, nil
}

// Provider returns the provider label
func (c *Collector) Provider() string {
	return ProviderName
}

// Collect fetches the scope's usage items and emits one record per item
// with a positive cost. Zero-cost items are suppressed and counted.
func (c *Collector) Collect(ctx context.Context, date types.Date) (*engine.Collection, error) {
	scope := c.scope
	if scope.Year == 0 {
		scope = ScopeForDate(date)
	}

	items, err := c.client.UsageItems(ctx, scope)
	if err != nil {
		return nil, err
	}
	logging.Info("fetched billing usage",
		zap.String("scope", scope.String()), zap.Int("items", len(items)))

	charge := scope.ChargeDate().String()
	collection := &engine.Collection{Entities: len(items)}

	// Topic lookups repeat per repository within one run; memoize them so
	// a report with hundreds of Actions lines doesn't refetch the same
	// repository metadata per line.
	topics := map[string][]string{}

	for _, item := range items {
		cost := decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.PricePerUnit))
		if !cost.IsPositive() {
			collection.Suppressed++
			continue
		}
		collection.Billable++

		tags := focus.NewTagBuilder().
			Set("charge_type", "usage").
			SetNonEmpty("sku", item.SKU).
			SetNonEmpty("unit_type", item.UnitType).
			SetIf(item.Quantity != 0, "quantity", formatNumber(item.Quantity)).
			SetIf(item.PricePerUnit != 0, "unit_price", formatNumber(item.PricePerUnit)).
			SetIf(item.NetAmount != 0, "net_amount", formatNumber(item.NetAmount))

		if item.RepositoryName != "" {
			tags.Set("repository", item.RepositoryName)
			attr := focus.Resolve(item.RepositoryName, c.repositoryTopics(ctx, topics, item.RepositoryName))
			tags.Set("service", attr.Service)
			tags.Set("env", attr.Env)
		}

		collection.Records = append(collection.Records, focus.Record{
			ProviderName:      ProviderName,
			ChargeDescription: item.Product,
			ChargePeriodStart: charge,
			ChargePeriodEnd:   charge,
			BilledCost:        cost.InexactFloat64(),
			BillingCurrency:   types.CurrencyUSD.String(),
			Tags:              tags.Build(),
		})
	}

	return collection, nil
}

// repositoryTopics resolves a repository's topics through the run-local
// memo. A lookup failure degrades to no topics, so attribution falls back
// to the repository name.
func (c *Collector) repositoryTopics(ctx context.Context, memo map[string][]string, repository string) []string {
	if cached, ok := memo[repository]; ok {
		return cached
	}

	topics, err := c.client.RepositoryTopics(ctx, repository)
	if err != nil {
		logging.Warn("repository metadata fetch failed, attributing by repository name",
			zap.String("repository", repository), zap.Error(err))
		topics = nil
	}
	memo[repository] = topics
	return topics
}

// formatNumber renders an API quantity without trailing float noise
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func init() {
	if err := providers.Register("github", func(cfg *config.Config, table *pricing.Table) (engine.Collector, error) {
		return NewCollector(cfg, table)
	}); err != nil {
		panic(err)
	}
}
