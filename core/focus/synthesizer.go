package focus

import (
	"strconv"

	"github.com/CruGlobal/datadog-custom-costs/core/metrics"
	"github.com/CruGlobal/datadog-custom-costs/core/pricing"
	"github.com/CruGlobal/datadog-custom-costs/core/types"
)

// Entity is the billing unit a breakdown belongs to: a project, a
// repository. Labels feed the service override in Resolve.
type Entity struct {
	ID     string
	Name   string
	Labels []string
}

// chargeDescriptions is the fixed category-to-description mapping. The
// sink keys dashboards off these strings, so they never vary.
var chargeDescriptions = map[pricing.Category]string{
	pricing.CategoryCompute:  "Compute",
	pricing.CategoryStorage:  "Storage",
	pricing.CategoryTransfer: "Data Transfer",
	pricing.CategoryBranch:   "Branches",
	pricing.CategoryRestore:  "Instant Restore",
}

// Synthesizer turns cost breakdowns into FOCUS records
type Synthesizer struct {
	provider string
}

// NewSynthesizer creates a synthesizer emitting records for one provider
func NewSynthesizer(provider string) *Synthesizer {
	return &Synthesizer{provider: provider}
}

// Synthesize emits at most one record per charge category with a strictly
// positive amount, in fixed category order. Both charge period fields carry
// the billing date: per-day granularity only. Monetary conversion to float
// happens here and nowhere earlier.
func (s *Synthesizer) Synthesize(breakdown pricing.Breakdown, bag metrics.Bag, date types.Date, entity Entity) []Record {
	charge := date.String()
	attr := Resolve(entity.Name, entity.Labels)

	entityTags := NewTagBuilder().
		SetNonEmpty("project_id", entity.ID).
		SetNonEmpty("project_name", entity.Name).
		Set("service", attr.Service).
		Set("env", attr.Env).
		Build()

	var records []Record
	for _, category := range pricing.Categories() {
		line, ok := breakdown[category]
		if !ok || !line.Amount.IsPositive() {
			continue
		}

		tags := NewTagBuilder().
			Merge(entityTags).
			Set("charge_type", string(category))

		switch category {
		case pricing.CategoryCompute:
			tags.Set("compute_hours", line.Quantity.StringFixed(4)).
				Set("rate_per_cu_hour", line.Rate.String()).
				Set("active_seconds", formatMetric(bag.Get(metrics.ActiveSeconds)))
		case pricing.CategoryStorage:
			tags.Set("storage_gb", line.Quantity.StringFixed(2)).
				Set("rate_per_gb_month", line.Rate.String()).
				Set("written_bytes", formatMetric(bag.Get(metrics.WrittenBytes)))
		case pricing.CategoryTransfer:
			tags.Set("transfer_gb", line.Quantity.StringFixed(2)).
				Set("rate_per_gb", line.Rate.String()).
				SetNonEmpty("allowance", line.Provenance)
		case pricing.CategoryBranch:
			tags.Set("branches", line.Quantity.String()).
				Set("rate_per_branch_month", line.Rate.String())
		case pricing.CategoryRestore:
			tags.Set("restore_gb", line.Quantity.StringFixed(2)).
				Set("rate_per_gb_month", line.Rate.String())
		}

		records = append(records, Record{
			ProviderName:      s.provider,
			ChargeDescription: chargeDescriptions[category],
			ChargePeriodStart: charge,
			ChargePeriodEnd:   charge,
			BilledCost:        line.Amount.InexactFloat64(),
			BillingCurrency:   types.CurrencyUSD.String(),
			Tags:              tags.Build(),
		})
	}

	return records
}

// formatMetric renders a raw metric value the way the APIs report it:
// integral counts without a decimal point.
func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
