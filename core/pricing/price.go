package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/CruGlobal/datadog-custom-costs/core/metrics"
	"github.com/CruGlobal/datadog-custom-costs/core/types"
)

// Category classifies a cost line item
type Category string

const (
	CategoryCompute  Category = "compute"
	CategoryStorage  Category = "storage"
	CategoryTransfer Category = "data_transfer"
	CategoryBranch   Category = "branch"
	CategoryRestore  Category = "instant_restore"
)

// Categories returns every charge category in emission order. Record order
// in a batch follows this, so output is deterministic run to run.
func Categories() []Category {
	return []Category{
		CategoryCompute,
		CategoryStorage,
		CategoryTransfer,
		CategoryBranch,
		CategoryRestore,
	}
}

// Line is one priced charge category. Rate is the plan rate as published;
// for monthly-denominated categories the day-count proration shows up in
// Amount, not in Rate, so tags can audit against the published price.
type Line struct {
	// Amount is the cost attributable to the billing day
	Amount decimal.Decimal

	// Quantity after unit conversion (hours, GB, branches)
	Quantity decimal.Decimal

	// Rate per unit as published for the era
	Rate decimal.Decimal

	// Unit names the converted quantity unit
	Unit string

	// Provenance documents a deliberate deviation from invoice math
	Provenance string
}

// Breakdown maps charge categories to priced lines. Zero-amount lines stay
// in the breakdown for totals; FOCUS emission drops them later.
type Breakdown map[Category]Line

// Total sums every line, including zero-amount ones
func (b Breakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range b {
		total = total.Add(line.Amount)
	}
	return total
}

// ProvenanceNoAllowance marks transfer charges billed per project without
// deducting the shared organization allowance. The over-count against the
// invoice is intentional (attribution visibility) and must stay visible.
const ProvenanceNoAllowance = "no allowance deduction"

// Model prices metric bags against a rate table
type Model struct {
	table *Table
}

// NewModel creates a pricing model over a table
func NewModel(table *Table) *Model {
	return &Model{table: table}
}

// Price computes the cost breakdown for one entity-day. Pure and
// deterministic: the same bag, date and table always produce the same
// breakdown. Unit conversion happens before any rate is applied.
func (m *Model) Price(bag metrics.Bag, date types.Date) (Breakdown, error) {
	era, err := m.table.EraFor(date)
	if err != nil {
		return nil, err
	}
	rates := era.Rates

	computeHours := HoursFromSeconds(bag.Get(metrics.ComputeSeconds))
	storageGB := GBFromBytes(bag.Get(metrics.StorageBytes))
	transferGB := GBFromBytes(bag.Get(metrics.TransferBytes))
	branches := decimal.NewFromFloat(bag.Get(metrics.BranchCount))
	restoreGB := GBFromBytes(bag.Get(metrics.RestoreBytes))

	return Breakdown{
		CategoryCompute: {
			Amount:   computeHours.Mul(rates.ComputePerCUHour),
			Quantity: computeHours,
			Rate:     rates.ComputePerCUHour,
			Unit:     "CU-hour",
		},
		CategoryStorage: {
			Amount:   ProrateMonthly(storageGB.Mul(rates.StoragePerGBMonth), date),
			Quantity: storageGB,
			Rate:     rates.StoragePerGBMonth,
			Unit:     "GB-month",
		},
		CategoryTransfer: {
			Amount:     transferGB.Mul(rates.TransferPerGB),
			Quantity:   transferGB,
			Rate:       rates.TransferPerGB,
			Unit:       "GB",
			Provenance: ProvenanceNoAllowance,
		},
		CategoryBranch: {
			Amount:   ProrateMonthly(branches.Mul(rates.BranchPerMonth), date),
			Quantity: branches,
			Rate:     rates.BranchPerMonth,
			Unit:     "branch-month",
		},
		CategoryRestore: {
			Amount:   ProrateMonthly(restoreGB.Mul(rates.RestorePerGBMonth), date),
			Quantity: restoreGB,
			Rate:     rates.RestorePerGBMonth,
			Unit:     "GB-month",
		},
	}, nil
}
