// Package pricing provides the versioned rate table and the pure
// metrics-to-cost calculation. Rates live in eras keyed by cutover date;
// pricing a historical billing period resolves the era that was in force,
// never today's rates.
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/CruGlobal/datadog-custom-costs/core/types"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
)

// Rates are the per-unit prices and allowances of one plan era. Everything
// is decimal; float arithmetic never touches money.
type Rates struct {
	// ComputePerCUHour prices one compute-unit-hour
	ComputePerCUHour decimal.Decimal

	// StoragePerGBMonth prices one GB held for a full month
	StoragePerGBMonth decimal.Decimal

	// TransferPerGB prices one GB of egress
	TransferPerGB decimal.Decimal

	// TransferFreeGB is the organization-level monthly free allowance.
	// Recorded for reference; per-project charges never deduct it (see
	// the transfer line's provenance in Price).
	TransferFreeGB decimal.Decimal

	// BranchPerMonth prices one branch for a full month
	BranchPerMonth decimal.Decimal

	// RestorePerGBMonth prices one GB of instant-restore storage per month
	RestorePerGBMonth decimal.Decimal
}

// Era is one pricing regime, effective from its cutover date onward
type Era struct {
	// Name labels the plan (launch, scale)
	Name string

	// EffectiveFrom is the cutover date, inclusive
	EffectiveFrom types.Date

	// Rates in force during this era
	Rates Rates
}

// Table is the process-wide set of eras: loaded once, never mutated.
// Adding an era never changes how past billing periods price.
type Table struct {
	eras []Era
}

// NewTable builds a table, ordering eras by cutover date
func NewTable(eras ...Era) (*Table, error) {
	if len(eras) == 0 {
		return nil, errors.Config("pricing table needs at least one era")
	}

	sorted := make([]Era, len(eras))
	copy(sorted, eras)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EffectiveFrom.Before(sorted[j].EffectiveFrom)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].EffectiveFrom == sorted[i-1].EffectiveFrom {
			return nil, errors.Configf("pricing eras %q and %q share cutover date %s",
				sorted[i-1].Name, sorted[i].Name, sorted[i].EffectiveFrom)
		}
	}

	return &Table{eras: sorted}, nil
}

// EraFor resolves the era in force on a billing date: the latest era whose
// cutover is on or before the date. A date before every cutover is a
// configuration error, never a silent fallback to current rates.
func (t *Table) EraFor(date types.Date) (Era, error) {
	var found *Era
	for i := range t.eras {
		if t.eras[i].EffectiveFrom.Before(date) || t.eras[i].EffectiveFrom == date {
			found = &t.eras[i]
		}
	}
	if found == nil {
		return Era{}, errors.Configf("no pricing era covers %s (earliest cutover %s)",
			date, t.eras[0].EffectiveFrom)
	}
	return *found, nil
}

// Eras returns the eras in cutover order
func (t *Table) Eras() []Era {
	out := make([]Era, len(t.eras))
	copy(out, t.eras)
	return out
}

func mustDate(s string) types.Date {
	d, err := types.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Default returns the built-in table: the launch plan and the fully
// usage-based scale plan that replaced it on 2026-02-01.
func Default() *Table {
	table, err := NewTable(
		Era{
			Name:          "launch",
			EffectiveFrom: mustDate("2024-09-01"),
			Rates: Rates{
				ComputePerCUHour:  decimal.RequireFromString("0.16"),
				StoragePerGBMonth: decimal.RequireFromString("1.75"),
				TransferPerGB:     decimal.RequireFromString("0.09"),
				TransferFreeGB:    decimal.RequireFromString("100"),
				BranchPerMonth:    decimal.RequireFromString("1.50"),
				RestorePerGBMonth: decimal.RequireFromString("0.20"),
			},
		},
		Era{
			Name:          "scale",
			EffectiveFrom: mustDate("2026-02-01"),
			Rates: Rates{
				ComputePerCUHour:  decimal.RequireFromString("0.222"),
				StoragePerGBMonth: decimal.RequireFromString("0.35"),
				TransferPerGB:     decimal.RequireFromString("0.10"),
				TransferFreeGB:    decimal.RequireFromString("100"),
				BranchPerMonth:    decimal.RequireFromString("1.50"),
				RestorePerGBMonth: decimal.RequireFromString("0.20"),
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return table
}
