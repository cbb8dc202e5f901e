package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/CruGlobal/datadog-custom-costs/core/types"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
)

func date(t *testing.T, s string) types.Date {
	t.Helper()
	d, err := types.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestEraForPicksLatestCoveringEra(t *testing.T) {
	table := Default()

	era, err := table.EraFor(date(t, "2026-03-15"))
	if err != nil {
		t.Fatalf("EraFor: %v", err)
	}
	if era.Name != "scale" {
		t.Errorf("era for 2026-03-15 = %q, want scale", era.Name)
	}
}

// TestEraForHistoricalDate proves reprocessing an old billing period uses
// the retired era, not current rates.
func TestEraForHistoricalDate(t *testing.T) {
	table := Default()

	era, err := table.EraFor(date(t, "2026-01-15"))
	if err != nil {
		t.Fatalf("EraFor: %v", err)
	}
	if era.Name != "launch" {
		t.Errorf("era for 2026-01-15 = %q, want launch", era.Name)
	}
	if !era.Rates.ComputePerCUHour.Equal(decimal.RequireFromString("0.16")) {
		t.Errorf("launch compute rate = %s, want 0.16", era.Rates.ComputePerCUHour)
	}
}

func TestEraForCutoverDayIsInclusive(t *testing.T) {
	table := Default()

	era, err := table.EraFor(date(t, "2026-02-01"))
	if err != nil {
		t.Fatalf("EraFor: %v", err)
	}
	if era.Name != "scale" {
		t.Errorf("era on the cutover day = %q, want scale", era.Name)
	}
}

func TestEraForUncoveredDateErrors(t *testing.T) {
	table := Default()

	_, err := table.EraFor(date(t, "2024-08-31"))
	if err == nil {
		t.Fatal("EraFor before every cutover succeeded, want error")
	}
	if !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("error type = %v, want CONFIG_ERROR", err)
	}
}

func TestNewTableRejectsEmpty(t *testing.T) {
	if _, err := NewTable(); err == nil {
		t.Error("NewTable() with no eras succeeded, want error")
	}
}

func TestNewTableRejectsDuplicateCutover(t *testing.T) {
	era := Era{Name: "a", EffectiveFrom: date(t, "2026-01-01")}
	dup := Era{Name: "b", EffectiveFrom: date(t, "2026-01-01")}

	if _, err := NewTable(era, dup); err == nil {
		t.Error("NewTable with duplicate cutover succeeded, want error")
	}
}

func TestNewTableSortsEras(t *testing.T) {
	later := Era{Name: "later", EffectiveFrom: date(t, "2026-06-01")}
	earlier := Era{Name: "earlier", EffectiveFrom: date(t, "2025-01-01")}

	table, err := NewTable(later, earlier)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	eras := table.Eras()
	if eras[0].Name != "earlier" || eras[1].Name != "later" {
		t.Errorf("eras order = [%s %s], want [earlier later]", eras[0].Name, eras[1].Name)
	}
}
