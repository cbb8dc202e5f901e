package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/CruGlobal/datadog-custom-costs/core/metrics"
)

func TestPriceZeroBagIsAllZero(t *testing.T) {
	model := NewModel(Default())

	breakdown, err := model.Price(metrics.NewBag(), date(t, "2026-02-10"))
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	for category, line := range breakdown {
		if !line.Amount.IsZero() {
			t.Errorf("category %s amount = %s, want 0", category, line.Amount)
		}
	}
	if !breakdown.Total().IsZero() {
		t.Errorf("Total = %s, want 0", breakdown.Total())
	}
}

func TestPriceComputeExact(t *testing.T) {
	model := NewModel(Default())
	bag := metrics.NewBag()
	bag.Set(metrics.ComputeSeconds, 3600)

	breakdown, err := model.Price(bag, date(t, "2026-02-10"))
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	line := breakdown[CategoryCompute]
	if !line.Quantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("compute quantity = %s, want 1", line.Quantity)
	}
	if !line.Amount.Equal(decimal.RequireFromString("0.222")) {
		t.Errorf("compute amount = %s, want 0.222", line.Amount)
	}
}

// TestPriceAmountIsQuantityTimesRate checks the audit invariant on
// non-prorated categories: the stored quantity and rate reproduce the
// amount exactly under decimal arithmetic.
func TestPriceAmountIsQuantityTimesRate(t *testing.T) {
	model := NewModel(Default())
	bag := metrics.NewBag()
	bag.Set(metrics.ComputeSeconds, 5130)
	bag.Set(metrics.TransferBytes, 7516192768) // 7 GB

	breakdown, err := model.Price(bag, date(t, "2026-03-11"))
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	for _, category := range []Category{CategoryCompute, CategoryTransfer} {
		line := breakdown[category]
		if !line.Amount.Equal(line.Quantity.Mul(line.Rate)) {
			t.Errorf("%s: amount %s != quantity %s x rate %s",
				category, line.Amount, line.Quantity, line.Rate)
		}
	}
}

// TestPriceStorageProration compares a 28-day month against a 31-day month
// with identical bytes. Fewer days means each day carries more of the
// monthly rate, so February must cost strictly more per day.
func TestPriceStorageProration(t *testing.T) {
	model := NewModel(Default())
	bag := metrics.NewBag()
	bag.Set(metrics.StorageBytes, 2147483648) // 2 GB

	feb, err := model.Price(bag, date(t, "2026-02-10"))
	if err != nil {
		t.Fatalf("Price feb: %v", err)
	}
	jan, err := model.Price(bag, date(t, "2026-01-10"))
	if err != nil {
		t.Fatalf("Price jan: %v", err)
	}

	febStorage := feb[CategoryStorage].Amount
	janStorage := jan[CategoryStorage].Amount
	if !febStorage.GreaterThan(janStorage) {
		t.Errorf("28-day daily storage %s should exceed 31-day %s", febStorage, janStorage)
	}

	// 2 GB x 0.35 / 28 days = 0.025 exactly
	if !febStorage.Equal(decimal.RequireFromString("0.025")) {
		t.Errorf("feb storage = %s, want 0.025", febStorage)
	}
}

func TestPriceTransferKeepsAllowanceProvenance(t *testing.T) {
	model := NewModel(Default())
	bag := metrics.NewBag()
	bag.Set(metrics.TransferBytes, 5368709120) // 5 GB, well under the free tier

	breakdown, err := model.Price(bag, date(t, "2026-02-10"))
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	line := breakdown[CategoryTransfer]
	if line.Provenance != ProvenanceNoAllowance {
		t.Errorf("transfer provenance = %q, want %q", line.Provenance, ProvenanceNoAllowance)
	}
	// 5 GB x 0.10, no deduction of the 100 GB organization allowance
	if !line.Amount.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("transfer amount = %s, want 0.5", line.Amount)
	}
}

func TestPriceBranchProrated(t *testing.T) {
	model := NewModel(Default())
	bag := metrics.NewBag()
	bag.Set(metrics.BranchCount, 3)

	breakdown, err := model.Price(bag, date(t, "2026-04-10"))
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	// 3 branches x 1.50 / 30 days = 0.15
	got := breakdown[CategoryBranch].Amount
	if !got.Equal(decimal.RequireFromString("0.15")) {
		t.Errorf("branch amount = %s, want 0.15", got)
	}
}

func TestPriceUsesEraOfBillingDate(t *testing.T) {
	model := NewModel(Default())
	bag := metrics.NewBag()
	bag.Set(metrics.ComputeSeconds, 3600)

	before, err := model.Price(bag, date(t, "2026-01-15"))
	if err != nil {
		t.Fatalf("Price before cutover: %v", err)
	}
	after, err := model.Price(bag, date(t, "2026-02-15"))
	if err != nil {
		t.Fatalf("Price after cutover: %v", err)
	}

	if !before[CategoryCompute].Amount.Equal(decimal.RequireFromString("0.16")) {
		t.Errorf("launch-era compute = %s, want 0.16", before[CategoryCompute].Amount)
	}
	if !after[CategoryCompute].Amount.Equal(decimal.RequireFromString("0.222")) {
		t.Errorf("scale-era compute = %s, want 0.222", after[CategoryCompute].Amount)
	}
}

func TestPriceIsDeterministic(t *testing.T) {
	model := NewModel(Default())
	bag := metrics.NewBag()
	bag.Set(metrics.ComputeSeconds, 86400)
	bag.Set(metrics.StorageBytes, 10737418240)

	first, err := model.Price(bag, date(t, "2026-02-10"))
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	second, err := model.Price(bag, date(t, "2026-02-10"))
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	if !first.Total().Equal(second.Total()) {
		t.Errorf("repeated pricing drifted: %s vs %s", first.Total(), second.Total())
	}
	for category, line := range first {
		if !line.Amount.Equal(second[category].Amount) {
			t.Errorf("category %s drifted: %s vs %s", category, line.Amount, second[category].Amount)
		}
	}
}
