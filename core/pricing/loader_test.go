package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

const sampleEras = `
era "launch" {
  effective_from = "2024-09-01"

  rates {
    compute_per_cu_hour  = "0.16"
    storage_per_gb_month = "1.75"
    data_transfer_per_gb = "0.09"
  }
}

era "scale" {
  effective_from = "2026-02-01"

  rates {
    compute_per_cu_hour          = "0.222"
    storage_per_gb_month         = "0.35"
    data_transfer_per_gb         = "0.10"
    data_transfer_free_gb        = "100"
    branch_per_month             = "1.50"
    instant_restore_per_gb_month = "0.20"
  }
}
`

func TestParseEraFile(t *testing.T) {
	table, err := Parse([]byte(sampleEras), "pricing.hcl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	eras := table.Eras()
	if len(eras) != 2 {
		t.Fatalf("parsed %d eras, want 2", len(eras))
	}

	scale := eras[1]
	if scale.Name != "scale" {
		t.Errorf("second era = %q, want scale", scale.Name)
	}
	if !scale.Rates.ComputePerCUHour.Equal(decimal.RequireFromString("0.222")) {
		t.Errorf("scale compute rate = %s, want 0.222", scale.Rates.ComputePerCUHour)
	}
	if !scale.Rates.TransferFreeGB.Equal(decimal.RequireFromString("100")) {
		t.Errorf("scale free transfer = %s, want 100", scale.Rates.TransferFreeGB)
	}

	// Optional rates omitted in the launch era default to zero
	launch := eras[0]
	if !launch.Rates.BranchPerMonth.IsZero() {
		t.Errorf("launch branch rate = %s, want 0", launch.Rates.BranchPerMonth)
	}
}

func TestParseAcceptsBareNumbers(t *testing.T) {
	src := `
era "only" {
  effective_from = "2026-02-01"
  rates {
    compute_per_cu_hour  = 0.25
    storage_per_gb_month = "0.35"
    data_transfer_per_gb = "0.10"
  }
}
`
	table, err := Parse([]byte(src), "pricing.hcl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := table.Eras()[0].Rates.ComputePerCUHour
	if !got.Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("bare-number rate = %s, want 0.25", got)
	}
}

func TestParseRejectsMissingRequiredRate(t *testing.T) {
	src := `
era "broken" {
  effective_from = "2026-02-01"
  rates {
    storage_per_gb_month = "0.35"
    data_transfer_per_gb = "0.10"
  }
}
`
	if _, err := Parse([]byte(src), "pricing.hcl"); err == nil {
		t.Error("Parse without compute_per_cu_hour succeeded, want error")
	}
}

func TestParseRejectsBadDate(t *testing.T) {
	src := `
era "broken" {
  effective_from = "February 2026"
  rates {
    compute_per_cu_hour  = "0.222"
    storage_per_gb_month = "0.35"
    data_transfer_per_gb = "0.10"
  }
}
`
	if _, err := Parse([]byte(src), "pricing.hcl"); err == nil {
		t.Error("Parse with unparseable cutover date succeeded, want error")
	}
}

func TestParseRejectsMalformedDecimal(t *testing.T) {
	src := `
era "broken" {
  effective_from = "2026-02-01"
  rates {
    compute_per_cu_hour  = "not-a-rate"
    storage_per_gb_month = "0.35"
    data_transfer_per_gb = "0.10"
  }
}
`
	if _, err := Parse([]byte(src), "pricing.hcl"); err == nil {
		t.Error("Parse with malformed rate succeeded, want error")
	}
}

func TestParsedTablePricesLikeBuiltin(t *testing.T) {
	parsed, err := Parse([]byte(sampleEras), "pricing.hcl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	era, err := parsed.EraFor(date(t, "2026-02-15"))
	if err != nil {
		t.Fatalf("EraFor: %v", err)
	}
	builtin, err := Default().EraFor(date(t, "2026-02-15"))
	if err != nil {
		t.Fatalf("EraFor builtin: %v", err)
	}

	if !era.Rates.StoragePerGBMonth.Equal(builtin.Rates.StoragePerGBMonth) {
		t.Errorf("parsed storage rate %s != builtin %s",
			era.Rates.StoragePerGBMonth, builtin.Rates.StoragePerGBMonth)
	}
}
