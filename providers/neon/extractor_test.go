package neon

import (
	"encoding/json"
	"testing"

	"github.com/CruGlobal/datadog-custom-costs/core/metrics"
)

func TestExtractorV2FlatFields(t *testing.T) {
	raw := json.RawMessage(`{
		"timeframe_start": "2026-02-10T00:00:00Z",
		"timeframe_end": "2026-02-11T00:00:00Z",
		"compute_time_seconds": 5130,
		"active_time_seconds": 4800,
		"written_data_bytes": 123456,
		"synthetic_storage_size_bytes": 2147483648
	}`)

	bag, err := extractorV2{}.Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if got := bag.Get(metrics.ComputeSeconds); got != 5130 {
		t.Errorf("compute_seconds = %v, want 5130", got)
	}
	if got := bag.Get(metrics.ActiveSeconds); got != 4800 {
		t.Errorf("active_seconds = %v, want 4800", got)
	}
	if got := bag.Get(metrics.StorageBytes); got != 2147483648 {
		t.Errorf("storage_bytes = %v, want 2147483648", got)
	}
	// Absent fields read as zero, never null
	if got := bag.Get(metrics.TransferBytes); got != 0 {
		t.Errorf("transfer_bytes = %v, want 0 for missing field", got)
	}
}

func TestExtractorV1ArrayOfPairs(t *testing.T) {
	raw := json.RawMessage(`{
		"metrics": [
			{"name": "compute_time_seconds", "value": 3600},
			{"name": "root_branch_storage_bytes", "value": 1073741824},
			{"name": "child_branches_storage_bytes", "value": 536870912},
			{"name": "data_transfer_bytes", "value": 1048576},
			{"name": "branch_count", "value": 3}
		]
	}`)

	bag, err := extractorV1{}.Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if got := bag.Get(metrics.ComputeSeconds); got != 3600 {
		t.Errorf("compute_seconds = %v, want 3600", got)
	}
	// storage is the sum of the per-branch-type constituents
	if got := bag.Get(metrics.StorageBytes); got != 1610612736 {
		t.Errorf("storage_bytes = %v, want 1610612736", got)
	}
	if got := bag.Get(metrics.TransferBytes); got != 1048576 {
		t.Errorf("transfer_bytes = %v, want 1048576", got)
	}
	if got := bag.Get(metrics.BranchCount); got != 3 {
		t.Errorf("branch_count = %v, want 3", got)
	}
	if got := bag.Get(metrics.WrittenBytes); got != 0 {
		t.Errorf("written_bytes = %v, want 0 for missing metric", got)
	}
}

func TestExtractorsRejectMalformedPayload(t *testing.T) {
	if _, err := (extractorV1{}).Extract(json.RawMessage(`[`)); err == nil {
		t.Error("v1 Extract accepted malformed JSON")
	}
	if _, err := (extractorV2{}).Extract(json.RawMessage(`[`)); err == nil {
		t.Error("v2 Extract accepted malformed JSON")
	}
}

func TestExtractorsRegistered(t *testing.T) {
	for _, version := range []string{"v1", "v2"} {
		e, ok := metrics.DefaultRegistry().Get(version)
		if !ok {
			t.Fatalf("extractor %s not registered", version)
		}
		if e.Version() != version {
			t.Errorf("Version() = %q, want %q", e.Version(), version)
		}
	}
}
