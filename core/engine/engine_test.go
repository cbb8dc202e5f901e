package engine

import (
	"context"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/CruGlobal/datadog-custom-costs/core/focus"
	"github.com/CruGlobal/datadog-custom-costs/core/types"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
)

type stubCollector struct {
	collection *Collection
	err        error
}

func (s *stubCollector) Provider() string { return "Neon" }

func (s *stubCollector) Collect(ctx context.Context, date types.Date) (*Collection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.collection, nil
}

type recordingSink struct {
	records []focus.Record
	source  string
	calls   int
	err     error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Upload(ctx context.Context, records []focus.Record, source string) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.records = records
	s.source = source
	return nil
}

func record(description string, cost float64) focus.Record {
	return focus.Record{
		ProviderName:      "Neon",
		ChargeDescription: description,
		ChargePeriodStart: "2026-02-10",
		ChargePeriodEnd:   "2026-02-10",
		BilledCost:        cost,
		BillingCurrency:   "USD",
	}
}

func runDate(t *testing.T) types.Date {
	t.Helper()
	d, err := types.ParseDate("2026-02-10")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	return d
}

// TestRunDryRunMatchesLive feeds identical collections through a dry and a
// live run and checks the dry result carries exactly the batch and total
// the sink received.
func TestRunDryRunMatchesLive(t *testing.T) {
	collection := func() *Collection {
		return &Collection{
			Records:  []focus.Record{record("Compute", 0.222), record("Storage", 0.025)},
			Entities: 3,
			Billable: 1,
		}
	}

	sink := &recordingSink{}
	live, err := New(&stubCollector{collection: collection()}, sink).
		Run(context.Background(), RunRequest{Date: runDate(t)})
	if err != nil {
		t.Fatalf("live Run: %v", err)
	}
	dry, err := New(&stubCollector{collection: collection()}, &recordingSink{}).
		Run(context.Background(), RunRequest{Date: runDate(t), DryRun: true})
	if err != nil {
		t.Fatalf("dry Run: %v", err)
	}

	if !live.Uploaded {
		t.Error("live run Uploaded = false, want true")
	}
	if dry.Uploaded {
		t.Error("dry run Uploaded = true, want false")
	}
	if !reflect.DeepEqual(dry.Records, sink.records) {
		t.Errorf("dry-run batch differs from sink input:\n%v\nvs\n%v", dry.Records, sink.records)
	}
	if !dry.TotalCost.Equal(live.TotalCost) {
		t.Errorf("dry total %s != live total %s", dry.TotalCost, live.TotalCost)
	}
	if !live.TotalCost.Equal(decimal.RequireFromString("0.247")) {
		t.Errorf("total = %s, want 0.247", live.TotalCost)
	}
	if sink.source != "Neon" {
		t.Errorf("sink source = %q, want Neon", sink.source)
	}
}

func TestRunEmptyBatchSkipsSink(t *testing.T) {
	sink := &recordingSink{}
	result, err := New(&stubCollector{collection: &Collection{Entities: 2}}, sink).
		Run(context.Background(), RunRequest{Date: runDate(t)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sink.calls != 0 {
		t.Errorf("sink calls = %d, want 0 for empty batch", sink.calls)
	}
	if result.Uploaded {
		t.Error("Uploaded = true, want false")
	}
	if len(result.Warnings) == 0 {
		t.Error("empty batch produced no warning")
	}
}

func TestRunRejectsInvalidRecord(t *testing.T) {
	bad := record("Compute", 0.1)
	bad.BillingCurrency = ""

	sink := &recordingSink{}
	_, err := New(&stubCollector{collection: &Collection{Records: []focus.Record{bad}}}, sink).
		Run(context.Background(), RunRequest{Date: runDate(t)})
	if err == nil {
		t.Fatal("Run = nil error, want schema error")
	}
	if !errors.IsType(err, errors.TypeSchema) {
		t.Errorf("error type = %v, want %v", errors.TypeOf(err), errors.TypeSchema)
	}
	if sink.calls != 0 {
		t.Errorf("sink calls = %d, want 0 after validation failure", sink.calls)
	}
}

func TestRunSinkErrorSurfaces(t *testing.T) {
	sink := &recordingSink{err: errors.Auth("Authentication failed. Check your DD_API_KEY.")}
	_, err := New(&stubCollector{collection: &Collection{Records: []focus.Record{record("Compute", 0.1)}}}, sink).
		Run(context.Background(), RunRequest{Date: runDate(t)})
	if err == nil {
		t.Fatal("Run = nil error, want sink error")
	}
	if !errors.IsType(err, errors.TypeAuth) {
		t.Errorf("error type = %v, want %v (classification preserved)", errors.TypeOf(err), errors.TypeAuth)
	}
}

func TestRunCollectorErrorAborts(t *testing.T) {
	boom := errors.Transport("consumption fetch failed", nil)
	sink := &recordingSink{}
	_, err := New(&stubCollector{err: boom}, sink).
		Run(context.Background(), RunRequest{Date: runDate(t)})
	if err == nil {
		t.Fatal("Run = nil error, want collector error")
	}
	if sink.calls != 0 {
		t.Errorf("sink calls = %d, want 0 after collection failure", sink.calls)
	}
}
