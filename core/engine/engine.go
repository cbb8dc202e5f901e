// Package engine orchestrates one billing run: collect, validate, total,
// upload. CLI commands are thin wrappers around this engine; a dry run is
// the same run stopped just before the sink.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/CruGlobal/datadog-custom-costs/core/focus"
	"github.com/CruGlobal/datadog-custom-costs/core/types"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
	"github.com/CruGlobal/datadog-custom-costs/internal/logging"
)

// Collector is a provider pipeline: it fetches raw usage for one billing
// date and returns finished FOCUS records plus run counters.
type Collector interface {
	// Provider returns the provider label stamped on records and uploads
	Provider() string

	// Collect runs the provider's normalization pipeline for one date.
	// Any error aborts the run; there is no partial result.
	Collect(ctx context.Context, date types.Date) (*Collection, error)
}

// Sink accepts a finished batch. A batch is all-or-nothing: an error means
// nothing was ingested.
type Sink interface {
	// Name identifies the sink in logs
	Name() string

	// Upload submits the whole batch under a source label
	Upload(ctx context.Context, records []focus.Record, source string) error
}

// Collection is a collector's output for one run
type Collection struct {
	// Records is the finished batch, emission order fixed by the collector
	Records []focus.Record

	// Entities is how many billing units the provider returned
	Entities int

	// Billable is how many of those produced at least one record
	Billable int

	// Suppressed counts zero-cost line items dropped before emission
	Suppressed int

	// Warnings are non-fatal anomalies observed during collection
	Warnings []string
}

// RunRequest is the input to a run
type RunRequest struct {
	// Date is the billing day being processed
	Date types.Date

	// DryRun stops the run before the sink
	DryRun bool
}

// RunResult is the outcome of a run. In dry-run mode Records and TotalCost
// are exactly what a live run would have handed to the sink.
type RunResult struct {
	// RunID correlates log lines for one invocation
	RunID string `json:"run_id"`

	// Provider is the collector's label
	Provider string `json:"provider"`

	// Date is the billing day processed
	Date types.Date `json:"date"`

	// Records is the validated batch
	Records []focus.Record `json:"records"`

	// TotalCost is the decimal sum of every record's billed cost
	TotalCost decimal.Decimal `json:"total_cost"`

	// Entities, Billable and Suppressed mirror the collection counters
	Entities   int `json:"entities"`
	Billable   int `json:"billable"`
	Suppressed int `json:"suppressed"`

	// Uploaded reports whether the sink accepted the batch
	Uploaded bool `json:"uploaded"`

	// Duration is the wall-clock run time
	Duration time.Duration `json:"duration"`

	// Warnings accumulated during the run
	Warnings []string `json:"warnings,omitempty"`
}

// Engine wires one collector to one sink
type Engine struct {
	collector Collector
	sink      Sink
}

// New creates an engine. The sink may be nil for dry-run-only use; a live
// run without a sink is an internal error.
func New(collector Collector, sink Sink) *Engine {
	return &Engine{collector: collector, sink: sink}
}

// Run executes one billing run end to end
func (e *Engine) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := logging.WithRun(runID)

	log.Info("starting billing run",
		zap.String("provider", e.collector.Provider()),
		zap.String("date", req.Date.String()),
		zap.Bool("dry_run", req.DryRun))

	collection, err := e.collector.Collect(ctx, req.Date)
	if err != nil {
		log.Error("collection failed", zap.Error(err))
		return nil, err
	}

	// Schema errors are rejected here, never repaired: a record that fails
	// the six-field contract must not reach the sink.
	if err := focus.ValidateBatch(collection.Records); err != nil {
		log.Error("batch failed validation", zap.Error(err))
		return nil, err
	}

	total := decimal.Zero
	for _, r := range collection.Records {
		total = total.Add(decimal.NewFromFloat(r.BilledCost))
	}

	result := &RunResult{
		RunID:      runID,
		Provider:   e.collector.Provider(),
		Date:       req.Date,
		Records:    collection.Records,
		TotalCost:  total,
		Entities:   collection.Entities,
		Billable:   collection.Billable,
		Suppressed: collection.Suppressed,
		Duration:   time.Since(start),
		Warnings:   collection.Warnings,
	}

	for _, w := range collection.Warnings {
		log.Warn(w)
	}
	log.Info("collection complete",
		zap.Int("records", len(result.Records)),
		zap.Int("entities", result.Entities),
		zap.String("total_cost", total.String()))

	if len(result.Records) == 0 {
		result.Warnings = append(result.Warnings, "no billable usage for this period; nothing to upload")
		log.Warn("empty batch, skipping sink")
		result.Duration = time.Since(start)
		return result, nil
	}

	if req.DryRun {
		log.Info("dry run, skipping sink")
		result.Duration = time.Since(start)
		return result, nil
	}

	if e.sink == nil {
		return nil, errors.Internal("live run requested without a sink", nil)
	}

	if err := e.sink.Upload(ctx, result.Records, result.Provider); err != nil {
		log.Error("upload failed", zap.String("sink", e.sink.Name()), zap.Error(err))
		return nil, err
	}

	result.Uploaded = true
	result.Duration = time.Since(start)
	log.Info("upload complete",
		zap.String("sink", e.sink.Name()),
		zap.Int("records", len(result.Records)),
		zap.Duration("duration", result.Duration))
	return result, nil
}
