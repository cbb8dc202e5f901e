// Package output renders run results for humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/CruGlobal/datadog-custom-costs/core/engine"
	"github.com/CruGlobal/datadog-custom-costs/core/focus"
	"github.com/CruGlobal/datadog-custom-costs/core/pricing"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable summary table
	FormatTable Format = "table"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// ParseFormat validates a format flag value
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON:
		return Format(s), nil
	default:
		return "", errors.Configf("unknown output format %q (want table or json)", s)
	}
}

// RenderJSON writes the run result as indent-2 JSON. The records inside are
// the exact batch a live run uploads.
func RenderJSON(w io.Writer, result *engine.RunResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// RenderRecords writes just the FOCUS batch, in the upload wire shape.
// Dry runs print this so the payload can be inspected before a live run.
func RenderRecords(w io.Writer, records []focus.Record) error {
	data, err := focus.MarshalBatch(records)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// RenderSummary writes the human-readable run summary: per-description
// subtotals, counters and warnings.
func RenderSummary(w io.Writer, result *engine.RunResult) {
	title := fmt.Sprintf("%s COST SUMMARY for %s", result.Provider, result.Date)

	fmt.Fprintln(w, "┌─────────────────────────────────────────────────────────────────────────┐")
	fmt.Fprintf(w, "│ %-71s │\n", title)
	fmt.Fprintln(w, "├─────────────────────────────────────────────────────────────────────────┤")

	byDescription := lo.GroupBy(result.Records, func(r focus.Record) string {
		return r.ChargeDescription
	})
	descriptions := lo.Keys(byDescription)
	sort.Strings(descriptions)

	for _, description := range descriptions {
		group := byDescription[description]
		subtotal := lo.Reduce(group, func(sum decimal.Decimal, r focus.Record, _ int) decimal.Decimal {
			return sum.Add(decimal.NewFromFloat(r.BilledCost))
		}, decimal.Zero)
		label := fmt.Sprintf("%s (%d records)", description, len(group))
		fmt.Fprintf(w, "│ %-50s %20s │\n",
			truncate(label, 50),
			fmt.Sprintf("$%s", subtotal.StringFixed(4)))
	}

	fmt.Fprintln(w, "├─────────────────────────────────────────────────────────────────────────┤")
	fmt.Fprintf(w, "│ %-50s %20s │\n", "TOTAL COST",
		fmt.Sprintf("$%s", result.TotalCost.StringFixed(4)))
	fmt.Fprintf(w, "│ %-50s %20d │\n", "FOCUS records generated", len(result.Records))
	fmt.Fprintf(w, "│ %-50s %20d │\n", "Entities processed", result.Entities)
	fmt.Fprintf(w, "│ %-50s %20d │\n", "Entities with billable usage", result.Billable)
	fmt.Fprintf(w, "│ %-50s %20d │\n", "Zero-cost lines suppressed", result.Suppressed)
	fmt.Fprintln(w, "└─────────────────────────────────────────────────────────────────────────┘")

	if hasAllowanceFlag(result.Records) {
		fmt.Fprintln(w, "\nNote: data transfer is charged per entity; the shared organization")
		fmt.Fprintln(w, "free allowance is not deducted, so the total can exceed the invoice.")
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}

	if result.Uploaded {
		fmt.Fprintf(w, "\nUploaded %d records in %s\n", len(result.Records), result.Duration.Round(time.Millisecond))
	} else {
		fmt.Fprintf(w, "\nDry run completed in %s - nothing uploaded\n", result.Duration.Round(time.Millisecond))
	}
}

// hasAllowanceFlag reports whether any record documents the intentional
// no-allowance-deduction over-count. Reconciliation against the invoice
// needs that surfaced, not buried in tags.
func hasAllowanceFlag(records []focus.Record) bool {
	return lo.SomeBy(records, func(r focus.Record) bool {
		return r.Tags["allowance"] == pricing.ProvenanceNoAllowance
	})
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
