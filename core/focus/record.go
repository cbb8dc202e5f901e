// Package focus builds and validates FOCUS cost records, the output
// contract of every pipeline. The six required top-level fields are fixed
// by the ingestion API; anything extra rides inside Tags.
package focus

import (
	"encoding/json"
	"time"

	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
)

// Record is one FOCUS cost line. Exactly six required fields plus Tags;
// the sink rejects any additional top-level key.
type Record struct {
	// ProviderName identifies the billing source (Neon, GitHub)
	ProviderName string `json:"ProviderName"`

	// ChargeDescription names the charge category
	ChargeDescription string `json:"ChargeDescription"`

	// ChargePeriodStart is the billing day, YYYY-MM-DD
	ChargePeriodStart string `json:"ChargePeriodStart"`

	// ChargePeriodEnd equals ChargePeriodStart; the sink buckets by exact
	// date match, so a range is always expressed as multiple records
	ChargePeriodEnd string `json:"ChargePeriodEnd"`

	// BilledCost is the cost in the billing currency, never negative
	BilledCost float64 `json:"BilledCost"`

	// BillingCurrency is always USD
	BillingCurrency string `json:"BillingCurrency"`

	// Tags carry cost-attribution and audit context
	Tags map[string]string `json:"Tags,omitempty"`
}

const dateLayout = "2006-01-02"

// Validate checks the required-field contract. A failing record is
// rejected, never repaired.
func (r Record) Validate() error {
	if r.ProviderName == "" {
		return errors.Schema("record missing ProviderName")
	}
	if r.ChargeDescription == "" {
		return errors.Schema("record missing ChargeDescription")
	}
	if r.ChargePeriodStart == "" {
		return errors.Schema("record missing ChargePeriodStart")
	}
	if _, err := time.Parse(dateLayout, r.ChargePeriodStart); err != nil {
		return errors.Newf(errors.TypeSchema, "ChargePeriodStart %q is not YYYY-MM-DD", r.ChargePeriodStart)
	}
	if r.ChargePeriodEnd == "" {
		return errors.Schema("record missing ChargePeriodEnd")
	}
	if _, err := time.Parse(dateLayout, r.ChargePeriodEnd); err != nil {
		return errors.Newf(errors.TypeSchema, "ChargePeriodEnd %q is not YYYY-MM-DD", r.ChargePeriodEnd)
	}
	if r.BilledCost < 0 {
		return errors.Newf(errors.TypeSchema, "BilledCost %f is negative", r.BilledCost)
	}
	if r.BillingCurrency == "" {
		return errors.Schema("record missing BillingCurrency")
	}
	return nil
}

// ValidateBatch checks every record and reports the first failure with its
// index, so a bad record is traceable in a large batch.
func ValidateBatch(records []Record) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return errors.Wrapf(errors.TypeSchema, err, "record %d (%s %s)", i, r.ProviderName, r.ChargeDescription)
		}
	}
	return nil
}

// MarshalBatch serializes records as the indent-2 JSON array the upload
// endpoint expects.
func MarshalBatch(records []Record) ([]byte, error) {
	return json.MarshalIndent(records, "", "  ")
}
