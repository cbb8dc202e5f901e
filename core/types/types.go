// Package types holds the calendar and currency primitives shared by the
// cost pipeline.
package types

// Currency represents a currency code
type Currency string

const (
	// CurrencyUSD is the only billing currency the FOCUS output carries.
	// Multi-currency conversion is out of scope.
	CurrencyUSD Currency = "USD"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}
