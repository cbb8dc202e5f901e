package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/CruGlobal/datadog-custom-costs/core/types"
)

var (
	bytesPerGB     = decimal.NewFromInt(1073741824)
	secondsPerHour = decimal.NewFromInt(3600)
)

// ProrateMonthly allocates a monthly-denominated amount to one day of the
// date's calendar month. The divisor is the actual month length (28-31);
// a fixed 30 would misprice every month boundary.
func ProrateMonthly(monthly decimal.Decimal, date types.Date) decimal.Decimal {
	return monthly.Div(decimal.NewFromInt(int64(date.DaysInMonth())))
}

// GBFromBytes converts a byte count to GB (2^30 bytes)
func GBFromBytes(bytes float64) decimal.Decimal {
	return decimal.NewFromFloat(bytes).Div(bytesPerGB)
}

// HoursFromSeconds converts a second count to hours
func HoursFromSeconds(seconds float64) decimal.Decimal {
	return decimal.NewFromFloat(seconds).Div(secondsPerHour)
}
