package github

import (
	"fmt"
	"time"

	"github.com/CruGlobal/datadog-custom-costs/core/types"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
)

// Scope selects the billing usage window: a whole year, one month, or a
// single day. Month and Day are optional, Day requires Month.
type Scope struct {
	Year  int
	Month int
	Day   int
}

// ScopeForDate is the day scope covering one billing date
func ScopeForDate(d types.Date) Scope {
	return Scope{Year: d.Year, Month: int(d.Month), Day: d.Day}
}

// Validate checks the scope's internal consistency
func (s Scope) Validate() error {
	if s.Year == 0 {
		return errors.Config("billing scope requires a year")
	}
	if s.Day > 0 && s.Month == 0 {
		return errors.Config("billing scope with a day requires a month")
	}
	if s.Month < 0 || s.Month > 12 {
		return errors.Configf("billing scope month %d out of range", s.Month)
	}
	if s.Day < 0 || s.Day > 31 {
		return errors.Configf("billing scope day %d out of range", s.Day)
	}
	return nil
}

// ChargeDate pins the scope to a single calendar date for the charge
// period: the day itself, or the first day of the month or year, so the
// sink buckets the whole scope onto one date instead of spreading it.
func (s Scope) ChargeDate() types.Date {
	switch {
	case s.Day > 0:
		return types.Date{Year: s.Year, Month: time.Month(s.Month), Day: s.Day}
	case s.Month > 0:
		return types.Date{Year: s.Year, Month: time.Month(s.Month), Day: 1}
	default:
		return types.Date{Year: s.Year, Month: time.January, Day: 1}
	}
}

// String renders the scope the way it reads in logs: 2026, 2026-02 or
// 2026-02-10.
func (s Scope) String() string {
	switch {
	case s.Day > 0:
		return fmt.Sprintf("%04d-%02d-%02d", s.Year, s.Month, s.Day)
	case s.Month > 0:
		return fmt.Sprintf("%04d-%02d", s.Year, s.Month)
	default:
		return fmt.Sprintf("%04d", s.Year)
	}
}
