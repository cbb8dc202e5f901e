package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date is a calendar day with no clock component. Billing runs operate on
// whole days; the UTC fetch window derives from the date only when a
// provider call needs timestamps.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf truncates a time to its calendar day
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Yesterday returns the day before now. It is the default billing date: the
// most recent complete 24-hour period.
func Yesterday(now time.Time) Date {
	return DateOf(now.AddDate(0, 0, -1))
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the length of the date's calendar month (28-31).
// Day zero of the following month normalizes to this month's last day.
func (d Date) DaysInMonth() int {
	return time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Window returns the half-open UTC interval [00:00, next-day 00:00)
// covering the date
func (d Date) Window() (from, to time.Time) {
	from = d.Time()
	return from, from.AddDate(0, 0, 1)
}

// MarshalJSON encodes the date as its YYYY-MM-DD string
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d falls earlier than other
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}
