package domain

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage format of order dates.
const DateLayout = "2006-01-02"

// MonthLayout is the format of a summary month period.
const MonthLayout = "2006-01"

// Today returns the calendar date of now in loc, formatted as YYYY-MM-DD.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}

// ParseDate reports whether s is a valid YYYY-MM-DD date (a longer
// timestamp such as RFC 3339 is truncated to its date part) and returns
// it normalized.
func ParseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", false
	}
	return t.Format(DateLayout), true
}

// NormalizeDate returns s normalized, or fallback when s is empty or
// cannot be parsed.
func NormalizeDate(s, fallback string) string {
	if d, ok := ParseDate(s); ok {
		return d
	}
	return fallback
}

// MonthRange returns the month period (YYYY-MM) containing date along with
// the half-open date range [start, end) covering that month. date must
// already be normalized.
func MonthRange(date string) (period, start, end string) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", "", ""
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.Format(MonthLayout), first.Format(DateLayout), first.AddDate(0, 1, 0).Format(DateLayout)
}
