// Package period derives the temporal frame of a monitoring period: the
// four quarters and the enumerated calendar days.
//
// All arithmetic is on date-only values in UTC; callers pass "today"
// explicitly so results never depend on the ambient clock.
package period

import (
	"strings"
	"time"
)

// Layout is the canonical date format (zero-padded ISO date).
const Layout = "2006-01-02"

// Bounds used for period aggregation when the period is unconfigured, so
// that totals degrade to "all logs" instead of "no logs".
const (
	UnboundedStart = "2000-01-01"
	UnboundedEnd   = "2100-12-31"
)

const day = 24 * time.Hour

// Parse reads a YYYY-MM-DD date as midnight UTC.
func Parse(s string) (time.Time, bool) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Format renders t's calendar date, as seen in t's own location.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Canonical re-renders a parseable date in canonical form.
func Canonical(s string) (string, bool) {
	t, ok := Parse(s)
	if !ok {
		return "", false
	}
	return Format(t), true
}

// Today returns t's calendar date as a UTC midnight value.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween returns the whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / day)
}
