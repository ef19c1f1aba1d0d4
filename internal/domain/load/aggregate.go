// Package load sums training distance per runner over date windows.
//
// Every function is pure: it reads the log slice it is given and never
// mutates it. Malformed dates or distances never fail a computation; they
// simply do not match or count as zero.
package load

import (
	"math"
	"time"

	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/period"
)

// Predicate selects log dates (YYYY-MM-DD).
type Predicate func(date string) bool

// Round1 rounds to one decimal place, halves away from zero.
func Round1(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Round(x*10) / 10
}

// Sum returns the rounded distance of runnerID's entries whose date
// satisfies pred.
func Sum(logs []model.LogEntry, runnerID string, pred Predicate) float64 {
	var total float64
	for _, e := range logs {
		if e.RunnerID != runnerID || !pred(e.Date) {
			continue
		}
		total += e.DistanceKm.Km()
	}
	return Round1(total)
}

// OnDate matches exactly one calendar day.
func OnDate(date string) Predicate {
	return func(d string) bool { return d == date }
}

// InMonth matches the calendar month and year of today.
func InMonth(today time.Time) Predicate {
	month := today.Format("2006-01")
	return func(d string) bool {
		return len(d) >= len(month) && d[:len(month)] == month
	}
}

// InRange matches start <= date <= end. An empty bound never matches.
func InRange(start, end string) Predicate {
	if start == "" || end == "" {
		return func(string) bool { return false }
	}
	return func(d string) bool { return start <= d && d <= end }
}

// InPeriod matches the configured period, falling back to an effectively
// unbounded range when the period is unset.
func InPeriod(cfg model.PeriodConfig) Predicate {
	return InRange(period.Bounds(cfg))
}

// InQuarter matches dates inside q; an unconfigured quarter matches nothing.
func InQuarter(q model.Quarter) Predicate {
	return q.Contains
}

// Daily returns the distance for one day.
func Daily(logs []model.LogEntry, runnerID, date string) float64 {
	return Sum(logs, runnerID, OnDate(date))
}

// Monthly returns the distance in today's calendar month.
func Monthly(logs []model.LogEntry, runnerID string, today time.Time) float64 {
	return Sum(logs, runnerID, InMonth(today))
}

// Period returns the distance inside the configured period.
func Period(logs []model.LogEntry, runnerID string, cfg model.PeriodConfig) float64 {
	return Sum(logs, runnerID, InPeriod(cfg))
}

// Quarterly returns the distance inside q.
func Quarterly(logs []model.LogEntry, runnerID string, q model.Quarter) float64 {
	return Sum(logs, runnerID, InQuarter(q))
}
