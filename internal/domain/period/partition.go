package period

import (
	"strings"
	"time"

	"github.com/okian/trackload/internal/domain/model"
)

// Partition splits the inclusive range [start, end] into four contiguous
// quarters. Each of the first three spans totalDays/4 days (integer
// division); the last one always ends on end and absorbs the remainder.
//
// Missing (or blank) dates or an inverted range yield four empty quarters.
// Dates that are present but unparseable yield the same, except quarter 1 is
// set to today as a single-day placeholder.
func Partition(start, end string, today time.Time) []model.Quarter {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return emptyQuarters()
	}

	s, okStart := Parse(start)
	e, okEnd := Parse(end)
	if !okStart || !okEnd {
		qs := emptyQuarters()
		t := Format(Today(today))
		qs[0].Start, qs[0].End = t, t
		return qs
	}
	if e.Before(s) {
		return emptyQuarters()
	}

	totalDays := DaysBetween(s, e) + 1
	span := totalDays / model.QuarterCount

	qs := make([]model.Quarter, model.QuarterCount)
	for i := range qs {
		qs[i] = model.Quarter{
			ID:    i + 1,
			Start: Format(AddDays(s, span*i)),
			End:   Format(AddDays(s, span*(i+1)-1)),
		}
	}
	qs[model.QuarterCount-1].End = Format(e)
	return qs
}

func emptyQuarters() []model.Quarter {
	qs := make([]model.Quarter, model.QuarterCount)
	for i := range qs {
		qs[i].ID = i + 1
	}
	return qs
}

// Resolve returns cfg with exactly four usable quarters. Configured quarters
// are kept only when they tile the period; otherwise they are regenerated
// from StartDate and EndDate.
func Resolve(cfg model.PeriodConfig, today time.Time) model.PeriodConfig {
	out := model.PeriodConfig{StartDate: cfg.StartDate, EndDate: cfg.EndDate}
	if Tiles(cfg.Quarters, cfg.StartDate, cfg.EndDate) {
		out.Quarters = append([]model.Quarter(nil), cfg.Quarters...)
		return out
	}
	out.Quarters = Partition(cfg.StartDate, cfg.EndDate, today)
	return out
}

// Tiles reports whether qs are four quarters, in order, that cover
// [start, end] with no gap or overlap.
func Tiles(qs []model.Quarter, start, end string) bool {
	if len(qs) != model.QuarterCount {
		return false
	}
	next, ok := Parse(start)
	if !ok {
		return false
	}
	e, ok := Parse(end)
	if !ok {
		return false
	}

	for _, q := range qs {
		qStart, okStart := Parse(q.Start)
		qEnd, okEnd := Parse(q.End)
		if !okStart || !okEnd || !qStart.Equal(next) || qEnd.Before(qStart) {
			return false
		}
		next = AddDays(qEnd, 1)
	}
	return next.Equal(AddDays(e, 1))
}

// Bounds returns the inclusive range used by period aggregation. A missing
// or unparseable side falls back to the unbounded default.
func Bounds(cfg model.PeriodConfig) (string, string) {
	start, ok := Canonical(cfg.StartDate)
	if !ok {
		start = UnboundedStart
	}
	end, ok := Canonical(cfg.EndDate)
	if !ok {
		end = UnboundedEnd
	}
	return start, end
}
