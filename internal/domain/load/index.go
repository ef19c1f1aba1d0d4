package load

import (
	"sort"

	"github.com/okian/trackload/internal/domain/model"
)

// Index groups a snapshot's logs by runner and date. Build it once per
// snapshot when a view needs many per-day lookups.
type Index struct {
	byRunner map[string]map[string][]model.LogEntry
}

// NewIndex groups logs. Entries within a day keep their input order.
func NewIndex(logs []model.LogEntry) *Index {
	idx := &Index{byRunner: make(map[string]map[string][]model.LogEntry)}
	for _, e := range logs {
		days, ok := idx.byRunner[e.RunnerID]
		if !ok {
			days = make(map[string][]model.LogEntry)
			idx.byRunner[e.RunnerID] = days
		}
		days[e.Date] = append(days[e.Date], e)
	}
	return idx
}

// Entries returns the runner's entries on date, nil when there are none.
func (i *Index) Entries(runnerID, date string) []model.LogEntry {
	return i.byRunner[runnerID][date]
}

// Has reports whether the runner logged anything on date.
func (i *Index) Has(runnerID, date string) bool {
	return len(i.byRunner[runnerID][date]) > 0
}

// IsRest reports whether any of the runner's entries on date is a rest entry.
func (i *Index) IsRest(runnerID, date string) bool {
	for _, e := range i.byRunner[runnerID][date] {
		if e.IsRest() {
			return true
		}
	}
	return false
}

// DayTotal sums every entry of the runner on date.
func (i *Index) DayTotal(runnerID, date string) float64 {
	var total float64
	for _, e := range i.byRunner[runnerID][date] {
		total += e.DistanceKm.Km()
	}
	return Round1(total)
}

// Dates returns the runner's logged dates in ascending order.
func (i *Index) Dates(runnerID string) []string {
	days := i.byRunner[runnerID]
	out := make([]string, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Latest returns the runner's most recent entry: latest date first, then
// latest CreatedAt.
func (i *Index) Latest(runnerID string) (model.LogEntry, bool) {
	var (
		best  model.LogEntry
		found bool
	)
	for _, entries := range i.byRunner[runnerID] {
		for _, e := range entries {
			if !found || newer(e, best) {
				best, found = e, true
			}
		}
	}
	return best, found
}

func newer(a, b model.LogEntry) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
