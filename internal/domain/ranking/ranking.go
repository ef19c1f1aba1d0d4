// Package ranking orders the active roster by period distance.
package ranking

import (
	"sort"

	"github.com/okian/trackload/internal/domain/load"
	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/types"
)

// Build ranks active, non-excluded runners by their total inside the
// configured period, highest first. Equal totals keep roster order.
func Build(runners []model.Runner, logs []model.LogEntry, cfg model.PeriodConfig, excluded ...string) []types.Entry {
	roster := model.ActiveRoster(runners, excluded...)
	in := load.InPeriod(cfg)

	entries := make([]types.Entry, len(roster))
	for i, r := range roster {
		entries[i] = types.Entry{
			RunnerID:    r.ID,
			DisplayName: r.DisplayName(),
			Total:       load.Sum(logs, r.ID, in),
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Top returns at most limit entries; a non-positive limit returns all.
func Top(entries []types.Entry, limit int) []types.Entry {
	if limit <= 0 || limit >= len(entries) {
		return entries
	}
	return entries[:limit]
}
