// Package checklist classifies what each runner reported for one day.
package checklist

import (
	"strconv"

	"github.com/okian/trackload/internal/domain/load"
	"github.com/okian/trackload/internal/domain/model"
)

// State is the reporting state of a runner for a date.
type State string

// States.
const (
	Unsubmitted State = "unsubmitted"
	Rest        State = "rest"
	Active      State = "active"
)

// RestLabel is shown for rest days.
const RestLabel = "Rest"

// Status is a classification plus its display text. Label is empty for
// Unsubmitted.
type Status struct {
	State State   `json:"state"`
	Km    float64 `json:"km"`
	Label string  `json:"label,omitempty"`
}

// Item is one runner's line in the checklist.
type Item struct {
	RunnerID    string `json:"runner_id"`
	DisplayName string `json:"display_name"`
	Status
}

// Classify returns the state of runnerID on date. A rest entry wins over a
// numeric zero, and a non-rest zero entry is still Active.
func Classify(date, runnerID string, idx *load.Index) Status {
	switch {
	case !idx.Has(runnerID, date):
		return Status{State: Unsubmitted}
	case idx.IsRest(runnerID, date):
		return Status{State: Rest, Label: RestLabel}
	default:
		km := idx.DayTotal(runnerID, date)
		return Status{State: Active, Km: km, Label: strconv.FormatFloat(km, 'f', -1, 64) + " km"}
	}
}

// Build classifies every runner for date in roster order. Callers pass the
// active roster.
func Build(date string, runners []model.Runner, logs []model.LogEntry) []Item {
	idx := load.NewIndex(logs)
	items := make([]Item, len(runners))
	for i, r := range runners {
		items[i] = Item{
			RunnerID:    r.ID,
			DisplayName: r.DisplayName(),
			Status:      Classify(date, r.ID, idx),
		}
	}
	return items
}

// Unreported returns the items still in the Unsubmitted state.
func Unreported(items []Item) []Item {
	var out []Item
	for _, it := range items {
		if it.State == Unsubmitted {
			out = append(out, it)
		}
	}
	return out
}
