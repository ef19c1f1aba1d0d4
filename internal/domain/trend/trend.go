// Package trend builds per-runner running totals for the trend chart.
package trend

import (
	"github.com/okian/trackload/internal/domain/load"
	"github.com/okian/trackload/internal/domain/model"
)

// Point is the cumulative distance of every runner up to and including Date.
// Values is keyed by runner id.
type Point struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

// Cumulative returns one point per date. Each runner's value grows by that
// day's summed total, so a day with several entries counts all of them and
// a missing day adds zero. Values never decrease.
func Cumulative(dates []string, runners []model.Runner, logs []model.LogEntry) []Point {
	idx := load.NewIndex(logs)
	running := make(map[string]float64, len(runners))

	points := make([]Point, 0, len(dates))
	for _, d := range dates {
		values := make(map[string]float64, len(runners))
		for _, r := range runners {
			running[r.ID] = load.Round1(running[r.ID] + idx.DayTotal(r.ID, d))
			values[r.ID] = running[r.ID]
		}
		points = append(points, Point{Date: d, Values: values})
	}
	return points
}

// Series returns runnerID's values from points in date order.
func Series(points []Point, runnerID string) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Values[runnerID]
	}
	return out
}
