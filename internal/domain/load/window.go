package load

import (
	"time"

	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/period"
)

// DefaultWindowDays is the length of the recent-activity window.
const DefaultWindowDays = 14

// DayPoint is one day of a runner's recent activity.
type DayPoint struct {
	Date string  `json:"date"`
	Km   float64 `json:"km"`
	Rest bool    `json:"rest,omitempty"`
}

// DailyWindow returns days points ending on today, oldest first.
// A non-positive days yields nil.
func DailyWindow(logs []model.LogEntry, runnerID string, today time.Time, days int) []DayPoint {
	return dailyWindow(NewIndex(logs), runnerID, today, days)
}

func dailyWindow(idx *Index, runnerID string, today time.Time, days int) []DayPoint {
	if days <= 0 {
		return nil
	}
	end := period.Today(today)
	out := make([]DayPoint, 0, days)
	for n := days - 1; n >= 0; n-- {
		d := period.Format(period.AddDays(end, -n))
		out = append(out, DayPoint{
			Date: d,
			Km:   idx.DayTotal(runnerID, d),
			Rest: idx.IsRest(runnerID, d),
		})
	}
	return out
}
