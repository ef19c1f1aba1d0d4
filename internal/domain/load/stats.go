package load

import (
	"time"

	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/period"
)

// RunnerStats is the per-runner bundle shown on a runner's dashboard.
type RunnerStats struct {
	RunnerID    string                      `json:"runner_id"`
	DisplayName string                      `json:"display_name"`
	Window      []DayPoint                  `json:"window"`
	Today       float64                     `json:"today_km"`
	Monthly     float64                     `json:"monthly_km"`
	Period      float64                     `json:"period_km"`
	Quarters    [model.QuarterCount]float64 `json:"quarters_km"`
	Goals       model.Goals                 `json:"goals"`
	Progress    Progress                    `json:"progress"`
}

// Progress holds goal completion percentages. A zero goal leaves the
// matching percentage at zero.
type Progress struct {
	Monthly  float64                     `json:"monthly_pct"`
	Period   float64                     `json:"period_pct"`
	Quarters [model.QuarterCount]float64 `json:"quarters_pct"`
}

// Stats computes runner's bundle. cfg must already be resolved so that it
// carries four quarters; missing quarters contribute zero.
func Stats(logs []model.LogEntry, runner model.Runner, cfg model.PeriodConfig, today time.Time, window int) RunnerStats {
	id := runner.ID
	st := RunnerStats{
		RunnerID:    id,
		DisplayName: runner.DisplayName(),
		Window:      dailyWindow(NewIndex(logs), id, today, window),
		Today:       Sum(logs, id, OnDate(period.Format(period.Today(today)))),
		Monthly:     Monthly(logs, id, today),
		Period:      Period(logs, id, cfg),
		Goals:       runner.Goals,
	}
	for i, q := range cfg.Quarters {
		if i >= model.QuarterCount {
			break
		}
		st.Quarters[i] = Quarterly(logs, id, q)
	}

	st.Progress.Monthly = percent(st.Monthly, runner.Goals.Monthly)
	st.Progress.Period = percent(st.Period, runner.Goals.Period)
	for i := range st.Quarters {
		st.Progress.Quarters[i] = percent(st.Quarters[i], runner.Goals.Quarter[i])
	}
	return st
}

func percent(done, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return Round1(done / goal * 100)
}
