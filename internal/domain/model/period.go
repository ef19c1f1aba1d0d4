package model

// QuarterCount is the number of sub-periods a monitoring period is split into.
const QuarterCount = 4

// Quarter is one contiguous sub-range of the monitoring period.
// Empty Start or End means the quarter is unconfigured.
type Quarter struct {
	ID    int    `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Configured reports whether both bounds are set.
func (q Quarter) Configured() bool {
	return q.Start != "" && q.End != ""
}

// Contains reports whether date (YYYY-MM-DD) falls inside the quarter.
// Zero-padded ISO dates order lexically the same as chronologically.
func (q Quarter) Contains(date string) bool {
	return q.Configured() && q.Start <= date && date <= q.End
}

// PeriodConfig is the coach-defined monitoring window.
type PeriodConfig struct {
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Quarters  []Quarter `json:"quarters"`
}

// Snapshot is the immutable input every report view is computed from.
type Snapshot struct {
	Runners []Runner
	Logs    []LogEntry
	Period  PeriodConfig
}
