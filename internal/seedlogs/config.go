// Package seedlogs drives a running trackload service with a generated
// roster and training log, then checks the served ranking against a
// locally computed one.
package seedlogs

import (
	"time"

	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/types"
)

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL   string        // Base URL of the service
	Runners   int           // Roster size
	Days      int           // Length of the seeded period in days
	StartDate string        // First day of the period (YYYY-MM-DD)
	Workers   int           // Concurrent submitters
	Timeout   time.Duration // HTTP request timeout
	Settle    time.Duration // How long to wait for the queue to drain
	Seed      uint64        // Generator seed; zero picks one from the clock
	Verbose   bool
}

// LogRequest is the body of POST /logs.
type LogRequest struct {
	IdempotencyKey string  `json:"idempotency_key"`
	RunnerID       string  `json:"runner_id"`
	Date           string  `json:"date"`
	DistanceKm     float64 `json:"distance_km"`
	Category       string  `json:"category"`
	RPE            int     `json:"rpe,omitempty"`
	PainLevel      int     `json:"pain_level,omitempty"`
	Memo           string  `json:"memo,omitempty"`
}

// Entry is a ranking row as served by GET /ranking.
type Entry = types.Entry

// AckResponse is the body returned for a log submission.
type AckResponse struct {
	Status    string `json:"status"`
	ID        string `json:"id"`
	Duplicate bool   `json:"duplicate"`
}

// Dataset is everything one run sends to the service.
type Dataset struct {
	Period  model.PeriodConfig
	Runners []model.Runner
	Logs    []LogRequest
}

// Stats holds run statistics.
type Stats struct {
	RunnersSeeded  int
	LogsGenerated  int
	LogsSubmitted  int
	LogsAccepted   int
	LogsDuplicate  int
	LogsFailed     int
	RankingEntries int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
