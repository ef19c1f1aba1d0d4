// Package repository persists runners, training logs and the period config.
package repository

import (
	"context"

	"github.com/okian/trackload/internal/domain/model"
)

// Counts summarizes the stored roster.
type Counts struct {
	Runners int `json:"runners"`
	Logs    int `json:"logs"`
}

// Store provides read/write access to training data. Implementations are
// safe for concurrent use.
type Store interface {
	// Snapshot returns runners in roster order, logs ordered by date then
	// creation time, and the stored period config, read consistently.
	Snapshot(ctx context.Context) (model.Snapshot, error)

	ListRunners(ctx context.Context) ([]model.Runner, error)
	// GetRunner returns ErrNotFound for an unknown id.
	GetRunner(ctx context.Context, id string) (model.Runner, error)
	// UpsertRunner creates a runner at the end of the roster or updates
	// names, status and goals of an existing one.
	UpsertRunner(ctx context.Context, r model.Runner) error
	SetRunnerStatus(ctx context.Context, id string, status model.RunnerStatus) error
	// DeleteRunner purges the runner together with every log.
	DeleteRunner(ctx context.Context, id string) error

	ListLogs(ctx context.Context) ([]model.LogEntry, error)
	ListLogsByRunner(ctx context.Context, runnerID string) ([]model.LogEntry, error)
	GetLog(ctx context.Context, id string) (model.LogEntry, error)
	// PutLog inserts a new entry or edits an existing one. Date, runner and
	// creation time of an existing entry never change; a differing date or
	// runner returns ErrImmutableField.
	PutLog(ctx context.Context, e model.LogEntry) error
	// UpdateLog edits an existing entry under the same rules as PutLog and
	// returns ErrNotFound instead of inserting.
	UpdateLog(ctx context.Context, e model.LogEntry) error
	DeleteLog(ctx context.Context, id string) error

	// GetPeriod returns the stored config, empty when none was saved.
	GetPeriod(ctx context.Context) (model.PeriodConfig, error)
	SavePeriod(ctx context.Context, cfg model.PeriodConfig) error

	Count(ctx context.Context) (Counts, error)
}
