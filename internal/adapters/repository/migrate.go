package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are idempotent and portable between SQLite and PostgreSQL.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runners (
		id           TEXT PRIMARY KEY,
		last_name    TEXT NOT NULL DEFAULT '',
		first_name   TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active','retired')),
		goal_monthly DOUBLE PRECISION NOT NULL DEFAULT 0,
		goal_period  DOUBLE PRECISION NOT NULL DEFAULT 0,
		goal_q1      DOUBLE PRECISION NOT NULL DEFAULT 0,
		goal_q2      DOUBLE PRECISION NOT NULL DEFAULT 0,
		goal_q3      DOUBLE PRECISION NOT NULL DEFAULT 0,
		goal_q4      DOUBLE PRECISION NOT NULL DEFAULT 0,
		roster_pos   INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id          TEXT PRIMARY KEY,
		runner_id   TEXT NOT NULL REFERENCES runners(id) ON DELETE CASCADE,
		log_date    TEXT NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		category    TEXT NOT NULL DEFAULT '',
		rpe         INTEGER NOT NULL DEFAULT 0,
		pain_level  INTEGER NOT NULL DEFAULT 0,
		memo        TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_runner_date ON logs(runner_id, log_date)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_date ON logs(log_date)`,
	`CREATE TABLE IF NOT EXISTS period (
		id         INTEGER PRIMARY KEY,
		start_date TEXT NOT NULL DEFAULT '',
		end_date   TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS quarters (
		id         INTEGER PRIMARY KEY,
		start_date TEXT NOT NULL DEFAULT '',
		end_date   TEXT NOT NULL DEFAULT ''
	)`,
}

// Migrate runs all schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
