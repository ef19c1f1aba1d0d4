package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/trackload/internal/domain/model"
)

const runnerColumns = `id, last_name, first_name, status, goal_monthly, goal_period, goal_q1, goal_q2, goal_q3, goal_q4`

// ListRunners implements Store.ListRunners.
func (s *SQLStore) ListRunners(ctx context.Context) ([]model.Runner, error) {
	defer observe("list_runners", time.Now())
	return s.listRunners(ctx, s.db)
}

func (s *SQLStore) listRunners(ctx context.Context, q queryer) ([]model.Runner, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+runnerColumns+` FROM runners ORDER BY roster_pos, id`)
	if err != nil {
		return nil, fmt.Errorf("listing runners: %w", err)
	}
	defer rows.Close()

	var runners []model.Runner
	for rows.Next() {
		r, err := scanRunner(rows)
		if err != nil {
			return nil, err
		}
		runners = append(runners, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runners: %w", err)
	}
	return runners, nil
}

// GetRunner implements Store.GetRunner.
func (s *SQLStore) GetRunner(ctx context.Context, id string) (model.Runner, error) {
	defer observe("get_runner", time.Now())

	row := s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT `+runnerColumns+` FROM runners WHERE id = ?`), id)
	r, err := scanRunner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Runner{}, fmt.Errorf("runner %s: %w", id, ErrNotFound)
	}
	return r, err
}

// UpsertRunner implements Store.UpsertRunner.
func (s *SQLStore) UpsertRunner(ctx context.Context, r model.Runner) error {
	defer observe("upsert_runner", time.Now())

	r.ID = strings.TrimSpace(r.ID)
	if r.ID == "" {
		return fmt.Errorf("%w: runner id is required", ErrInvalidRecord)
	}
	if r.Status == "" {
		r.Status = model.StatusActive
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: runner status %q", ErrInvalidRecord, r.Status)
	}

	query := s.dialect.rebind(`INSERT INTO runners (` + runnerColumns + `, roster_pos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(roster_pos), 0) + 1 FROM runners))
		ON CONFLICT (id) DO UPDATE SET
			last_name = excluded.last_name,
			first_name = excluded.first_name,
			status = excluded.status,
			goal_monthly = excluded.goal_monthly,
			goal_period = excluded.goal_period,
			goal_q1 = excluded.goal_q1,
			goal_q2 = excluded.goal_q2,
			goal_q3 = excluded.goal_q3,
			goal_q4 = excluded.goal_q4`)
	g := r.Goals
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.LastName, r.FirstName, string(r.Status),
		g.Monthly, g.Period, g.Quarter[0], g.Quarter[1], g.Quarter[2], g.Quarter[3],
	)
	if err != nil {
		return fmt.Errorf("upserting runner %s: %w", r.ID, err)
	}
	return nil
}

// SetRunnerStatus implements Store.SetRunnerStatus. Logs are untouched.
func (s *SQLStore) SetRunnerStatus(ctx context.Context, id string, status model.RunnerStatus) error {
	defer observe("set_runner_status", time.Now())

	if !status.Valid() {
		return fmt.Errorf("%w: runner status %q", ErrInvalidRecord, status)
	}
	res, err := s.db.ExecContext(ctx, s.dialect.rebind(`UPDATE runners SET status = ? WHERE id = ?`), string(status), id)
	if err != nil {
		return fmt.Errorf("updating runner status: %w", err)
	}
	return requireAffected(res, "runner "+id)
}

// DeleteRunner implements Store.DeleteRunner.
func (s *SQLStore) DeleteRunner(ctx context.Context, id string) error {
	defer observe("delete_runner", time.Now())

	return s.inTx(ctx, func(tx *sql.Tx) error {
		// Explicit so the purge does not depend on foreign key enforcement.
		if _, err := tx.ExecContext(ctx, s.dialect.rebind(`DELETE FROM logs WHERE runner_id = ?`), id); err != nil {
			return fmt.Errorf("deleting runner logs: %w", err)
		}
		res, err := tx.ExecContext(ctx, s.dialect.rebind(`DELETE FROM runners WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("deleting runner: %w", err)
		}
		return requireAffected(res, "runner "+id)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunner(row rowScanner) (model.Runner, error) {
	var (
		r      model.Runner
		status string
	)
	err := row.Scan(&r.ID, &r.LastName, &r.FirstName, &status,
		&r.Goals.Monthly, &r.Goals.Period,
		&r.Goals.Quarter[0], &r.Goals.Quarter[1], &r.Goals.Quarter[2], &r.Goals.Quarter[3],
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Runner{}, err
		}
		return model.Runner{}, fmt.Errorf("scanning runner: %w", err)
	}
	r.Status = model.RunnerStatus(status)
	return r, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
