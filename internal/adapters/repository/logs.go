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

const logColumns = `id, runner_id, log_date, distance_km, category, rpe, pain_level, memo, created_at`

// createdAtLayout is fixed width so that created_at sorts lexically in
// time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ListLogs implements Store.ListLogs.
func (s *SQLStore) ListLogs(ctx context.Context) ([]model.LogEntry, error) {
	defer observe("list_logs", time.Now())
	return s.listLogs(ctx, s.db, "", nil)
}

// ListLogsByRunner implements Store.ListLogsByRunner.
func (s *SQLStore) ListLogsByRunner(ctx context.Context, runnerID string) ([]model.LogEntry, error) {
	defer observe("list_logs_by_runner", time.Now())
	return s.listLogs(ctx, s.db, "WHERE runner_id = ?", []any{runnerID})
}

func (s *SQLStore) listLogs(ctx context.Context, q queryer, where string, args []any) ([]model.LogEntry, error) {
	query := s.dialect.rebind(`SELECT ` + logColumns + ` FROM logs ` + where + ` ORDER BY log_date, created_at, id`)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing logs: %w", err)
	}
	defer rows.Close()

	var logs []model.LogEntry
	for rows.Next() {
		e, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating logs: %w", err)
	}
	return logs, nil
}

// GetLog implements Store.GetLog.
func (s *SQLStore) GetLog(ctx context.Context, id string) (model.LogEntry, error) {
	defer observe("get_log", time.Now())
	return s.getLog(ctx, s.db, id)
}

func (s *SQLStore) getLog(ctx context.Context, q queryer, id string) (model.LogEntry, error) {
	row := q.QueryRowContext(ctx, s.dialect.rebind(`SELECT `+logColumns+` FROM logs WHERE id = ?`), id)
	e, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LogEntry{}, fmt.Errorf("log %s: %w", id, ErrNotFound)
	}
	return e, err
}

// PutLog implements Store.PutLog.
func (s *SQLStore) PutLog(ctx context.Context, e model.LogEntry) error {
	defer observe("put_log", time.Now())

	if err := validLog(e); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.getLog(ctx, tx, e.ID)
		switch {
		case errors.Is(err, ErrNotFound):
			return s.insertLog(ctx, tx, e)
		case err != nil:
			return err
		}
		return s.updateLog(ctx, tx, existing, e)
	})
}

// UpdateLog implements Store.UpdateLog.
func (s *SQLStore) UpdateLog(ctx context.Context, e model.LogEntry) error {
	defer observe("update_log", time.Now())

	if err := validLog(e); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.getLog(ctx, tx, e.ID)
		if err != nil {
			return err
		}
		return s.updateLog(ctx, tx, existing, e)
	})
}

func validLog(e model.LogEntry) error { //nolint:gocritic // entries travel by value
	if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.RunnerID) == "" || e.Date == "" {
		return fmt.Errorf("%w: log needs id, runner and date", ErrInvalidRecord)
	}
	return nil
}

func (s *SQLStore) updateLog(ctx context.Context, tx *sql.Tx, existing, e model.LogEntry) error { //nolint:gocritic // entries travel by value
	if existing.Date != e.Date || existing.RunnerID != e.RunnerID {
		return fmt.Errorf("log %s: %w", e.ID, ErrImmutableField)
	}
	_, err := tx.ExecContext(ctx, s.dialect.rebind(`UPDATE logs
		SET distance_km = ?, category = ?, rpe = ?, pain_level = ?, memo = ?
		WHERE id = ?`),
		e.DistanceKm.Km(), e.Category, e.RPE, e.PainLevel, e.Memo, e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating log %s: %w", e.ID, err)
	}
	return nil
}

func (s *SQLStore) insertLog(ctx context.Context, tx *sql.Tx, e model.LogEntry) error {
	var exists int
	err := tx.QueryRowContext(ctx, s.dialect.rebind(`SELECT COUNT(*) FROM runners WHERE id = ?`), e.RunnerID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking runner: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("runner %s: %w", e.RunnerID, ErrNotFound)
	}

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = tx.ExecContext(ctx, s.dialect.rebind(`INSERT INTO logs (`+logColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		e.ID, e.RunnerID, e.Date, e.DistanceKm.Km(), e.Category, e.RPE, e.PainLevel, e.Memo,
		createdAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting log %s: %w", e.ID, err)
	}
	return nil
}

// DeleteLog implements Store.DeleteLog.
func (s *SQLStore) DeleteLog(ctx context.Context, id string) error {
	defer observe("delete_log", time.Now())

	res, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM logs WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting log: %w", err)
	}
	return requireAffected(res, "log "+id)
}

func scanLog(row rowScanner) (model.LogEntry, error) {
	var (
		e         model.LogEntry
		distance  float64
		createdAt string
	)
	err := row.Scan(&e.ID, &e.RunnerID, &e.Date, &distance, &e.Category, &e.RPE, &e.PainLevel, &e.Memo, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LogEntry{}, err
		}
		return model.LogEntry{}, fmt.Errorf("scanning log: %w", err)
	}
	e.DistanceKm = model.Distance(distance)
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		e.CreatedAt = t
	}
	return e, nil
}
