package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/okian/trackload/internal/domain/model"
)

// periodRowID is the id of the single period row.
const periodRowID = 1

// GetPeriod implements Store.GetPeriod.
func (s *SQLStore) GetPeriod(ctx context.Context) (model.PeriodConfig, error) {
	defer observe("get_period", time.Now())
	return s.getPeriod(ctx, s.db)
}

func (s *SQLStore) getPeriod(ctx context.Context, q queryer) (model.PeriodConfig, error) {
	var cfg model.PeriodConfig
	err := q.QueryRowContext(ctx, s.dialect.rebind(`SELECT start_date, end_date FROM period WHERE id = ?`), periodRowID).
		Scan(&cfg.StartDate, &cfg.EndDate)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.PeriodConfig{}, fmt.Errorf("loading period: %w", err)
	}

	rows, err := q.QueryContext(ctx, `SELECT id, start_date, end_date FROM quarters ORDER BY id`)
	if err != nil {
		return model.PeriodConfig{}, fmt.Errorf("loading quarters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var qt model.Quarter
		if err := rows.Scan(&qt.ID, &qt.Start, &qt.End); err != nil {
			return model.PeriodConfig{}, fmt.Errorf("scanning quarter: %w", err)
		}
		cfg.Quarters = append(cfg.Quarters, qt)
	}
	if err := rows.Err(); err != nil {
		return model.PeriodConfig{}, fmt.Errorf("iterating quarters: %w", err)
	}
	return cfg, nil
}

// SavePeriod implements Store.SavePeriod. Stored quarters are replaced.
func (s *SQLStore) SavePeriod(ctx context.Context, cfg model.PeriodConfig) error {
	defer observe("save_period", time.Now())

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.dialect.rebind(`INSERT INTO period (id, start_date, end_date) VALUES (?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET start_date = excluded.start_date, end_date = excluded.end_date`),
			periodRowID, cfg.StartDate, cfg.EndDate,
		)
		if err != nil {
			return fmt.Errorf("saving period: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM quarters`); err != nil {
			return fmt.Errorf("clearing quarters: %w", err)
		}
		for i, qt := range cfg.Quarters {
			id := qt.ID
			if id <= 0 {
				id = i + 1
			}
			_, err := tx.ExecContext(ctx, s.dialect.rebind(`INSERT INTO quarters (id, start_date, end_date) VALUES (?, ?, ?)`),
				id, qt.Start, qt.End,
			)
			if err != nil {
				return fmt.Errorf("saving quarter %d: %w", id, err)
			}
		}
		return nil
	})
}
