package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/pkg/logger"
	"github.com/okian/trackload/pkg/metrics"
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	log     logger.Logger

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ Store = (*SQLStore)(nil)

// Open connects to driver ("sqlite" or "postgres") at dsn and runs the
// migrations. For SQLite, dsn is a file path or MemoryDSN.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*SQLStore, error) {
	d, ok := dialectFor(driver)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	if d.driverName == "sqlite" && dsn != MemoryDSN && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if d.driverName == "sqlite" {
		// SQLite serializes writers; a single connection also keeps an
		// in-memory database shared by every caller.
		db.SetMaxOpenConns(1)
	}

	for _, pragma := range d.pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	s := &SQLStore{
		db:                    db,
		dialect:               d,
		log:                   logger.Nop(),
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.startMetricsUpdater(ctx)
	return s, nil
}

// Close stops the metrics updater and closes the database.
func (s *SQLStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return s.db.Close()
}

// startMetricsUpdater periodically publishes roster size gauges.
func (s *SQLStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics(ctx)
			}
		}
	}()
}

func (s *SQLStore) updateMetrics(ctx context.Context) {
	c, err := s.Count(ctx)
	if err != nil {
		s.log.Warn(ctx, "roster metrics update failed", logger.Error(err))
		return
	}
	metrics.UpdateRosterSize(c.Runners, c.Logs)
}

// observe records the latency of one store operation.
func observe(op string, start time.Time) {
	metrics.RecordStoreQueryLatency(op, float64(time.Since(start).Microseconds())/1000)
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ queryer = (*sql.DB)(nil)
	_ queryer = (*sql.Tx)(nil)
)

// inTx runs fn in a transaction, committing on success.
func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Snapshot implements Store.Snapshot.
func (s *SQLStore) Snapshot(ctx context.Context) (model.Snapshot, error) {
	defer observe("snapshot", time.Now())

	var snap model.Snapshot
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if snap.Runners, err = s.listRunners(ctx, tx); err != nil {
			return err
		}
		if snap.Logs, err = s.listLogs(ctx, tx, "", nil); err != nil {
			return err
		}
		snap.Period, err = s.getPeriod(ctx, tx)
		return err
	})
	if err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// Count implements Store.Count.
func (s *SQLStore) Count(ctx context.Context) (Counts, error) {
	defer observe("count", time.Now())

	var c Counts
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM runners), (SELECT COUNT(*) FROM logs)`,
	).Scan(&c.Runners, &c.Logs)
	if err != nil {
		return Counts{}, fmt.Errorf("counting rows: %w", err)
	}
	return c, nil
}
