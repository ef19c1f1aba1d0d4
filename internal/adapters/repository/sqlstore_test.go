package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/trackload/internal/domain/model"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := Open(context.Background(), "sqlite", MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedRunner(t *testing.T, s *SQLStore, id, last, first string) {
	t.Helper()
	require.NoError(t, s.UpsertRunner(context.Background(), model.Runner{ID: id, LastName: last, FirstName: first}))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	assert.True(t, errors.Is(err, ErrUnknownDriver))
}

func TestRunners_UpsertKeepsRosterOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedRunner(t, s, "r2", "Ito", "Mai")
	seedRunner(t, s, "r1", "Sato", "Ken")
	require.NoError(t, s.UpsertRunner(ctx, model.Runner{
		ID: "r2", LastName: "Ito", FirstName: "Mei",
		Goals: model.Goals{Monthly: 200, Quarter: [4]float64{1, 2, 3, 4}},
	}))

	runners, err := s.ListRunners(ctx)
	require.NoError(t, err)
	require.Len(t, runners, 2)
	assert.Equal(t, "r2", runners[0].ID)
	assert.Equal(t, "Mei", runners[0].FirstName)
	assert.Equal(t, model.StatusActive, runners[0].Status)
	assert.Equal(t, 200.0, runners[0].Goals.Monthly)
	assert.Equal(t, [4]float64{1, 2, 3, 4}, runners[0].Goals.Quarter)
	assert.Equal(t, "r1", runners[1].ID)
}

func TestRunners_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.UpsertRunner(ctx, model.Runner{ID: " "})
	assert.True(t, errors.Is(err, ErrInvalidRecord))

	err = s.UpsertRunner(ctx, model.Runner{ID: "r1", Status: "sleeping"})
	assert.True(t, errors.Is(err, ErrInvalidRecord))

	_, err = s.GetRunner(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.SetRunnerStatus(ctx, "missing", model.StatusRetired)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRunners_RetireKeepsLogs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRunner(t, s, "r1", "Sato", "Ken")
	require.NoError(t, s.PutLog(ctx, model.LogEntry{ID: "l1", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 5}))

	require.NoError(t, s.SetRunnerStatus(ctx, "r1", model.StatusRetired))

	r, err := s.GetRunner(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRetired, r.Status)

	logs, err := s.ListLogsByRunner(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestRunners_DeleteCascadesLogs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRunner(t, s, "r1", "Sato", "Ken")
	seedRunner(t, s, "r2", "Ito", "Mai")
	require.NoError(t, s.PutLog(ctx, model.LogEntry{ID: "l1", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 5}))
	require.NoError(t, s.PutLog(ctx, model.LogEntry{ID: "l2", RunnerID: "r2", Date: "2025-01-05", DistanceKm: 3}))

	require.NoError(t, s.DeleteRunner(ctx, "r1"))

	c, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Runners: 1, Logs: 1}, c)

	err = s.DeleteRunner(ctx, "r1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLogs_MultipleEntriesPerDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRunner(t, s, "r1", "Sato", "Ken")
	base := time.Date(2025, 1, 5, 7, 0, 0, 0, time.UTC)

	require.NoError(t, s.PutLog(ctx, model.LogEntry{ID: "b", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 4.1, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, s.PutLog(ctx, model.LogEntry{ID: "a", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 3.2, CreatedAt: base}))
	require.NoError(t, s.PutLog(ctx, model.LogEntry{ID: "c", RunnerID: "r1", Date: "2025-01-04", Category: model.CategoryRest, CreatedAt: base}))

	logs, err := s.ListLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{logs[0].ID, logs[1].ID, logs[2].ID})
	assert.Equal(t, 3.2, logs[1].DistanceKm.Km())
	assert.True(t, logs[1].CreatedAt.Equal(base))
	assert.True(t, logs[0].IsRest())
}

func TestLogs_EditKeepsIdentity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRunner(t, s, "r1", "Sato", "Ken")
	seedRunner(t, s, "r2", "Ito", "Mai")
	created := time.Date(2025, 1, 5, 7, 0, 0, 0, time.UTC)
	require.NoError(t, s.PutLog(ctx, model.LogEntry{ID: "l1", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 5, CreatedAt: created}))

	require.NoError(t, s.PutLog(ctx, model.LogEntry{
		ID: "l1", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 6.5,
		Category: "tempo", RPE: 7, PainLevel: 2, Memo: "windy", CreatedAt: created.Add(time.Hour),
	}))

	e, err := s.GetLog(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 6.5, e.DistanceKm.Km())
	assert.Equal(t, "tempo", e.Category)
	assert.Equal(t, 7, e.RPE)
	assert.Equal(t, "windy", e.Memo)
	assert.True(t, e.CreatedAt.Equal(created))

	err = s.PutLog(ctx, model.LogEntry{ID: "l1", RunnerID: "r1", Date: "2025-01-06"})
	assert.True(t, errors.Is(err, ErrImmutableField))
	err = s.PutLog(ctx, model.LogEntry{ID: "l1", RunnerID: "r2", Date: "2025-01-05"})
	assert.True(t, errors.Is(err, ErrImmutableField))
}

func TestLogs_UpdateNeverInserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRunner(t, s, "r1", "Sato", "Ken")

	err := s.UpdateLog(ctx, model.LogEntry{ID: "l1", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 5})
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.GetLog(ctx, "l1")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.PutLog(ctx, model.LogEntry{ID: "l1", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 5}))
	require.NoError(t, s.UpdateLog(ctx, model.LogEntry{ID: "l1", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 7.5}))
	e, err := s.GetLog(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 7.5, e.DistanceKm.Km())

	err = s.UpdateLog(ctx, model.LogEntry{ID: "l1", RunnerID: "r1", Date: "2025-01-06"})
	assert.True(t, errors.Is(err, ErrImmutableField))

	require.NoError(t, s.DeleteLog(ctx, "l1"))
	err = s.UpdateLog(ctx, model.LogEntry{ID: "l1", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 9})
	assert.True(t, errors.Is(err, ErrNotFound))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n.Logs)
}

func TestLogs_CreatedAtOrdersWithinASecond(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRunner(t, s, "r1", "Sato", "Ken")
	base := time.Date(2025, 1, 5, 7, 0, 5, 0, time.UTC)

	require.NoError(t, s.PutLog(ctx, model.LogEntry{ID: "a", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 1, CreatedAt: base.Add(500 * time.Millisecond)}))
	require.NoError(t, s.PutLog(ctx, model.LogEntry{ID: "b", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 2, CreatedAt: base}))
	require.NoError(t, s.PutLog(ctx, model.LogEntry{ID: "c", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 3, CreatedAt: base.Add(time.Second)}))

	logs, err := s.ListLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{logs[0].ID, logs[1].ID, logs[2].ID})
	assert.True(t, logs[1].CreatedAt.Equal(base.Add(500*time.Millisecond)))
}

func TestLogs_Errors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.PutLog(ctx, model.LogEntry{ID: "l1", RunnerID: "ghost", Date: "2025-01-05"})
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.PutLog(ctx, model.LogEntry{ID: "", RunnerID: "r1", Date: "2025-01-05"})
	assert.True(t, errors.Is(err, ErrInvalidRecord))

	_, err = s.GetLog(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.DeleteLog(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPeriod_SaveAndReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cfg, err := s.GetPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.PeriodConfig{}, cfg)

	first := model.PeriodConfig{
		StartDate: "2025-01-01",
		EndDate:   "2025-01-08",
		Quarters: []model.Quarter{
			{ID: 1, Start: "2025-01-01", End: "2025-01-02"},
			{ID: 2, Start: "2025-01-03", End: "2025-01-04"},
			{ID: 3, Start: "2025-01-05", End: "2025-01-06"},
			{ID: 4, Start: "2025-01-07", End: "2025-01-08"},
		},
	}
	require.NoError(t, s.SavePeriod(ctx, first))
	got, err := s.GetPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	require.NoError(t, s.SavePeriod(ctx, model.PeriodConfig{StartDate: "2025-02-01", EndDate: "2025-03-01"}))
	got, err = s.GetPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", got.StartDate)
	assert.Empty(t, got.Quarters)
}

func TestSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRunner(t, s, "r1", "Sato", "Ken")
	require.NoError(t, s.PutLog(ctx, model.LogEntry{ID: "l1", RunnerID: "r1", Date: "2025-01-05", DistanceKm: 5}))
	require.NoError(t, s.SavePeriod(ctx, model.PeriodConfig{StartDate: "2025-01-01", EndDate: "2025-01-31"}))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Runners, 1)
	assert.Len(t, snap.Logs, 1)
	assert.Equal(t, "2025-01-31", snap.Period.EndDate)
}

func TestConcurrentWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRunner(t, s, "r1", "Sato", "Ken")

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.PutLog(ctx, model.LogEntry{
				ID: fmt.Sprintf("l%02d", i), RunnerID: "r1", Date: "2025-01-05", DistanceKm: 1,
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	logs, err := s.ListLogsByRunner(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, logs, 50)
}

func TestDialectRebind(t *testing.T) {
	pg, ok := dialectFor("postgres")
	require.True(t, ok)
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))

	lite, ok := dialectFor("sqlite")
	require.True(t, ok)
	assert.Equal(t, "x = ?", lite.rebind("x = ?"))
}
