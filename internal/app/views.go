package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/trackload/internal/adapters/repository"
	"github.com/okian/trackload/internal/domain/checklist"
	"github.com/okian/trackload/internal/domain/digest"
	"github.com/okian/trackload/internal/domain/load"
	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/period"
	"github.com/okian/trackload/internal/domain/ranking"
	"github.com/okian/trackload/internal/domain/report"
	"github.com/okian/trackload/internal/domain/trend"
	"github.com/okian/trackload/internal/domain/types"
	"github.com/okian/trackload/pkg/metrics"
)

// frame is one consistent read: the snapshot, its resolved period and the
// instant treated as today.
type frame struct {
	snap   model.Snapshot
	period model.PeriodConfig
	today  time.Time
}

func (f frame) roster(excluded []string) []model.Runner {
	return model.ActiveRoster(f.snap.Runners, excluded...)
}

func (f frame) dates() []string {
	return period.Enumerate(f.period.StartDate, f.period.EndDate)
}

func (s *Service) read(ctx context.Context, view string) (frame, func(), error) {
	start := time.Now()
	done := func() {
		metrics.RecordViewBuild(view, float64(time.Since(start).Microseconds())/1000)
	}

	store, err := s.storeOrErr()
	if err != nil {
		return frame{}, done, err
	}
	snap, err := store.Snapshot(ctx)
	if err != nil {
		return frame{}, done, fmt.Errorf("%s: snapshot: %w", view, err)
	}

	today := s.Today()
	return frame{snap: snap, period: period.Resolve(snap.Period, today), today: today}, done, nil
}

// Ranking returns the period ranking. A non-positive limit returns every
// runner; larger limits are capped.
func (s *Service) Ranking(ctx context.Context, limit int) ([]types.Entry, error) {
	f, done, err := s.read(ctx, "ranking")
	defer done()
	if err != nil {
		return nil, err
	}

	if limit > s.maxRankingLimit {
		limit = s.maxRankingLimit
	}
	entries := ranking.Build(f.snap.Runners, f.snap.Logs, f.snap.Period, s.excluded...)
	return ranking.Top(entries, limit), nil
}

// Report returns the period matrix over the active roster.
func (s *Service) Report(ctx context.Context) (report.Matrix, error) {
	f, done, err := s.read(ctx, "report")
	defer done()
	if err != nil {
		return report.Matrix{}, err
	}
	return report.BuildMatrix(f.dates(), f.roster(s.excluded), f.snap.Logs, f.period.Quarters), nil
}

// TrendView is the cumulative series with the runners it covers.
type TrendView struct {
	Runners []report.Column `json:"runners"`
	Points  []trend.Point   `json:"points"`
}

// Trend returns the cumulative distance per runner over the period.
func (s *Service) Trend(ctx context.Context) (TrendView, error) {
	f, done, err := s.read(ctx, "trend")
	defer done()
	if err != nil {
		return TrendView{}, err
	}

	roster := f.roster(s.excluded)
	view := TrendView{
		Runners: make([]report.Column, len(roster)),
		Points:  trend.Cumulative(f.dates(), roster, f.snap.Logs),
	}
	for i, r := range roster {
		view.Runners[i] = report.Column{RunnerID: r.ID, DisplayName: r.DisplayName()}
	}
	if view.Points == nil {
		view.Points = []trend.Point{}
	}
	return view, nil
}

// ChecklistView lists the submission status of every active runner on Date.
type ChecklistView struct {
	Date       string           `json:"date"`
	Items      []checklist.Item `json:"items"`
	Unreported int              `json:"unreported"`
}

// Checklist classifies the active roster for date, today when empty.
func (s *Service) Checklist(ctx context.Context, date string) (ChecklistView, error) {
	f, done, err := s.read(ctx, "checklist")
	defer done()
	if err != nil {
		return ChecklistView{}, err
	}

	if strings.TrimSpace(date) == "" {
		date = period.Format(f.today)
	} else {
		d, ok := period.Canonical(date)
		if !ok {
			return ChecklistView{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
		date = d
	}

	items := checklist.Build(date, f.roster(s.excluded), f.snap.Logs)
	return ChecklistView{
		Date:       date,
		Items:      items,
		Unreported: len(checklist.Unreported(items)),
	}, nil
}

// RunnerStats returns the stat bundle of one runner, retired ones included.
func (s *Service) RunnerStats(ctx context.Context, runnerID string) (load.RunnerStats, error) {
	f, done, err := s.read(ctx, "runner_stats")
	defer done()
	if err != nil {
		return load.RunnerStats{}, err
	}

	for _, r := range f.snap.Runners {
		if r.ID == runnerID {
			return load.Stats(f.snap.Logs, r, f.period, f.today, s.windowDays), nil
		}
	}
	return load.RunnerStats{}, fmt.Errorf("runner %s: %w", runnerID, repository.ErrNotFound)
}

// Digest returns today's coach digest.
func (s *Service) Digest(ctx context.Context) (digest.Digest, error) {
	f, done, err := s.read(ctx, "digest")
	defer done()
	if err != nil {
		return digest.Digest{}, err
	}
	return digest.Build(f.roster(s.excluded), f.snap.Logs, f.today, s.painThreshold), nil
}

// Period returns the stored period with quarters resolved.
func (s *Service) Period(ctx context.Context) (model.PeriodConfig, error) {
	f, done, err := s.read(ctx, "period")
	defer done()
	if err != nil {
		return model.PeriodConfig{}, err
	}
	return f.period, nil
}
