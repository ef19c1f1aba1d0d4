package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/period"
)

// ListRunners returns the whole roster, retired runners included.
func (s *Service) ListRunners(ctx context.Context) ([]model.Runner, error) {
	store, err := s.storeOrErr()
	if err != nil {
		return nil, err
	}
	return store.ListRunners(ctx)
}

// UpsertRunner creates or updates a runner and returns the stored record.
func (s *Service) UpsertRunner(ctx context.Context, r model.Runner) (model.Runner, error) {
	store, err := s.storeOrErr()
	if err != nil {
		return model.Runner{}, err
	}

	r.ID = strings.TrimSpace(r.ID)
	r.LastName = strings.TrimSpace(r.LastName)
	r.FirstName = strings.TrimSpace(r.FirstName)
	if r.ID == "" {
		return model.Runner{}, ErrMissingRunner
	}
	if r.Status == "" {
		r.Status = model.StatusActive
	}
	if !r.Status.Valid() {
		return model.Runner{}, fmt.Errorf("%w: %q", ErrInvalidStatus, r.Status)
	}

	if err := store.UpsertRunner(ctx, r); err != nil {
		return model.Runner{}, fmt.Errorf("upsert runner %s: %w", r.ID, err)
	}
	return store.GetRunner(ctx, r.ID)
}

// SetRunnerStatus retires or reactivates a runner. Logs are kept either way.
func (s *Service) SetRunnerStatus(ctx context.Context, id string, status model.RunnerStatus) error {
	store, err := s.storeOrErr()
	if err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := store.SetRunnerStatus(ctx, id, status); err != nil {
		return fmt.Errorf("set status of %s: %w", id, err)
	}
	return nil
}

// DeleteRunner purges a runner and every log they submitted.
func (s *Service) DeleteRunner(ctx context.Context, id string) error {
	store, err := s.storeOrErr()
	if err != nil {
		return err
	}
	if err := store.DeleteRunner(ctx, id); err != nil {
		return fmt.Errorf("delete runner %s: %w", id, err)
	}
	return nil
}

// SavePeriod validates and stores the monitoring period. Four explicit
// quarters must tile the range exactly; fewer are replaced by quarters
// derived from the range. Both dates empty clears the period.
func (s *Service) SavePeriod(ctx context.Context, cfg model.PeriodConfig) (model.PeriodConfig, error) {
	store, err := s.storeOrErr()
	if err != nil {
		return model.PeriodConfig{}, err
	}

	cfg, err = validatePeriod(cfg)
	if err != nil {
		return model.PeriodConfig{}, err
	}
	if cfg.StartDate != "" {
		cfg = period.Resolve(cfg, s.Today())
	}

	if err := store.SavePeriod(ctx, cfg); err != nil {
		return model.PeriodConfig{}, fmt.Errorf("save period: %w", err)
	}
	return cfg, nil
}

func validatePeriod(cfg model.PeriodConfig) (model.PeriodConfig, error) {
	start := strings.TrimSpace(cfg.StartDate)
	end := strings.TrimSpace(cfg.EndDate)
	if start == "" && end == "" {
		return model.PeriodConfig{}, nil
	}

	var ok bool
	if cfg.StartDate, ok = period.Canonical(start); !ok {
		return cfg, fmt.Errorf("%w: start_date %q", ErrInvalidPeriod, start)
	}
	if cfg.EndDate, ok = period.Canonical(end); !ok {
		return cfg, fmt.Errorf("%w: end_date %q", ErrInvalidPeriod, end)
	}
	if cfg.EndDate < cfg.StartDate {
		return cfg, fmt.Errorf("%w: end_date before start_date", ErrInvalidPeriod)
	}

	quarters := make([]model.Quarter, 0, len(cfg.Quarters))
	for i, q := range cfg.Quarters {
		if strings.TrimSpace(q.Start) == "" && strings.TrimSpace(q.End) == "" {
			continue
		}
		qs, okStart := period.Canonical(q.Start)
		qe, okEnd := period.Canonical(q.End)
		if !okStart || !okEnd || qe < qs {
			return cfg, fmt.Errorf("%w: quarter %d", ErrInvalidPeriod, i+1)
		}
		quarters = append(quarters, model.Quarter{ID: len(quarters) + 1, Start: qs, End: qe})
	}
	switch {
	case len(quarters) > model.QuarterCount:
		return cfg, fmt.Errorf("%w: %d quarters", ErrInvalidPeriod, len(quarters))
	case len(quarters) == model.QuarterCount && !period.Tiles(quarters, cfg.StartDate, cfg.EndDate):
		return cfg, fmt.Errorf("%w: quarters must cover %s..%s without gap or overlap",
			ErrInvalidPeriod, cfg.StartDate, cfg.EndDate)
	}
	cfg.Quarters = quarters
	return cfg, nil
}
