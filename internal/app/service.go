// Package service wires the store, the submission pipeline and the report
// engine together and implements the dependencies of the HTTP API and CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/okian/trackload/internal/adapters/mq/queue"
	"github.com/okian/trackload/internal/adapters/mq/worker"
	"github.com/okian/trackload/internal/adapters/repository"
	"github.com/okian/trackload/internal/config"
	"github.com/okian/trackload/internal/domain/dedupe"
	"github.com/okian/trackload/internal/domain/digest"
	"github.com/okian/trackload/internal/domain/load"
	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/pkg/logger"
	"github.com/okian/trackload/pkg/metrics"
)

const defaultStopTimeout = 10 * time.Second

// Service implements the API dependencies for the training log system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	ownsStore  bool
	deduper    dedupe.Deduper
	queue      *queue.InMemoryQueue
	normalizer worker.Normalizer
	pool       *worker.Pool

	// Configuration
	storeDriver     string
	storeDSN        string
	workerCount     int
	queueSize       int
	dedupeSize      int
	excluded        []string
	painThreshold   int
	windowDays      int
	maxRankingLimit int
	now             func() time.Time
	loc             *time.Location

	started bool

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeDriver:     config.DriverSQLite,
		storeDSN:        repository.MemoryDSN,
		workerCount:     runtime.NumCPU(),
		queueSize:       10_000,
		dedupeSize:      100_000,
		excluded:        []string{"admin"},
		painThreshold:   digest.DefaultPainThreshold,
		windowDays:      load.DefaultWindowDays,
		maxRankingLimit: 100,
		now:             time.Now,
		loc:             time.UTC,
		logger:          logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FromConfig translates loaded configuration into service options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithStoreDSN(cfg.StoreDriver, cfg.StoreDSN),
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithExcludedRunners(cfg.ExcludedRunners...),
		WithPainThreshold(cfg.PainThreshold),
		WithDailyWindow(cfg.DailyWindowDays),
		WithMaxRankingLimit(cfg.MaxRankingLimit),
		WithLocation(cfg.Location()),
	}
}

// Start opens the store when none was injected and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting trackload service...")

	if s.store == nil {
		store, err := repository.Open(ctx, s.storeDriver, s.storeDSN,
			repository.WithLogger(s.logger.Named("store")),
		)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = store
		s.ownsStore = true
		s.logger.Info(ctx, "store opened", logger.String("driver", s.storeDriver))
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.normalizer = worker.NewNormalizer(worker.WithNow(s.now))

	// Workers outlive the request that started them.
	s.pool = worker.NewPool(s.workerCount, s.queue, s.normalizer, s.store,
		worker.WithLogger(s.logger.Named("worker")),
	)
	s.pool.Start(context.WithoutCancel(ctx))

	metrics.UpdateQueueCapacity(s.queue.Capacity())

	s.started = true
	s.logger.Info(ctx, "trackload service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop drains queued submissions and closes the store it opened.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping trackload service...")

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultStopTimeout)
		defer cancel()
	}

	var errs []error
	if err := s.pool.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("worker pool: %w", err))
	}

	if s.ownsStore {
		if closer, ok := s.store.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close store: %w", err))
			}
		}
		s.store = nil
		s.ownsStore = false
	}

	s.started = false
	s.logger.Info(ctx, "trackload service stopped",
		logger.Any("processed", s.pool.Processed()),
		logger.Any("failed", s.pool.Failed()),
	)
	return errors.Join(errs...)
}

// SubmitResult reports the outcome of an accepted submission.
type SubmitResult struct {
	ID        string `json:"id,omitempty"`
	Duplicate bool   `json:"duplicate"`
}

// Submit validates a log change and queues it for the workers. A
// submission whose key was already seen is acknowledged as a duplicate and
// dropped. A full queue returns ErrBackpressure and forgets the key so the
// client can retry.
func (s *Service) Submit(ctx context.Context, sub model.Submission) (SubmitResult, error) { //nolint:gocritic // submissions travel by value
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return SubmitResult{}, ErrNotStarted
	}

	if sub.ReceivedAt.IsZero() {
		sub.ReceivedAt = s.now()
	}
	clientID := strings.TrimSpace(sub.Entry.ID)

	sub, err := s.normalizer.Normalize(ctx, sub)
	if err != nil {
		metrics.RecordSubmissionRejected(worker.Reason(err))
		return SubmitResult{}, err
	}
	if sub, err = s.check(ctx, sub); err != nil {
		return SubmitResult{}, err
	}

	if sub.Key != "" && s.deduper.SeenAndRecord(ctx, sub.Key) {
		metrics.RecordSubmissionDuplicate()
		s.logger.Debug(ctx, "duplicate submission, skipping", logger.String("key", sub.Key))
		return SubmitResult{ID: clientID, Duplicate: true}, nil
	}

	if !s.queue.Enqueue(ctx, sub) {
		if sub.Key != "" {
			s.deduper.Unrecord(ctx, sub.Key)
		}
		s.logger.Warn(ctx, "submission queue rejected entry",
			logger.String("log_id", sub.Entry.ID),
			logger.Int("queueLength", s.queue.Len()),
		)
		return SubmitResult{}, ErrBackpressure
	}

	metrics.RecordSubmissionAccepted()
	metrics.UpdateQueueSize(s.queue.Len())
	return SubmitResult{ID: sub.Entry.ID}, nil
}

// Delete queues the removal of a log entry.
func (s *Service) Delete(ctx context.Context, key, id string) (SubmitResult, error) {
	return s.Submit(ctx, model.Submission{
		Key:   key,
		Op:    model.OpDelete,
		Entry: model.LogEntry{ID: id},
	})
}

// check verifies a normalized submission against the store so that errors
// the workers would hit are reported synchronously. A put for a log that
// already exists comes back as an edit, which the workers apply as an update
// only.
func (s *Service) check(ctx context.Context, sub model.Submission) (model.Submission, error) { //nolint:gocritic // submissions travel by value
	existing, err := s.store.GetLog(ctx, sub.Entry.ID)
	found := err == nil
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return sub, fmt.Errorf("lookup log %s: %w", sub.Entry.ID, err)
	}

	if sub.Op == model.OpDelete || (sub.Op == model.OpEdit && !found) {
		if !found {
			return sub, fmt.Errorf("log %s: %w", sub.Entry.ID, repository.ErrNotFound)
		}
		return sub, nil
	}

	if _, err := s.store.GetRunner(ctx, sub.Entry.RunnerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordSubmissionRejected("unknown_runner")
			return sub, fmt.Errorf("%w: %s", ErrUnknownRunner, sub.Entry.RunnerID)
		}
		return sub, fmt.Errorf("lookup runner %s: %w", sub.Entry.RunnerID, err)
	}

	if found {
		if existing.Date != sub.Entry.Date || existing.RunnerID != sub.Entry.RunnerID {
			metrics.RecordSubmissionRejected("immutable_field")
			return sub, fmt.Errorf("log %s: %w", sub.Entry.ID, repository.ErrImmutableField)
		}
		sub.Op = model.OpEdit
	}
	return sub, nil
}

// Today returns the current calendar instant in the configured zone.
func (s *Service) Today() time.Time {
	return s.now().In(s.loc)
}

// Store returns the underlying store, nil before Start when none was
// injected.
func (s *Service) Store() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

func (s *Service) storeOrErr() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len()
		stats["queueLength"] = queueLen
		stats["dedupeKeys"] = s.deduper.Size()
		stats["processed"] = s.pool.Processed()
		stats["failed"] = s.pool.Failed()

		if counts, err := s.store.Count(ctx); err == nil {
			stats["runners"] = counts.Runners
			stats["logs"] = counts.Logs
			metrics.UpdateRosterSize(counts.Runners, counts.Logs)
		}

		metrics.UpdateQueueSize(queueLen)
	}

	return stats
}
