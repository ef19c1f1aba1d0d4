// Package worker applies queued log submissions to the store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/pkg/logger"
	"github.com/okian/trackload/pkg/metrics"
)

const (
	poolShutdownTimeout = 30 * time.Second
	laneBuffer          = 16
)

// Applier writes normalized submissions.
type Applier interface {
	PutLog(ctx context.Context, e model.LogEntry) error
	// UpdateLog edits an existing entry and fails when it is gone.
	UpdateLog(ctx context.Context, e model.LogEntry) error
	DeleteLog(ctx context.Context, id string) error
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue() <-chan model.Submission
}

// Worker processes submissions until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled, Shutdown is called
	// or the queue is drained after closing.
	Run(ctx context.Context)

	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue      Queue
	normalizer Normalizer
	applier    Applier
	name       string

	shutdown chan struct{}
	done     chan struct{}

	processed atomic.Int64
	failed    atomic.Int64

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, n Normalizer, a Applier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		normalizer: n,
		applier:    a,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	items := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-items:
			if !ok {
				return
			}
			if err := w.process(ctx, s); err != nil {
				w.failed.Add(1)
				w.logger.Error(ctx, "error applying submission",
					logger.String("key", s.Key),
					logger.String("log_id", s.Entry.ID),
					logger.Error(err),
				)
				continue
			}
			w.processed.Add(1)
		}
	}
}

// Shutdown stops the worker without draining the queue.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// process normalizes and applies one submission.
func (w *InMemoryWorker) process(ctx context.Context, s model.Submission) error { //nolint:gocritic // submissions travel by value
	start := time.Now()
	defer func() {
		metrics.RecordApplyLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s, err := w.normalizer.Normalize(ctx, s)
	if err != nil {
		metrics.RecordSubmissionRejected(Reason(err))
		return err
	}

	switch s.Op {
	case model.OpDelete:
		err = w.applier.DeleteLog(ctx, s.Entry.ID)
	case model.OpEdit:
		err = w.applier.UpdateLog(ctx, s.Entry)
	default:
		err = w.applier.PutLog(ctx, s.Entry)
	}
	if err != nil {
		metrics.RecordSubmissionFailed()
		metrics.RecordErrorByComponent("worker", "apply_error")
		return fmt.Errorf("apply %s %s: %w", s.Op, s.Entry.ID, err)
	}

	metrics.RecordSubmissionApplied(string(s.Op))
	return nil
}

// lane is the private queue of one pool worker.
type lane chan model.Submission

func (l lane) Dequeue() <-chan model.Submission { return l }

// Pool manages workers fed from one queue. Submissions for the same log id
// always go to the same worker, so they are applied in the order received.
type Pool struct {
	workers []*InMemoryWorker
	lanes   []lane
	queue   Queue

	stop     chan struct{}
	stopOnce sync.Once

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A non-positive count uses
// runtime.NumCPU(). opts apply to every worker.
func NewPool(workerCount int, q Queue, n Normalizer, a Applier, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		lanes:   make([]lane, workerCount),
		queue:   q,
		stop:    make(chan struct{}),
		logger:  logger.Nop(),
	}
	for i := range p.workers {
		p.lanes[i] = make(lane, laneBuffer)
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(p.lanes[i], n, a, workerOpts...)
	}
	if len(p.workers) > 0 {
		p.logger = p.workers[0].logger
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts the dispatcher and all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.dispatch(ctx)
}

// dispatch moves submissions from the shared queue to their lanes. Lanes
// are closed when it returns so workers drain and exit.
func (p *Pool) dispatch(ctx context.Context) {
	defer func() {
		for _, l := range p.lanes {
			close(l)
		}
	}()

	items := p.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case s, ok := <-items:
			if !ok {
				return
			}
			select {
			case p.lanes[p.laneFor(s)] <- s:
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			}
		}
	}
}

// laneFor hashes the log id, or the runner id for an entry that has no id
// yet.
func (p *Pool) laneFor(s model.Submission) int { //nolint:gocritic // submissions travel by value
	key := s.Entry.ID
	if key == "" {
		key = s.Entry.RunnerID
	}
	return int(xxhash.Sum64String(key) % uint64(len(p.lanes))) //nolint:gosec // lane count is small and positive
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Processed returns how many submissions were applied.
func (p *Pool) Processed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.processed.Load()
	}
	return n
}

// Failed returns how many submissions could not be applied.
func (p *Pool) Failed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.failed.Load()
	}
	return n
}

// Shutdown closes the queue and lets the workers drain it. Workers still
// running when ctx (or the pool timeout) expires are stopped.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	drainCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var errs []error
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-drainCtx.Done():
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			p.stopOnce.Do(func() { close(p.stop) })
			if err := w.Shutdown(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	metrics.UpdateWorkerCount(0)
	return errors.Join(errs...)
}
