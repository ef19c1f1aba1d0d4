package seedlogs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/trackload/pkg/logger"
)

// Run executes a complete seeding run against cfg.BaseURL. The target
// service should start from an empty store; existing runners or logs make
// verification fail.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("seedlogs")
	if cfg.Workers < 1 {
		cfg.Workers = runtime.NumCPU()
	}

	log.Info(ctx, "starting seeding run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("runners", cfg.Runners),
		logger.Int("days", cfg.Days),
		logger.String("startDate", cfg.StartDate),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	ds, err := Generate(cfg)
	if err != nil {
		return stats, fmt.Errorf("dataset generation failed: %w", err)
	}
	stats.LogsGenerated = len(ds.Logs)
	log.Info(ctx, "generated dataset",
		logger.Int("runners", len(ds.Runners)),
		logger.Int("logs", len(ds.Logs)),
		logger.Float64("totalKm", totalDistance(ds.Entries())))

	if err := seedRoster(ctx, client, &ds, stats); err != nil {
		return stats, fmt.Errorf("roster seeding failed: %w", err)
	}

	if err := submitLogs(ctx, client, cfg, ds.Logs, stats); err != nil {
		return stats, fmt.Errorf("log submission failed: %w", err)
	}

	expected := Expected(&ds)
	got, err := awaitRanking(ctx, client, expected, cfg.Settle)
	if err != nil {
		return stats, fmt.Errorf("ranking retrieval failed: %w", err)
	}
	stats.RankingEntries = len(got)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	displayTop(ctx, got, cfg.Verbose)

	if err := Verify(expected, got); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}
	log.Info(ctx, "ranking verified", logger.Int("entries", len(got)))
	return stats, nil
}

func checkServiceHealth(ctx context.Context, c *HTTPClient) error {
	status, _, err := c.Do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status %d", status)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// seedRoster stores the period and every runner synchronously.
func seedRoster(ctx context.Context, c *HTTPClient, ds *Dataset, stats *Stats) error {
	if err := c.JSON(ctx, http.MethodPut, "/period", ds.Period, nil); err != nil {
		return err
	}
	for _, r := range ds.Runners {
		if err := c.JSON(ctx, http.MethodPost, "/runners", r, nil); err != nil {
			return fmt.Errorf("runner %s: %w", r.ID, err)
		}
		stats.RunnersSeeded++
	}
	return nil
}

// withReplays appends a resend of every n-th log with the same idempotency
// key; the service must report those as duplicates.
func withReplays(logs []LogRequest, every int) []LogRequest {
	out := append([]LogRequest(nil), logs...)
	if every < 1 {
		return out
	}
	for i := 0; i < len(logs); i += every {
		out = append(out, logs[i])
	}
	return out
}

// submitLogs posts logs concurrently. Individual failures are counted,
// not fatal; the run fails afterwards when any submission was lost.
func submitLogs(ctx context.Context, c *HTTPClient, cfg *Config, logs []LogRequest, stats *Stats) error {
	work := withReplays(logs, replayEvery)
	logger.Get().Info(ctx, "submitting logs",
		logger.Int("logs", len(logs)),
		logger.Int("requests", len(work)),
		logger.Int("workers", cfg.Workers))

	var accepted, duplicate, failed, submitted atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, l := range work {
		g.Go(func() error {
			res, err := c.submitLog(gctx, l)
			n := submitted.Add(1)
			switch res {
			case outcomeAccepted:
				accepted.Add(1)
			case outcomeDuplicate:
				duplicate.Add(1)
			default:
				failed.Add(1)
				logger.Get().Warn(gctx, "submission failed",
					logger.String("runnerID", l.RunnerID),
					logger.String("date", l.Date),
					logger.Error(err))
			}
			if cfg.Verbose && n%500 == 0 {
				logger.Get().Info(gctx, "progress",
					logger.Int("submitted", int(n)),
					logger.Int("total", len(work)))
			}
			return gctx.Err()
		})
	}
	waitErr := g.Wait()

	stats.LogsSubmitted = int(submitted.Load())
	stats.LogsAccepted = int(accepted.Load())
	stats.LogsDuplicate = int(duplicate.Load())
	stats.LogsFailed = int(failed.Load())

	logger.Get().Info(ctx, "log submission completed",
		logger.Int("accepted", stats.LogsAccepted),
		logger.Int("duplicate", stats.LogsDuplicate),
		logger.Int("failed", stats.LogsFailed))

	if waitErr != nil {
		return waitErr
	}
	if stats.LogsFailed > 0 {
		return fmt.Errorf("%d submissions failed", stats.LogsFailed)
	}
	return nil
}

// awaitRanking polls GET /ranking until it matches expected or settle
// elapses, and returns the last ranking served.
func awaitRanking(ctx context.Context, c *HTTPClient, expected []Entry, settle time.Duration) ([]Entry, error) {
	logger.Get().Info(ctx, "waiting for logs to be applied", logger.Duration("settle", settle))

	deadline := time.Now().Add(settle)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var got []Entry
	for {
		got = got[:0]
		if err := c.JSON(ctx, http.MethodGet, "/ranking", nil, &got); err != nil {
			return nil, err
		}
		if matches(expected, got) || time.Now().After(deadline) {
			return got, nil
		}
		select {
		case <-ctx.Done():
			return got, errors.Join(ctx.Err(), fmt.Errorf("ranking not settled"))
		case <-ticker.C:
		}
	}
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var acceptRate, perSecond float64
	if stats.LogsSubmitted > 0 {
		acceptRate = float64(stats.LogsAccepted) / float64(stats.LogsSubmitted) * percentageFactor
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.LogsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("runnersSeeded", stats.RunnersSeeded),
		logger.Int("logsGenerated", stats.LogsGenerated),
		logger.Int("logsSubmitted", stats.LogsSubmitted),
		logger.Int("logsAccepted", stats.LogsAccepted),
		logger.Int("logsDuplicate", stats.LogsDuplicate),
		logger.Int("logsFailed", stats.LogsFailed),
		logger.Int("rankingEntries", stats.RankingEntries),
		logger.Duration("duration", stats.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("logsPerSecond", perSecond))
}

func displayTop(ctx context.Context, entries []Entry, verbose bool) {
	n := 5
	if verbose {
		n = len(entries)
	}
	for _, e := range entries[:min(n, len(entries))] {
		logger.Get().Info(ctx, "ranking",
			logger.Int("rank", e.Rank),
			logger.String("runner", e.DisplayName),
			logger.Float64("km", e.Total))
	}
}
