// Command seed-logs fills a running trackload service with a generated
// roster and training log and verifies the ranking it serves.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/okian/trackload/internal/seedlogs"
	"github.com/okian/trackload/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("seed-logs", pflag.ContinueOnError)
	var (
		baseURL   = flags.String("url", seedlogs.DefaultBaseURL, "base URL of the service")
		runners   = flags.Int("runners", seedlogs.DefaultRunners, "number of runners to create")
		days      = flags.Int("days", seedlogs.DefaultDays, "length of the seeded period in days")
		startDate = flags.String("start", time.Now().AddDate(0, 0, -seedlogs.DefaultDays).Format("2006-01-02"), "first day of the period")
		workers   = flags.IntP("workers", "w", runtime.NumCPU()*2, "concurrent submitters")
		timeout   = flags.Duration("timeout", seedlogs.DefaultTimeout, "HTTP request timeout")
		settle    = flags.Duration("settle", seedlogs.DefaultSettle, "how long to wait for the ranking to settle")
		seed      = flags.Uint64("seed", 0, "generator seed (0 picks one)")
		logFile   = flags.String("log", "", "log file (default seed_log_TIMESTAMP.log)")
		logFormat = flags.String("log-format", "text", "log format: text or json")
		verbose   = flags.BoolP("verbose", "v", false, "log progress and the full ranking")
	)
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		os.Stderr.WriteString(err.Error() + "\n")
		return 2
	}

	closeLog, err := seedlogs.SetupLogging(*logFile, *logFormat)
	if err != nil {
		os.Stderr.WriteString("failed to set up logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := &seedlogs.Config{
		BaseURL:   *baseURL,
		Runners:   *runners,
		Days:      *days,
		StartDate: *startDate,
		Workers:   *workers,
		Timeout:   *timeout,
		Settle:    *settle,
		Seed:      *seed,
		Verbose:   *verbose,
	}
	if _, err := seedlogs.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "seeding run failed", logger.Error(err))
		return 1
	}
	return 0
}
