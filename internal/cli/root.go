// Package cli implements the trackload command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/trackload/internal/adapters/repository"
	service "github.com/okian/trackload/internal/app"
	"github.com/okian/trackload/internal/config"
	"github.com/okian/trackload/pkg/logger"
)

// App holds what commands share: configuration loading, output streams and
// terminal detection.
type App struct {
	// LoadConfig defaults to config.Load.
	LoadConfig func(ctx context.Context) (*config.Config, error)

	// IsInteractive reports whether stdout is a terminal.
	IsInteractive func() bool

	// Now defaults to time.Now.
	Now func() time.Time

	// LogWriter receives log output; defaults to stderr so command output
	// stays clean.
	LogWriter io.Writer

	cfg *config.Config
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// setup loads configuration and initializes the global logger.
func (a *App) setup(ctx context.Context, configPath, logLevel string) error {
	if configPath != "" {
		if err := os.Setenv(config.FileEnv, configPath); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}

	load := a.LoadConfig
	if load == nil {
		load = config.Load
	}
	cfg, err := load(ctx)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	a.cfg = cfg

	w := a.LogWriter
	if w == nil {
		w = os.Stderr
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(w)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// openService opens the configured store and returns a service reading
// from it without starting the worker pool.
func (a *App) openService(ctx context.Context) (*service.Service, func(), error) {
	log := logger.Get()
	store, err := repository.Open(ctx, a.cfg.StoreDriver, a.cfg.StoreDSN,
		repository.WithLogger(log.Named("store")),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	opts := append(service.FromConfig(a.cfg),
		service.WithStore(store),
		service.WithLogger(log),
		service.WithClock(a.now),
	)
	return service.New(opts...), func() { _ = store.Close() }, nil
}

// NewRootCmd creates the top-level "trackload" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	var configPath, logLevel string

	root := &cobra.Command{
		Use:           "trackload",
		Short:         "Training log aggregation and reporting for a running team",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd.Context(), configPath, logLevel)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides "+config.FileEnv+")")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newServeCmd(app),
		newReportCmd(app),
		newRankingCmd(app),
		newChecklistCmd(app),
		newQuartersCmd(app),
	)

	return root
}
