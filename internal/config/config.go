// Package config defines service configuration and how it is loaded.
package config

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of workers applying submissions.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many idempotency keys are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// StoreDriver is sqlite or postgres; StoreDSN is passed to the driver.
	StoreDriver string `koanf:"store_driver"`
	StoreDSN    string `koanf:"store_dsn"`

	// ExcludedRunners lists administrative accounts kept out of every view.
	ExcludedRunners []string `koanf:"excluded_runners"`

	// PainThreshold is the pain level that raises a digest alert.
	PainThreshold int `koanf:"pain_threshold"`

	// DailyWindowDays is the length of the per-runner recent-activity window.
	DailyWindowDays int `koanf:"daily_window_days"`

	// MaxRankingLimit caps GET /ranking?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// Timezone decides which calendar day "today" is.
	Timezone string `koanf:"timezone"`

	// MetricsNamespace and MetricsSubsystem prefix every exported metric.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// LatencyBucketsMs overrides the latency histogram buckets. Empty keeps
	// the built-in ones.
	LatencyBucketsMs []float64 `koanf:"latency_buckets_ms"`
}

var metricPart = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		QueueSize:       10_000,
		WorkerCount:     runtime.NumCPU(),
		DedupeSize:      100_000,
		StoreDriver:     DriverSQLite,
		StoreDSN:        "trackload.db",
		ExcludedRunners: []string{"admin"},
		PainThreshold:   3,
		DailyWindowDays: 14,
		MaxRankingLimit: 100,
		Timezone:        "UTC",

		MetricsNamespace: "trackload",
		MetricsSubsystem: "engine",
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StoreDriver != DriverSQLite && c.StoreDriver != DriverPostgres:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	case c.DailyWindowDays <= 0:
		return fmt.Errorf("%w: daily_window_days must be positive", ErrInvalidConfig)
	case !metricPart.MatchString(c.MetricsNamespace):
		return fmt.Errorf("%w: metrics_namespace %q", ErrInvalidConfig, c.MetricsNamespace)
	case !metricPart.MatchString(c.MetricsSubsystem):
		return fmt.Errorf("%w: metrics_subsystem %q", ErrInvalidConfig, c.MetricsSubsystem)
	case !increasing(c.LatencyBucketsMs):
		return fmt.Errorf("%w: latency_buckets_ms must be positive and strictly increasing", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return nil
}

func increasing(buckets []float64) bool {
	prev := 0.0
	for _, b := range buckets {
		if b <= prev {
			return false
		}
		prev = b
	}
	return true
}

// Location returns the configured time zone, UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
