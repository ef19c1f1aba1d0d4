package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/trackload/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverSQLite)
			convey.So(cfg.ExcludedRunners, convey.ShouldResemble, []string{"admin"})
			convey.So(cfg.PainThreshold, convey.ShouldEqual, 3)
			convey.So(cfg.DailyWindowDays, convey.ShouldEqual, 14)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "trackload")
			convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "engine")
			convey.So(cfg.LatencyBucketsMs, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(cfg.Location(), convey.ShouldEqual, time.UTC)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":     func(c *config.Config) { c.Addr = " " },
			"unknown driver": func(c *config.Config) { c.StoreDriver = "mysql" },
			"zero window":    func(c *config.Config) { c.DailyWindowDays = 0 },
			"bad timezone":   func(c *config.Config) { c.Timezone = "Not/AZone" },
			"bad namespace":  func(c *config.Config) { c.MetricsNamespace = "track-load" },
			"no subsystem":   func(c *config.Config) { c.MetricsSubsystem = "" },
			"equal buckets":  func(c *config.Config) { c.LatencyBucketsMs = []float64{1, 1} },
			"zero bucket":    func(c *config.Config) { c.LatencyBucketsMs = []float64{0, 1} },
		}

		for _, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		}
	})

	convey.Convey("Given an unloadable timezone", t, func() {
		cfg := config.New()
		cfg.Timezone = "Not/AZone"

		convey.Convey("Then Location falls back to UTC", func() {
			convey.So(cfg.Location(), convey.ShouldEqual, time.UTC)
		})
	})
}
