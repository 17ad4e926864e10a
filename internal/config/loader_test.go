package config_test

import (
	"context"
	"errors"
	"math"
	"os"
	"testing"
	"time"

	"github.com/okian/compdash/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.RailDangerAbove, convey.ShouldEqual, 75.0)
				convey.So(cfg.RailCautionAbove, convey.ShouldEqual, 60.0)
				convey.So(cfg.RailGoodAbove, convey.ShouldEqual, 40.0)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("COMPDASH_ADDR", ":8080")
			_ = os.Setenv("COMPDASH_LOG_FORMAT", "json")
			_ = os.Setenv("COMPDASH_RAIL_DANGER_ABOVE", "90")
			_ = os.Setenv("COMPDASH_RAIL_CAUTION_ABOVE", "70.5")
			_ = os.Setenv("COMPDASH_SAMPLES_DIR", "/tmp/out")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.RailDangerAbove, convey.ShouldEqual, 90.0)
				convey.So(cfg.RailCautionAbove, convey.ShouldEqual, 70.5)
				convey.So(cfg.RailGoodAbove, convey.ShouldEqual, 40.0)
				convey.So(cfg.SamplesDir, convey.ShouldEqual, "/tmp/out")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# thresholds for the percentile rails
addr: ":9191"
log_level: debug
rail_danger_above: 80
rail_caution_above: 65
rail_good_above: 45
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("COMPDASH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9191")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.RailDangerAbove, convey.ShouldEqual, 80.0)
				convey.So(cfg.RailCautionAbove, convey.ShouldEqual, 65.0)
				convey.So(cfg.RailGoodAbove, convey.ShouldEqual, 45.0)
			})
		})

		convey.Convey("When loading metrics settings from YAML and env", func() {
			yamlContent := `
metrics_namespace: cd
metrics_prefix: edge
metrics_latency_buckets: [0.5, 1, 5]
metrics_labels:
  region: west
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("COMPDASH_CONFIG", tmpFile)
			_ = os.Setenv("COMPDASH_METRICS_ENABLED", "false")
			_ = os.Setenv("COMPDASH_METRICS_REFRESH_INTERVAL", "30s")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then every metrics field should be populated", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "cd")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "widgets")
				convey.So(cfg.MetricsPrefix, convey.ShouldEqual, "edge")
				convey.So(cfg.MetricsLatencyBuckets, convey.ShouldResemble, []float64{0.5, 1, 5})
				convey.So(cfg.MetricsLabels["region"], convey.ShouldEqual, "west")
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MetricsRefreshInterval, convey.ShouldEqual, 30*time.Second)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9191"
rail_danger_above: 80
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("COMPDASH_CONFIG", tmpFile)
			_ = os.Setenv("COMPDASH_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")        // env
				convey.So(cfg.RailDangerAbove, convey.ShouldEqual, 80.0)  // file
				convey.So(cfg.RailCautionAbove, convey.ShouldEqual, 60.0) // default
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("COMPDASH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("COMPDASH_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("COMPDASH_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown log format", func() {
			_ = os.Setenv("COMPDASH_LOG_FORMAT", "xml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-numeric threshold", func() {
			_ = os.Setenv("COMPDASH_RAIL_GOOD_ABOVE", "high")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with descending-order violations", func() {
			_ = os.Setenv("COMPDASH_RAIL_DANGER_ABOVE", "10")
			_ = os.Setenv("COMPDASH_RAIL_GOOD_ABOVE", "90")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should accept them unchecked", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.RailDangerAbove, convey.ShouldEqual, 10.0)
				convey.So(cfg.RailGoodAbove, convey.ShouldEqual, 90.0)
			})
		})
	})
}

// Helper functions.

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When a threshold is not finite", func() {
			cfg.RailCautionAbove = math.NaN()
			err := cfg.Validate()

			convey.Convey("Then both sentinels should match and the key be named", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(errors.Is(err, config.ErrBadThreshold), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "rail_caution_above")
			})
		})

		convey.Convey("When every threshold is zero", func() {
			cfg.RailDangerAbove, cfg.RailCautionAbove, cfg.RailGoodAbove = 0, 0, 0
			err := cfg.Validate()

			convey.Convey("Then it should be rejected rather than fall back to defaults", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(errors.Is(err, config.ErrBadThreshold), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "all zero")
			})
		})

		convey.Convey("When only some thresholds are zero", func() {
			cfg.RailGoodAbove = 0

			convey.Convey("Then it should validate", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the metrics refresh interval is not positive", func() {
			cfg.MetricsRefreshInterval = 0

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When latency buckets are not increasing", func() {
			cfg.MetricsLatencyBuckets = []float64{1, 5, 5}

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When thresholds are out of order", func() {
			cfg.RailDangerAbove, cfg.RailGoodAbove = 10, 90

			convey.Convey("Then it should still validate", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	envVars := []string{
		"COMPDASH_CONFIG",
		"COMPDASH_ADDR",
		"COMPDASH_LOG_LEVEL",
		"COMPDASH_LOG_FORMAT",
		"COMPDASH_RAIL_DANGER_ABOVE",
		"COMPDASH_RAIL_CAUTION_ABOVE",
		"COMPDASH_RAIL_GOOD_ABOVE",
		"COMPDASH_SAMPLES_DIR",
		"COMPDASH_METRICS_ENABLED",
		"COMPDASH_METRICS_REFRESH_INTERVAL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "compdash-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
