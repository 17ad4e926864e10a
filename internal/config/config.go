// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers a YAML file and environment on top.
// - Functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"time"
)

// Default configuration values.
const (
	defaultAddr         = ":9090"
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultDangerAbove  = 75.0
	defaultCautionAbove = 60.0
	defaultGoodAbove    = 40.0
	defaultSamplesDir   = "samples"

	defaultMetricsNamespace = "compdash"
	defaultMetricsSubsystem = "widgets"
	defaultMetricsRefresh   = 10 * time.Second
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// RailDangerAbove, RailCautionAbove and RailGoodAbove are the default
	// metric rail thresholds for requests that do not send their own.
	RailDangerAbove  float64 `koanf:"rail_danger_above"`
	RailCautionAbove float64 `koanf:"rail_caution_above"`
	RailGoodAbove    float64 `koanf:"rail_good_above"`

	// SamplesDir is where the sample-export CLI writes files by default.
	SamplesDir string `koanf:"samples_dir"`

	// Metrics settings. Names are <namespace>_<subsystem>[_<prefix>]_<metric>.
	MetricsEnabled         bool              `koanf:"metrics_enabled"`
	MetricsNamespace       string            `koanf:"metrics_namespace"`
	MetricsSubsystem       string            `koanf:"metrics_subsystem"`
	MetricsPrefix          string            `koanf:"metrics_prefix"`
	MetricsRefreshInterval time.Duration     `koanf:"metrics_refresh_interval"`
	MetricsLatencyBuckets  []float64         `koanf:"metrics_latency_buckets"`
	MetricsLabels          map[string]string `koanf:"metrics_labels"`
}

// New creates a Config holding the defaults. Context is accepted first to
// follow the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         defaultLogLevel,
		LogFormat:        defaultLogFormat,
		Addr:             defaultAddr,
		RailDangerAbove:  defaultDangerAbove,
		RailCautionAbove: defaultCautionAbove,
		RailGoodAbove:    defaultGoodAbove,
		SamplesDir:       defaultSamplesDir,

		MetricsEnabled:         true,
		MetricsNamespace:       defaultMetricsNamespace,
		MetricsSubsystem:       defaultMetricsSubsystem,
		MetricsRefreshInterval: defaultMetricsRefresh,
	}
}
