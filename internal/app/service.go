// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/compdash/internal/adapters/download"
	"github.com/okian/compdash/internal/domain/policy"
	"github.com/okian/compdash/internal/domain/sample"
	"github.com/okian/compdash/internal/domain/severity"
	"github.com/okian/compdash/pkg/logger"
	"github.com/okian/compdash/pkg/metrics"
)

// Service implements the API dependencies for the widget dashboard.
type Service struct {
	mu sync.RWMutex

	classifier *severity.Classifier
	registry   *download.Registry

	// Configuration
	thresholds severity.Thresholds

	// State
	started   bool
	drifted   []string
	rails     atomic.Int64
	downloads atomic.Int64
	failures  atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithThresholds sets the default rail thresholds. A zero value keeps 75/60/40.
func WithThresholds(t severity.Thresholds) Option {
	return func(s *Service) {
		if !t.IsZero() {
			s.thresholds = t
		}
	}
}

// WithRegistry sets the download reference registry.
func WithRegistry(r *download.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		thresholds: severity.DefaultThresholds(),
		logger:     logger.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.classifier = severity.NewClassifier(severity.WithThresholds(s.thresholds))
	if s.registry == nil {
		s.registry = download.NewRegistry()
	}
	return s
}

// Start checks the static samples against their schemas. Drift is logged
// and exported as a metric; it never blocks startup.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	log := s.log()
	log.Info(ctx, "starting widget service...")

	s.drifted = s.drifted[:0]
	for _, d := range sample.All() {
		err := d.CheckArity()
		metrics.UpdateSampleDrift(d.Name, err != nil)
		if err != nil {
			s.drifted = append(s.drifted, d.Name)
			log.Warn(ctx, "sample dataset drifted from its schema",
				logger.String("dataset", d.Name),
				logger.Error(err),
			)
		}
	}

	s.started = true
	log.Info(ctx, "widget service started",
		logger.Float64("dangerAbove", s.thresholds.Danger),
		logger.Float64("cautionAbove", s.thresholds.Caution),
		logger.Float64("goodAbove", s.thresholds.Good),
	)
	return nil
}

// Stop marks the service stopped. Outstanding download references are
// reported; each is revoked by the call that created it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.log().Info(context.Background(), "widget service stopped",
		logger.Int("liveRefs", s.registry.Live()),
	)
	s.started = false
}

// DefaultThresholds returns the thresholds applied to readings that carry none.
func (s *Service) DefaultThresholds() severity.Thresholds {
	return s.classifier.Defaults()
}

// Rail renders a metric reading.
func (s *Service) Rail(ctx context.Context, r severity.MetricReading) severity.Rail {
	rail := s.classifier.Rail(r)
	s.rails.Add(1)
	s.log().Debug(ctx, "rail rendered",
		logger.String("label", rail.Label),
		logger.Float64("value", rail.Value),
		logger.String("tier", rail.Tier.String()),
	)
	return rail
}

// Chips returns every policy status with its chip.
func (s *Service) Chips(_ context.Context) []policy.Entry {
	return policy.Entries()
}

// Samples returns every sample dataset.
func (s *Service) Samples(_ context.Context) []sample.Dataset {
	return sample.All()
}

// DownloadSample emits the named sample through saver.
func (s *Service) DownloadSample(ctx context.Context, name string, saver download.Saver) error {
	d, err := sample.Lookup(name)
	if err != nil {
		return err
	}

	start := time.Now()
	csv := d.CSV()
	if err := download.AsFile(ctx, s.registry, saver, d.Filename, csv); err != nil {
		s.failures.Add(1)
		metrics.RecordSampleDownload(d.Name, "error", 0)
		metrics.RecordErrorByComponent("download", "emit")
		metrics.RecordErrorLatency("download", "emit", float64(time.Since(start).Microseconds())/1e3)
		s.log().Error(ctx, "sample download failed",
			logger.String("dataset", d.Name),
			logger.Error(err),
		)
		return fmt.Errorf("download %s: %w", d.Filename, err)
	}

	s.downloads.Add(1)
	metrics.RecordSampleDownload(d.Name, "ok", len(csv))
	s.log().Info(ctx, "sample downloaded",
		logger.String("dataset", d.Name),
		logger.String("filename", d.Filename),
		logger.Int("bytes", len(csv)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// GetStats returns service statistics.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	drifted := append([]string(nil), s.drifted...)
	s.mu.RUnlock()

	refs := s.registry.Stats()
	return map[string]interface{}{
		"started":          started,
		"railsRendered":    s.rails.Load(),
		"sampleDownloads":  s.downloads.Load(),
		"downloadFailures": s.failures.Load(),
		"refsCreated":      refs.Created,
		"refsRevoked":      refs.Revoked,
		"refsLive":         refs.Live,
		"driftedSamples":   drifted,
		"thresholds":       s.classifier.Defaults(),
	}
}

func (s *Service) log() logger.Logger {
	return s.logger
}
