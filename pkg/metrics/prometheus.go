// Package metrics provides Prometheus metrics for the compdash widget service.
package metrics

import (
	"math"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Rail values are percentiles; the 40/60/75 tier cut points get their own buckets.
var defaultRailBuckets = RailBuckets(40, 60, 75) //nolint:gochecknoglobals // bucket layout

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	railBuckets      []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Widget metrics
	railRenders  *prometheus.CounterVec
	railValues   prometheus.Histogram
	badgeRenders *prometheus.CounterVec

	// Sample export metrics
	sampleDownloads     *prometheus.CounterVec
	sampleDownloadBytes prometheus.Counter
	downloadRefsCreated prometheus.Counter
	downloadRefsRevoked prometheus.Counter
	downloadRefsLive    prometheus.Gauge
	sampleDriftDetected *prometheus.GaugeVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure replaces the global manager with one built from opts on a fresh
// registry, which GetRegistry then returns. Call it before serving; the
// Record helpers do not synchronize with it.
func Configure(opts ...Option) {
	reg := prometheus.NewRegistry()
	all := make([]Option, 0, len(opts)+1)
	all = append(all, opts...)
	globalManager = NewManager(append(all, WithPrometheusRegistry(reg))...)
	customRegistry = reg
}

// RailBuckets returns decile buckets from 0 to 100 with each finite
// threshold inserted, sorted and deduplicated.
func RailBuckets(thresholds ...float64) []float64 {
	buckets := make([]float64, 0, 11+len(thresholds))
	for i := 0; i <= 100; i += 10 {
		buckets = append(buckets, float64(i))
	}
	for _, t := range thresholds {
		if !math.IsNaN(t) && !math.IsInf(t, 0) {
			buckets = append(buckets, t)
		}
	}
	slices.Sort(buckets)
	return slices.Compact(buckets)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "compdash",
		subsystem:        "widgets",
		histogramBuckets: prometheus.DefBuckets,
		railBuckets:      defaultRailBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(base string) string {
	if m.metricPrefix == "" {
		return base
	}
	return m.metricPrefix + "_" + base
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.railRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("rail_renders_total"),
		Help:        "Metric rails rendered, by severity tier",
		ConstLabels: constLabels,
	}, []string{"tier"})

	m.railValues = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("rail_value"),
		Help:        "Raw values submitted to metric rails",
		Buckets:     m.railBuckets,
		ConstLabels: constLabels,
	})

	m.badgeRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("badge_renders_total"),
		Help:        "Badges rendered, by variant",
		ConstLabels: constLabels,
	}, []string{"variant"})

	m.sampleDownloads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("sample_downloads_total"),
		Help:        "Sample CSV downloads, by dataset and outcome",
		ConstLabels: constLabels,
	}, []string{"dataset", "outcome"})

	m.sampleDownloadBytes = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("sample_download_bytes_total"),
		Help:        "Bytes emitted by sample CSV downloads",
		ConstLabels: constLabels,
	})

	m.downloadRefsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("download_refs_created_total"),
		Help:        "Temporary download references created",
		ConstLabels: constLabels,
	})

	m.downloadRefsRevoked = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("download_refs_revoked_total"),
		Help:        "Temporary download references revoked",
		ConstLabels: constLabels,
	})

	m.downloadRefsLive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("download_refs_live"),
		Help:        "Temporary download references not yet revoked",
		ConstLabels: constLabels,
	})

	m.sampleDriftDetected = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("sample_schema_drift"),
		Help:        "1 when a sample dataset's rows disagree with its schema",
		ConstLabels: constLabels,
	}, []string{"dataset"})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_component_total"),
			Help:        "Errors by component",
			ConstLabels: constLabels,
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_type_total"),
			Help:        "Errors by type and severity",
			ConstLabels: constLabels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_endpoint_total"),
			Help:        "Errors by HTTP endpoint",
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("error_latency_milliseconds"),
			Help:        "Latency of failed operations in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: constLabels,
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "Heap bytes allocated",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "Average GC pause time in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})
}

// Widget metrics.

// RecordRailRender counts a rendered rail and observes its raw value.
func RecordRailRender(tier string, value float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.railRenders.WithLabelValues(tier).Inc()
	globalManager.railValues.Observe(value)
}

// RecordBadgeRender counts a rendered badge.
func RecordBadgeRender(variant string) {
	if !globalManager.enabled {
		return
	}
	globalManager.badgeRenders.WithLabelValues(variant).Inc()
}

// Sample export metrics.

// RecordSampleDownload counts a sample download attempt.
func RecordSampleDownload(dataset, outcome string, bytes int) {
	if !globalManager.enabled {
		return
	}
	globalManager.sampleDownloads.WithLabelValues(dataset, outcome).Inc()
	if bytes > 0 {
		globalManager.sampleDownloadBytes.Add(float64(bytes))
	}
}

// RecordDownloadRefCreated counts a created temporary reference.
func RecordDownloadRefCreated() {
	if !globalManager.enabled {
		return
	}
	globalManager.downloadRefsCreated.Inc()
}

// RecordDownloadRefRevoked counts a revoked temporary reference.
func RecordDownloadRefRevoked() {
	if !globalManager.enabled {
		return
	}
	globalManager.downloadRefsRevoked.Inc()
}

// UpdateDownloadRefsLive sets the number of outstanding references.
func UpdateDownloadRefsLive(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.downloadRefsLive.Set(float64(count))
}

// UpdateSampleDrift flags (or clears) schema drift for a dataset.
func UpdateSampleDrift(dataset string, drifted bool) {
	if !globalManager.enabled {
		return
	}
	v := 0.0
	if drifted {
		v = 1
	}
	globalManager.sampleDriftDetected.WithLabelValues(dataset).Set(v)
}

// HTTP metrics.

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error metrics.

// RecordErrorByComponent counts an error raised by a component.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint counts an error returned by an HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency observes how long a failed operation took.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System metrics.

// UpdateSystemMemoryUsage sets allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval returns how often gauges should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
