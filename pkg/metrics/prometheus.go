// Package metrics provides Prometheus metrics for the decathlon scoring pipeline.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons used as the "reason" label of rows_dropped_total.
const (
	DropUnparseable = "unparseable"
	DropOther       = "other"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	pointsBuckets    []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Pipeline Metrics
	rowsRead          prometheus.Counter
	rowsDropped       *prometheus.CounterVec
	rowsScored        prometheus.Counter
	eventPoints       *prometheus.HistogramVec
	pipelineDuration  prometheus.Histogram
	competitorsRanked prometheus.Gauge
	tieGroups         prometheus.Gauge
	lastRunUnix       prometheus.Gauge

	// Repository Metrics
	snapshotsPublished     prometheus.Counter
	repositoryQueryLatency prometheus.Histogram

	// HTTP Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "decathlon",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		pointsBuckets:    prometheus.LinearBuckets(0, 100, 13), // 0..1200 points
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.rowsRead = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_read_total",
		Help:        "Total number of competitor rows read from input",
		ConstLabels: labels,
	})

	m.rowsDropped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "rows_dropped_total",
			Help:        "Total number of rows dropped before ranking, by reason",
			ConstLabels: labels,
		},
		[]string{"reason"},
	)

	m.rowsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_scored_total",
		Help:        "Total number of rows that produced a valid total score",
		ConstLabels: labels,
	})

	m.eventPoints = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "event_points",
			Help:        "Distribution of points awarded per event",
			Buckets:     m.pointsBuckets,
			ConstLabels: labels,
		},
		[]string{"event"},
	)

	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duration_milliseconds",
		Help:        "Duration of one batch run in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.competitorsRanked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "competitors_ranked",
		Help:        "Number of competitors in the last ranked result set",
		ConstLabels: labels,
	})

	m.tieGroups = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tie_groups",
		Help:        "Number of shared places in the last ranked result set",
		ConstLabels: labels,
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_unix",
		Help:        "Unix timestamp of the last completed batch run",
		ConstLabels: labels,
	})

	m.snapshotsPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "repository_snapshots_published_total",
		Help:        "Total number of result sets published to the read store",
		ConstLabels: labels,
	})

	m.repositoryQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "repository_query_latency_milliseconds",
		Help:        "Read store query latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_total",
			Help:        "Errors by component and type",
			ConstLabels: labels,
		},
		[]string{"component", "type"},
	)
}

// RowsRead adds n to the rows read counter.
func (m *Manager) RowsRead(n int) {
	if m.enabled && n > 0 {
		m.rowsRead.Add(float64(n))
	}
}

// RowDropped increments the dropped rows counter for reason.
func (m *Manager) RowDropped(reason string) {
	if m.enabled {
		m.rowsDropped.WithLabelValues(reason).Inc()
	}
}

// RowScored increments the scored rows counter.
func (m *Manager) RowScored() {
	if m.enabled {
		m.rowsScored.Inc()
	}
}

// EventPoints observes the points awarded for one event.
func (m *Manager) EventPoints(event string, points float64) {
	if m.enabled {
		m.eventPoints.WithLabelValues(event).Observe(points)
	}
}

// RunCompleted records the outcome of a batch run.
func (m *Manager) RunCompleted(ranked, ties int, duration time.Duration, at time.Time) {
	if !m.enabled {
		return
	}
	m.competitorsRanked.Set(float64(ranked))
	m.tieGroups.Set(float64(ties))
	m.pipelineDuration.Observe(float64(duration) / float64(time.Millisecond))
	m.lastRunUnix.Set(float64(at.Unix()))
}

// SnapshotPublished increments the published snapshots counter.
func (m *Manager) SnapshotPublished() {
	if m.enabled {
		m.snapshotsPublished.Inc()
	}
}

// RepositoryQueryLatency records read store latency in milliseconds.
func (m *Manager) RepositoryQueryLatency(latencyMs float64) {
	if m.enabled {
		m.repositoryQueryLatency.Observe(latencyMs)
	}
}

// HTTPRequest records one request and its duration in milliseconds.
func (m *Manager) HTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// ErrorByComponent increments the error counter.
func (m *Manager) ErrorByComponent(component, errorType string) {
	if m.enabled {
		m.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordRowsRead adds n to the global rows read counter.
func RecordRowsRead(n int) { globalManager.RowsRead(n) }

// RecordRowDropped increments the global dropped rows counter.
func RecordRowDropped(reason string) { globalManager.RowDropped(reason) }

// RecordRowScored increments the global scored rows counter.
func RecordRowScored() { globalManager.RowScored() }

// RecordEventPoints observes points for one event on the global manager.
func RecordEventPoints(event string, points float64) { globalManager.EventPoints(event, points) }

// RecordRunCompleted records a finished batch run on the global manager.
func RecordRunCompleted(ranked, ties int, duration time.Duration, at time.Time) {
	globalManager.RunCompleted(ranked, ties, duration, at)
}

// RecordSnapshotPublished increments the global published snapshots counter.
func RecordSnapshotPublished() { globalManager.SnapshotPublished() }

// RecordRepositoryQueryLatency records read store latency on the global manager.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.RepositoryQueryLatency(latencyMs)
}

// RecordHTTPRequest records one HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.HTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByComponent increments the global error counter.
func RecordErrorByComponent(component, errorType string) {
	globalManager.ErrorByComponent(component, errorType)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the global registry in the text exposition format,
// suitable for the node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
