// Package metrics provides Prometheus metrics for the wastewater pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons reported by RecordRowsDropped.
const (
	ReasonOldMethod = "old_method"
	ReasonOutlier   = "outlier"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	latencyBuckets []float64
	httpBuckets    []float64
	enabled        bool
	customLabels   map[string]string
	registry       prometheus.Registerer

	// Pipeline Metrics - rows in, rows out and why rows were dropped
	rowsRead     prometheus.Counter
	rowsDropped  *prometheus.CounterVec
	rowsCleaned  prometheus.Counter
	cleanLatency prometheus.Histogram

	// Chart Metrics
	renderLatency  prometheus.Histogram
	chartsRendered *prometheus.CounterVec
	trendPoints    prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec

	// System Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:      "wastewater",
		subsystem:      "pipeline",
		latencyBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		httpBuckets:    prometheus.DefBuckets,
		enabled:        true,
		customLabels:   make(map[string]string),
		registry:       prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.rowsRead = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_read_total",
		Help:        "Total number of raw rows handed to the cleaner",
		ConstLabels: labels,
	})

	m.rowsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_dropped_total",
		Help:        "Total number of raw rows removed by the cleaner, by reason",
		ConstLabels: labels,
	}, []string{"reason"})

	m.rowsCleaned = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_cleaned_total",
		Help:        "Total number of rows in cleaned tables",
		ConstLabels: labels,
	})

	m.cleanLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "clean_latency_milliseconds",
		Help:        "Histogram of load plus clean latency in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: labels,
	})

	m.renderLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "render_latency_milliseconds",
		Help:        "Histogram of figure build latency in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: labels,
	})

	m.chartsRendered = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "charts_rendered_total",
		Help:        "Total number of charts encoded, by image format",
		ConstLabels: labels,
	}, []string{"format"})

	m.trendPoints = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "trend_points",
		Help:        "Number of points on the most recently fitted trend line",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_seconds",
		Help:        "HTTP request duration in seconds",
		Buckets:     m.httpBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Total number of errors by component and error type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "Current heap memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Current number of goroutines",
		ConstLabels: labels,
	})
}

// RecordRowsRead adds n raw rows.
func (m *Manager) RecordRowsRead(n int) {
	if m.enabled {
		m.rowsRead.Add(float64(n))
	}
}

// RecordRowsDropped adds n rows dropped for reason.
func (m *Manager) RecordRowsDropped(reason string, n int) {
	if m.enabled {
		m.rowsDropped.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordRowsCleaned adds n rows kept by the cleaner.
func (m *Manager) RecordRowsCleaned(n int) {
	if m.enabled {
		m.rowsCleaned.Add(float64(n))
	}
}

// RecordCleanLatency records clean latency in milliseconds.
func (m *Manager) RecordCleanLatency(latencyMs float64) {
	if m.enabled {
		m.cleanLatency.Observe(latencyMs)
	}
}

// RecordRenderLatency records figure build latency in milliseconds.
func (m *Manager) RecordRenderLatency(latencyMs float64) {
	if m.enabled {
		m.renderLatency.Observe(latencyMs)
	}
}

// RecordChartRendered counts one chart encoded as format.
func (m *Manager) RecordChartRendered(format string) {
	if m.enabled {
		m.chartsRendered.WithLabelValues(format).Inc()
	}
}

// UpdateTrendPoints sets the size of the latest trend line.
func (m *Manager) UpdateTrendPoints(n int) {
	if m.enabled {
		m.trendPoints.Set(float64(n))
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration in seconds.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByComponent counts an error raised by component.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if m.enabled {
		m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if m.enabled {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// Package-level helpers record on the global manager.

// RecordRowsRead adds n raw rows.
func RecordRowsRead(n int) { globalManager.RecordRowsRead(n) }

// RecordRowsDropped adds n rows dropped for reason.
func RecordRowsDropped(reason string, n int) { globalManager.RecordRowsDropped(reason, n) }

// RecordRowsCleaned adds n rows kept by the cleaner.
func RecordRowsCleaned(n int) { globalManager.RecordRowsCleaned(n) }

// RecordCleanLatency records clean latency in milliseconds.
func RecordCleanLatency(latencyMs float64) { globalManager.RecordCleanLatency(latencyMs) }

// RecordRenderLatency records figure build latency in milliseconds.
func RecordRenderLatency(latencyMs float64) { globalManager.RecordRenderLatency(latencyMs) }

// RecordChartRendered counts one chart encoded as format.
func RecordChartRendered(format string) { globalManager.RecordChartRendered(format) }

// UpdateTrendPoints sets the size of the latest trend line.
func UpdateTrendPoints(n int) { globalManager.UpdateTrendPoints(n) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, duration)
}

// RecordErrorByComponent counts an error raised by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
