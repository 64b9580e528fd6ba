package metrics

import (
	"maps"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager before its metrics are registered.
type Option func(*Manager)

// WithNamespace replaces the "wastewater" metric name prefix.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem replaces the "pipeline" metric name segment.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithLatencyBuckets sets the millisecond buckets of the clean and render
// latency histograms. Unsorted or empty bucket lists are ignored.
func WithLatencyBuckets(ms []float64) Option {
	return func(m *Manager) {
		if len(ms) > 0 && slices.IsSorted(ms) {
			m.latencyBuckets = slices.Clone(ms)
		}
	}
}

// WithHTTPBuckets sets the second buckets of the request duration histogram.
// Unsorted or empty bucket lists are ignored.
func WithHTTPBuckets(seconds []float64) Option {
	return func(m *Manager) {
		if len(seconds) > 0 && slices.IsSorted(seconds) {
			m.httpBuckets = slices.Clone(seconds)
		}
	}
}

// WithMetricsEnabled turns recording on or off. Metrics are still registered.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithCustomLabels attaches constant labels, such as the deployment site, to
// every metric.
func WithCustomLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if len(labels) > 0 {
			m.customLabels = maps.Clone(labels)
		}
	}
}

// WithPrometheusRegistry registers the metrics with registry instead of the
// default registerer.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
