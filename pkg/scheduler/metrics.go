package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Render outcomes recorded by Metrics.
const (
	OutcomeCompleted  = "completed"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
	OutcomeRejected   = "rejected"
)

// MetricsConfig configures scheduler metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "fibre").
	Namespace string

	// Subsystem is the metrics subsystem (default: "scheduler").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures scheduler metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the render duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "fibre",
		Subsystem: "scheduler",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for a scheduler.
// A nil *Metrics records nothing.
type Metrics struct {
	units          prometheus.Counter
	slices         prometheus.Counter
	yields         prometheus.Counter
	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	renderFibers   prometheus.Histogram
}

// NewMetrics creates and registers scheduler metrics:
//   - fibre_scheduler_units_total: units of work performed
//   - fibre_scheduler_slices_total: idle slices granted while work was pending
//   - fibre_scheduler_yields_total: slices that ended with work remaining
//   - fibre_scheduler_renders_total: renders by outcome
//   - fibre_scheduler_render_duration_seconds: request-to-end render time
//   - fibre_scheduler_render_fibers: fibers allocated per completed render
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		units: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "units_total",
			Help:        "Total number of fiber units of work performed",
			ConstLabels: config.ConstLabels,
		}),

		slices: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "slices_total",
			Help:        "Total number of idle slices granted while work was pending",
			ConstLabels: config.ConstLabels,
		}),

		yields: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "yields_total",
			Help:        "Total number of slices that exhausted their budget with work remaining",
			ConstLabels: config.ConstLabels,
		}),

		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of render requests by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Time from render request to completion, failure or supersession",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		renderFibers: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_fibers",
			Help:        "Fibers allocated per completed render",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

func (m *Metrics) recordSlice(units int, yielded bool) {
	if m == nil {
		return
	}
	m.slices.Inc()
	m.units.Add(float64(units))
	if yielded {
		m.yields.Inc()
	}
}

func (m *Metrics) recordRender(outcome string, seconds float64, fibers int) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(outcome).Inc()
	if outcome == OutcomeRejected {
		return
	}
	m.renderDuration.Observe(seconds)
	if outcome == OutcomeCompleted {
		m.renderFibers.Observe(float64(fibers))
	}
}
