package scheduler

import (
	"log/slog"
	"time"

	"github.com/vango-dev/fibre/pkg/fiber"
	"github.com/vango-dev/fibre/pkg/host"
	"go.opentelemetry.io/otel/trace"
)

// DefaultThreshold is the minimum remaining slice time needed to start a unit of work.
const DefaultThreshold = time.Millisecond

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithThreshold sets the minimum remaining time required to perform a unit.
func WithThreshold(d time.Duration) Option {
	return func(s *Scheduler) {
		s.threshold = d
	}
}

// WithPolicy sets the multi-render policy.
func WithPolicy(p Policy) Option {
	return func(s *Scheduler) {
		s.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used for render spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Scheduler) {
		s.tracer = tracer
	}
}

// WithMaterializer replaces the default host materializer.
func WithMaterializer(m fiber.Materializer) Option {
	return func(s *Scheduler) {
		s.mat = m
	}
}

// WithProperties sets the property table used by the default materializer.
func WithProperties(props *host.PropertyTable) Option {
	return func(s *Scheduler) {
		s.props = props
	}
}
