package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/element"
	"github.com/vango-dev/fibre/pkg/fiber"
	"github.com/vango-dev/fibre/pkg/host"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for render spans.
const defaultTracerName = "fibre"

// Scheduler performs fiber work for one render at a time within idle slices.
type Scheduler struct {
	host      host.Host
	idle      IdleHost
	mat       fiber.Materializer
	props     *host.PropertyTable
	threshold time.Duration
	policy    Policy
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer

	mu         sync.Mutex
	current    *Task
	cursor     fiber.ID
	queue      []*Task
	registered bool
	lastID     uint64
}

// New creates a Scheduler rendering into h and driven by idle.
func New(h host.Host, idle IdleHost, opts ...Option) *Scheduler {
	s := &Scheduler{
		host:      h,
		idle:      idle,
		threshold: DefaultThreshold,
		policy:    PolicySupersede,
		cursor:    fiber.None,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "scheduler")
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(defaultTracerName)
	}
	if s.mat == nil {
		s.mat = fiber.NewMaterializer(h, s.props)
	}
	return s
}

// Policy returns the multi-render policy.
func (s *Scheduler) Policy() Policy {
	return s.policy
}

// Threshold returns the minimum remaining time needed to start a unit.
func (s *Scheduler) Threshold() time.Duration {
	return s.threshold
}

// Render requests a render of el into container. See RenderContext.
func (s *Scheduler) Render(el *element.Element, container host.Node) (*Task, error) {
	return s.RenderContext(context.Background(), el, container)
}

// RenderContext requests a render of el into container. It validates el,
// applies the scheduler's policy, and registers for an idle slice; it does
// not perform any unit of work. ctx parents the render's trace span.
func (s *Scheduler) RenderContext(ctx context.Context, el *element.Element, container host.Node) (*Task, error) {
	tree, err := fiber.NewTree(s.host, s.mat, container, el)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.lastID++
	task := newTask(s.lastID, tree)

	if s.current != nil {
		switch s.policy {
		case PolicyReject:
			busy := s.current.ID
			s.mu.Unlock()
			s.metrics.recordRender(OutcomeRejected, 0, 0)
			s.logger.Warn("render rejected", "render_id", task.ID, "in_flight", busy)
			return nil, errors.New(errors.CodeRenderRejected).
				WithDetailf("render %d is in flight", busy)

		case PolicyQueue:
			s.queue = append(s.queue, task)
			s.logger.Debug("render queued", "render_id", task.ID, "queue_len", len(s.queue))
			s.mu.Unlock()
			return task, nil

		default:
			old := s.current
			s.finish(old, StateSuperseded, errors.New(errors.CodeRenderSuperseded).
				WithDetailf("render %d replaced by render %d", old.ID, task.ID))
		}
	}

	s.start(ctx, task)
	register := s.claimRegistration()
	s.mu.Unlock()

	if register {
		s.idle.RequestIdleCallback(s.WorkLoop)
	}
	return task, nil
}

// WorkLoop performs units of work while the cursor is set and d reports at
// least the threshold remaining. It re-registers with the idle host if work
// remains afterwards and goes dormant otherwise.
func (s *Scheduler) WorkLoop(d Deadline) {
	s.mu.Lock()
	s.registered = false

	if s.current == nil {
		s.mu.Unlock()
		return
	}

	units := 0
	active := s.current
	active.addSlice()
	sliceUnits := 0

	for s.current != nil && d.TimeRemaining() >= s.threshold {
		task := s.current
		next, err := task.tree.PerformUnitOfWork(s.cursor)
		task.addUnit()
		units++
		sliceUnits++

		switch {
		case err != nil:
			s.finish(task, StateFailed, err)
		case next == fiber.None:
			s.finish(task, StateCompleted, nil)
		default:
			s.cursor = next
			continue
		}

		s.endSlice(active, sliceUnits)
		s.promote()
		if s.current != nil {
			active = s.current
			active.addSlice()
			sliceUnits = 0
		}
	}

	yielded := s.current != nil
	if yielded {
		s.endSlice(active, sliceUnits)
	}
	s.metrics.recordSlice(units, yielded)
	register := s.claimRegistration()
	s.mu.Unlock()

	if register {
		s.idle.RequestIdleCallback(s.WorkLoop)
	}
}

// Busy reports whether a render is in flight.
func (s *Scheduler) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Current returns the in-flight task, or nil.
func (s *Scheduler) Current() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Cursor returns the next fiber of the in-flight render, or fiber.None.
func (s *Scheduler) Cursor() fiber.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Queued returns the number of renders waiting behind the current one.
func (s *Scheduler) Queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// start makes task the in-flight render. Caller holds s.mu.
func (s *Scheduler) start(ctx context.Context, task *Task) {
	_, span := s.tracer.Start(ctx, "fibre.render",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Int64("fibre.render_id", int64(task.ID))),
	)
	task.begin(span)
	s.current = task
	s.cursor = fiber.RootID
	s.logger.Debug("render started", "render_id", task.ID)
}

// promote starts the next queued render, if any. Caller holds s.mu.
func (s *Scheduler) promote() {
	if s.current != nil || len(s.queue) == 0 {
		return
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	s.start(context.Background(), next)
}

// finish ends task and clears the cursor if task owned it. Caller holds s.mu.
func (s *Scheduler) finish(task *Task, state State, err error) {
	if !task.end(state, err) {
		return
	}
	if s.current == task {
		s.current = nil
		s.cursor = fiber.None
	}

	outcome := OutcomeCompleted
	switch state {
	case StateFailed:
		outcome = OutcomeFailed
	case StateSuperseded:
		outcome = OutcomeSuperseded
	}
	s.metrics.recordRender(outcome, task.Duration().Seconds(), task.tree.Len())

	task.mu.Lock()
	span := task.span
	task.mu.Unlock()
	if span != nil {
		span.SetAttributes(
			attribute.Int("fibre.units", task.Units()),
			attribute.Int("fibre.slices", task.Slices()),
			attribute.Int("fibre.fibers", task.tree.Len()),
			attribute.String("fibre.outcome", outcome),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}

	attrs := []any{"render_id", task.ID, "units", task.Units(), "slices", task.Slices()}
	switch state {
	case StateFailed:
		s.logger.Error("render failed", append(attrs, "error", errors.Chain(err))...)
	case StateSuperseded:
		s.logger.Info("render superseded", attrs...)
	default:
		s.logger.Debug("render completed", append(attrs, "fibers", task.tree.Len())...)
	}
}

// endSlice records a slice event on task's span. Caller holds s.mu.
func (s *Scheduler) endSlice(task *Task, units int) {
	task.mu.Lock()
	span := task.span
	task.mu.Unlock()
	if span != nil {
		span.AddEvent("slice", trace.WithAttributes(attribute.Int("fibre.units", units)))
	}
}

// claimRegistration reports whether the caller must register with the idle
// host, marking the scheduler registered. Caller holds s.mu.
func (s *Scheduler) claimRegistration() bool {
	if s.current == nil || s.registered {
		return false
	}
	s.registered = true
	return true
}
