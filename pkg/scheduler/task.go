package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/vango-dev/fibre/pkg/fiber"
	"go.opentelemetry.io/otel/trace"
)

// State is a render task's lifecycle state.
type State uint8

const (
	StatePending    State = iota // Queued behind another render
	StateRunning                 // Owns the cursor
	StateCompleted               // Traversal exhausted the tree
	StateFailed                  // A host failure aborted the render
	StateSuperseded              // Abandoned for a newer render
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Task tracks one requested render.
type Task struct {
	// ID is unique per Scheduler, starting at 1.
	ID uint64

	tree *fiber.Tree
	done chan struct{}

	mu       sync.Mutex
	state    State
	err      error
	units    int
	slices   int
	started  time.Time
	finished time.Time
	span     trace.Span
}

func newTask(id uint64, tree *fiber.Tree) *Task {
	return &Task{
		ID:    id,
		tree:  tree,
		done:  make(chan struct{}),
		state: StatePending,
	}
}

// Done is closed when the task completes, fails or is superseded.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns nil while the task runs or after it completed, and the
// failure otherwise.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Wait blocks until the task ends or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Units returns the number of units of work performed for this task.
func (t *Task) Units() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.units
}

// Slices returns the number of idle slices in which this task did work or was due to.
func (t *Task) Slices() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.slices
}

// Duration returns the time from start to finish, or to now while running.
func (t *Task) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started.IsZero() {
		return 0
	}
	if t.finished.IsZero() {
		return time.Since(t.started)
	}
	return t.finished.Sub(t.started)
}

// Tree returns the task's fiber tree. It must not be inspected while the task runs.
func (t *Task) Tree() *fiber.Tree {
	return t.tree
}

func (t *Task) begin(span trace.Span) {
	t.mu.Lock()
	t.state = StateRunning
	t.started = time.Now()
	t.span = span
	t.mu.Unlock()
}

func (t *Task) addUnit() {
	t.mu.Lock()
	t.units++
	t.mu.Unlock()
}

func (t *Task) addSlice() {
	t.mu.Lock()
	t.slices++
	t.mu.Unlock()
}

// end records the final state once; later calls are ignored.
func (t *Task) end(state State, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state >= StateCompleted {
		return false
	}
	t.state = state
	t.err = err
	t.finished = time.Now()
	if t.started.IsZero() {
		t.started = t.finished
	}
	close(t.done)
	return true
}
