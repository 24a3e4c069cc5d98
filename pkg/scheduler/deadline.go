package scheduler

import (
	"sync"
	"time"
)

// Deadline reports how much of the current idle slice remains.
type Deadline interface {
	TimeRemaining() time.Duration
}

// DeadlineFunc adapts a function to a Deadline.
type DeadlineFunc func() time.Duration

// TimeRemaining implements Deadline.
func (f DeadlineFunc) TimeRemaining() time.Duration {
	return f()
}

// FixedDeadline always reports the same remaining time.
type FixedDeadline time.Duration

// TimeRemaining implements Deadline.
func (d FixedDeadline) TimeRemaining() time.Duration {
	return time.Duration(d)
}

// ClockDeadline ends at a wall-clock instant.
type ClockDeadline struct {
	end time.Time
	now func() time.Time
}

// NewClockDeadline creates a deadline ending at end.
func NewClockDeadline(end time.Time) ClockDeadline {
	return ClockDeadline{end: end, now: time.Now}
}

// TimeRemaining implements Deadline.
func (d ClockDeadline) TimeRemaining() time.Duration {
	now := d.now
	if now == nil {
		now = time.Now
	}
	if rem := d.end.Sub(now()); rem > 0 {
		return rem
	}
	return 0
}

// CountdownDeadline grants a fixed number of budget checks.
// The work loop checks once before each unit, so it allows exactly n units.
type CountdownDeadline struct {
	mu sync.Mutex
	n  int
}

// NewCountdownDeadline creates a deadline allowing n units of work.
func NewCountdownDeadline(n int) *CountdownDeadline {
	return &CountdownDeadline{n: n}
}

// TimeRemaining implements Deadline.
func (d *CountdownDeadline) TimeRemaining() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.n <= 0 {
		return 0
	}
	d.n--
	return time.Hour
}
