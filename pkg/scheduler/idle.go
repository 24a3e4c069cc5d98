package scheduler

import (
	"context"
	"sync"
	"time"
)

// IdleCallback is invoked by an IdleHost when it grants an idle slice.
type IdleCallback func(Deadline)

// IdleHost is the host's idle-scheduling primitive.
// RequestIdleCallback must not invoke cb synchronously.
type IdleHost interface {
	RequestIdleCallback(cb IdleCallback)
}

// ManualIdle queues callbacks until the caller grants a slice.
type ManualIdle struct {
	mu      sync.Mutex
	pending []IdleCallback
}

// NewManualIdle creates an empty ManualIdle.
func NewManualIdle() *ManualIdle {
	return &ManualIdle{}
}

// RequestIdleCallback implements IdleHost.
func (m *ManualIdle) RequestIdleCallback(cb IdleCallback) {
	m.mu.Lock()
	m.pending = append(m.pending, cb)
	m.mu.Unlock()
}

// Pending returns the number of registered callbacks.
func (m *ManualIdle) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Step grants one slice with deadline d to every callback registered so far.
// Callbacks registered during the slice wait for the next Step.
// It reports whether any callback ran.
func (m *ManualIdle) Step(d Deadline) bool {
	m.mu.Lock()
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, cb := range batch {
		cb(d)
	}
	return len(batch) > 0
}

// Drain grants slices until no callback is pending or maxSlices slices ran
// (maxSlices <= 0 means no limit). next supplies each slice's deadline.
// It returns the number of slices granted.
func (m *ManualIdle) Drain(next func() Deadline, maxSlices int) int {
	slices := 0
	for maxSlices <= 0 || slices < maxSlices {
		if !m.Step(next()) {
			break
		}
		slices++
	}
	return slices
}

// LoopIdle grants wall-clock slices on the goroutine running Run.
type LoopIdle struct {
	slice time.Duration
	gap   time.Duration

	mu      sync.Mutex
	pending []IdleCallback
	wake    chan struct{}
}

// NewLoopIdle creates a LoopIdle granting slices of the given length,
// separated by gap so other goroutines get the processor between slices.
func NewLoopIdle(slice, gap time.Duration) *LoopIdle {
	return &LoopIdle{
		slice: slice,
		gap:   gap,
		wake:  make(chan struct{}, 1),
	}
}

// RequestIdleCallback implements IdleHost. It never blocks.
func (l *LoopIdle) RequestIdleCallback(cb IdleCallback) {
	l.mu.Lock()
	l.pending = append(l.pending, cb)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run grants slices until ctx is done. It returns ctx.Err().
func (l *LoopIdle) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}

		for {
			l.mu.Lock()
			batch := l.pending
			l.pending = nil
			l.mu.Unlock()
			if len(batch) == 0 {
				break
			}

			for _, cb := range batch {
				cb(NewClockDeadline(time.Now().Add(l.slice)))
			}

			if l.gap > 0 {
				timer := time.NewTimer(l.gap)
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
			}
		}
	}
}
