package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestManualIdle_StepBatches(t *testing.T) {
	idle := NewManualIdle()
	var calls []string

	idle.RequestIdleCallback(func(Deadline) {
		calls = append(calls, "a")
		idle.RequestIdleCallback(func(Deadline) { calls = append(calls, "c") })
	})
	idle.RequestIdleCallback(func(Deadline) { calls = append(calls, "b") })

	if !idle.Step(FixedDeadline(time.Millisecond)) {
		t.Fatal("Step() = false, want true")
	}
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Errorf("calls = %v, want [a b]", calls)
	}
	if idle.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", idle.Pending())
	}

	idle.Step(FixedDeadline(time.Millisecond))
	if len(calls) != 3 || calls[2] != "c" {
		t.Errorf("calls = %v, want [a b c]", calls)
	}
	if idle.Step(FixedDeadline(time.Millisecond)) {
		t.Error("Step() with nothing pending = true")
	}
}

func TestManualIdle_DrainLimit(t *testing.T) {
	idle := NewManualIdle()
	var loop IdleCallback
	loop = func(Deadline) { idle.RequestIdleCallback(loop) }
	idle.RequestIdleCallback(loop)

	if n := idle.Drain(func() Deadline { return FixedDeadline(0) }, 7); n != 7 {
		t.Errorf("Drain() = %d, want 7", n)
	}
}

func TestLoopIdle_Run(t *testing.T) {
	idle := NewLoopIdle(10*time.Millisecond, 0)
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- idle.Run(ctx) }()

	got := make(chan time.Duration, 1)
	idle.RequestIdleCallback(func(d Deadline) { got <- d.TimeRemaining() })

	select {
	case rem := <-got:
		if rem <= 0 || rem > 10*time.Millisecond {
			t.Errorf("TimeRemaining() = %v, want (0, 10ms]", rem)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("callback not invoked")
	}

	cancel()
	if err := <-errc; err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestDeadlines(t *testing.T) {
	if got := FixedDeadline(3 * time.Millisecond).TimeRemaining(); got != 3*time.Millisecond {
		t.Errorf("FixedDeadline = %v", got)
	}
	if got := DeadlineFunc(func() time.Duration { return time.Second }).TimeRemaining(); got != time.Second {
		t.Errorf("DeadlineFunc = %v", got)
	}
	if got := NewClockDeadline(time.Now().Add(-time.Second)).TimeRemaining(); got != 0 {
		t.Errorf("expired ClockDeadline = %v, want 0", got)
	}

	fixed := time.Unix(100, 0)
	d := ClockDeadline{end: fixed.Add(4 * time.Millisecond), now: func() time.Time { return fixed }}
	if got := d.TimeRemaining(); got != 4*time.Millisecond {
		t.Errorf("ClockDeadline = %v, want 4ms", got)
	}

	c := NewCountdownDeadline(2)
	for i, want := range []bool{true, true, false, false} {
		if got := c.TimeRemaining() >= DefaultThreshold; got != want {
			t.Errorf("check %d = %v, want %v", i, got, want)
		}
	}
}
