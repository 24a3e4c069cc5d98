// Package fibre renders element trees into a host incrementally, one fiber
// per unit of work, yielding between idle slices.
//
// Most programs only need an Engine:
//
//	engine := fibre.New()
//	engine.Render(element.Div(element.Props{"id": "foo"},
//	    element.A(nil, "bar"),
//	    element.B(nil),
//	))
//	engine.Run(fibre.Budget(2), 0)
//	fmt.Println(engine.HTML()) // <div id="foo"><a>bar</a><b></b></div>
//
// For one-shot rendering use RenderToString.
package fibre

import (
	"time"

	"github.com/vango-dev/fibre/pkg/dom"
	"github.com/vango-dev/fibre/pkg/element"
	"github.com/vango-dev/fibre/pkg/scheduler"
)

// Engine wires an in-memory document to a scheduler driven by a manual idle host.
type Engine struct {
	doc   *dom.Document
	idle  *scheduler.ManualIdle
	sched *scheduler.Scheduler
}

// New creates an engine rendering into a fresh dom.Document.
func New(opts ...scheduler.Option) *Engine {
	doc := dom.NewDocument()
	idle := scheduler.NewManualIdle()
	return &Engine{
		doc:   doc,
		idle:  idle,
		sched: scheduler.New(doc, idle, opts...),
	}
}

// Document returns the host document.
func (e *Engine) Document() *dom.Document {
	return e.doc
}

// Scheduler returns the engine's scheduler.
func (e *Engine) Scheduler() *scheduler.Scheduler {
	return e.sched
}

// Render requests a render of el into the document's mount node.
// No work happens until the engine is stepped.
func (e *Engine) Render(el *element.Element) (*scheduler.Task, error) {
	mount, err := e.doc.GetNodeByID(dom.DefaultMountID)
	if err != nil {
		return nil, err
	}
	return e.sched.Render(el, mount)
}

// Step grants one idle slice with deadline d.
// It reports whether a callback ran.
func (e *Engine) Step(d scheduler.Deadline) bool {
	return e.idle.Step(d)
}

// Run grants slices until the scheduler stops asking for them or maxSlices
// slices ran (maxSlices <= 0 means no limit). It returns the slice count.
func (e *Engine) Run(next func() scheduler.Deadline, maxSlices int) int {
	return e.idle.Drain(next, maxSlices)
}

// Idle reports whether no render is in flight.
func (e *Engine) Idle() bool {
	return !e.sched.Busy()
}

// HTML returns the serialized children of the mount node.
func (e *Engine) HTML() string {
	return dom.InnerHTML(e.doc.Mount())
}

// Budget returns a deadline source granting n units per slice.
func Budget(n int) func() scheduler.Deadline {
	return func() scheduler.Deadline {
		return scheduler.NewCountdownDeadline(n)
	}
}

// Clock returns a deadline source granting wall-clock slices of length d.
func Clock(d time.Duration) func() scheduler.Deadline {
	return func() scheduler.Deadline {
		return scheduler.NewClockDeadline(time.Now().Add(d))
	}
}

// RenderToString renders el to completion and returns the mount's HTML.
func RenderToString(el *element.Element, opts ...scheduler.Option) (string, error) {
	e := New(opts...)
	task, err := e.Render(el)
	if err != nil {
		return "", err
	}
	e.Run(Budget(el.Count()+1), 0)
	if err := task.Err(); err != nil {
		return "", err
	}
	return e.HTML(), nil
}
