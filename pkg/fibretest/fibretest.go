package fibretest

import (
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/dom"
	"github.com/vango-dev/fibre/pkg/element"
	"github.com/vango-dev/fibre/pkg/host"
)

// materializer mirrors fiber.Materializer without importing it.
type materializer interface {
	Materialize(kind string, props element.Props) (host.Node, error)
}

// CountingMaterializer records every Materialize call before delegating.
type CountingMaterializer struct {
	inner materializer

	mu    sync.Mutex
	kinds []string
}

// NewCountingMaterializer wraps inner.
func NewCountingMaterializer(inner materializer) *CountingMaterializer {
	return &CountingMaterializer{inner: inner}
}

// Materialize implements fiber.Materializer.
func (m *CountingMaterializer) Materialize(kind string, props element.Props) (host.Node, error) {
	m.mu.Lock()
	m.kinds = append(m.kinds, kind)
	m.mu.Unlock()
	return m.inner.Materialize(kind, props)
}

// Calls returns the number of Materialize calls.
func (m *CountingMaterializer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.kinds)
}

// Kinds returns the kinds materialized, in call order.
func (m *CountingMaterializer) Kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.kinds...)
}

// FailingHost wraps a host and fails selected operations.
type FailingHost struct {
	host.Host

	createKinds map[string]bool
	appendKinds map[string]bool
	kinds       map[host.Node]string
}

// NewFailingHost wraps h. Without further configuration it fails nothing.
func NewFailingHost(h host.Host) *FailingHost {
	return &FailingHost{
		Host:        h,
		createKinds: make(map[string]bool),
		appendKinds: make(map[string]bool),
		kinds:       make(map[host.Node]string),
	}
}

// FailCreate makes CreateElement fail for kind.
func (h *FailingHost) FailCreate(kind string) *FailingHost {
	h.createKinds[kind] = true
	return h
}

// FailAppend makes AppendChild fail when the child was created with kind.
func (h *FailingHost) FailAppend(kind string) *FailingHost {
	h.appendKinds[kind] = true
	return h
}

// CreateElement implements host.Host.
func (h *FailingHost) CreateElement(kind string) (host.Node, error) {
	if h.createKinds[kind] {
		return nil, errors.Newf(errors.CategoryHost, "injected create failure for <%s>", kind)
	}
	n, err := h.Host.CreateElement(kind)
	if err == nil {
		h.kinds[n] = kind
	}
	return n, err
}

// AppendChild implements host.Host.
func (h *FailingHost) AppendChild(parent, child host.Node) error {
	if kind, ok := h.kinds[child]; ok && h.appendKinds[kind] {
		return errors.Newf(errors.CategoryHost, "injected append failure for <%s>", kind)
	}
	return h.Host.AppendChild(parent, child)
}

// ExpectHTML asserts that the children of n serialize to want.
func ExpectHTML(t testing.TB, n *dom.Node, want string) {
	t.Helper()
	if n == nil {
		t.Fatalf("expected node with HTML %q, got nil", want)
	}
	if got := dom.InnerHTML(n); got != want {
		t.Errorf("InnerHTML = %q, want %q", truncate(got, 500), want)
	}
}

// ExpectContains asserts that the children of n serialize to HTML containing expected.
func ExpectContains(t testing.TB, n *dom.Node, expected string) {
	t.Helper()
	html := dom.InnerHTML(n)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
