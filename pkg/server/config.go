package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/fibre/pkg/dom"
	"github.com/vango-dev/fibre/pkg/host"
	"github.com/vango-dev/fibre/pkg/scheduler"
	"go.opentelemetry.io/otel/trace"
)

// Config holds server configuration.
type Config struct {
	// Address is the listen address.
	// Default: "localhost:3000".
	Address string

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	// Default: 1024 each.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin checks the WebSocket request origin.
	// Default: same-host check by gorilla/websocket.
	CheckOrigin func(r *http.Request) bool

	// MaxMessageSize bounds an incoming render request.
	// Default: 64KB.
	MaxMessageSize int64

	// WriteTimeout bounds a single frame write.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout is passed to http.Server.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// MountID is the id of the container the page renders into.
	// Default: "root".
	MountID string

	// Threshold is the minimum remaining slice time to start a unit.
	// Default: scheduler.DefaultThreshold.
	Threshold time.Duration

	// SliceBudget is the length of each idle slice.
	// Default: 5ms.
	SliceBudget time.Duration

	// SliceGap is the pause between slices.
	// Default: 0.
	SliceGap time.Duration

	// Policy is the multi-render policy of each connection's scheduler.
	Policy scheduler.Policy

	// Properties is the property table used to materialize elements.
	// Default: host.DefaultProperties(true).
	Properties *host.PropertyTable

	// Metrics records scheduler metrics for every connection. Nil disables them.
	Metrics *scheduler.Metrics

	// Gatherer serves /metrics. Nil omits the route.
	Gatherer prometheus.Gatherer

	// Tracer creates render spans. Nil uses the global provider.
	Tracer trace.Tracer
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           "localhost:3000",
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		MaxMessageSize:    64 * 1024,
		WriteTimeout:      10 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MountID:           dom.DefaultMountID,
		Threshold:         scheduler.DefaultThreshold,
		SliceBudget:       5 * time.Millisecond,
		Policy:            scheduler.PolicySupersede,
	}
}

// withDefaults returns a copy of c with unset fields filled in.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.MountID == "" {
		out.MountID = defaults.MountID
	}
	if out.Threshold == 0 {
		out.Threshold = defaults.Threshold
	}
	if out.SliceBudget == 0 {
		out.SliceBudget = defaults.SliceBudget
	}
	return &out
}
