package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/scheduler"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "fibre.json"

	// DefaultThreshold is the minimum remaining slice time to start a unit of work.
	DefaultThreshold = "1ms"

	// DefaultSliceBudget is the length of a wall-clock idle slice.
	DefaultSliceBudget = "5ms"

	// DefaultAddress is the default server listen address.
	DefaultAddress = "localhost:3000"

	// DefaultBufferSize is the default websocket buffer size.
	DefaultBufferSize = 1024

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "fibre"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "fibre"
)

// Config represents the complete fibre.json configuration.
type Config struct {
	// Scheduler contains render scheduling configuration.
	Scheduler SchedulerConfig `json:"scheduler"`

	// Server contains streaming server configuration.
	Server ServerConfig `json:"server"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing"`

	// Snapshot contains snapshot storage configuration.
	Snapshot SnapshotConfig `json:"snapshot"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SchedulerConfig contains render scheduling configuration.
type SchedulerConfig struct {
	// Threshold is the minimum remaining slice time needed to start a unit
	// of work, as a Go duration string.
	Threshold string `json:"threshold,omitempty"`

	// SliceBudget is the length of each wall-clock idle slice.
	SliceBudget string `json:"sliceBudget,omitempty"`

	// Policy is what a render does while another is in flight:
	// "supersede", "reject" or "queue".
	Policy string `json:"policy,omitempty"`

	// StrictProperties rejects properties the property table does not know.
	StrictProperties *bool `json:"strictProperties,omitempty"`
}

// ServerConfig contains streaming server configuration.
type ServerConfig struct {
	// Address is the listen address (host:port).
	Address string `json:"address,omitempty"`

	// ReadBufferSize is the websocket read buffer size in bytes.
	ReadBufferSize int `json:"readBufferSize,omitempty"`

	// WriteBufferSize is the websocket write buffer size in bytes.
	WriteBufferSize int `json:"writeBufferSize,omitempty"`
}

// MetricsConfig contains Prometheus configuration.
type MetricsConfig struct {
	// Enabled registers scheduler metrics and serves /metrics.
	Enabled bool `json:"enabled"`

	// Namespace is the metric namespace.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry configuration.
type TracingConfig struct {
	// TracerName is the name passed to otel.Tracer.
	TracerName string `json:"tracerName,omitempty"`
}

// SnapshotConfig contains snapshot storage configuration.
// A non-empty Bucket selects S3; otherwise snapshots go to Dir.
type SnapshotConfig struct {
	Dir      string `json:"dir,omitempty"`
	Bucket   string `json:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	strict := true
	return &Config{
		Scheduler: SchedulerConfig{
			Threshold:        DefaultThreshold,
			SliceBudget:      DefaultSliceBudget,
			Policy:           scheduler.PolicySupersede.String(),
			StrictProperties: &strict,
		},
		Server: ServerConfig{
			Address:         DefaultAddress,
			ReadBufferSize:  DefaultBufferSize,
			WriteBufferSize: DefaultBufferSize,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Snapshot: SnapshotConfig{
			Dir:    "snapshots",
			Region: "us-east-1",
		},
	}
}

// Load reads configuration from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No fibre.json found in " + filepath.Dir(path)).
				WithSuggestion("Create fibre.json or run without --config to use defaults")
		}
		return nil, errors.New(errors.CodeConfigParse).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("Failed to parse fibre.json: " + err.Error()).
			WithSuggestion("Check that fibre.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads fibre.json from dir, returning defaults when the file
// does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.HasCode(err, errors.CodeConfigNotFound) {
		return New(), nil
	}
	return cfg, err
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigParse).Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigParse).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path the configuration was loaded from or saved to.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Scheduler.Threshold == "" {
		c.Scheduler.Threshold = DefaultThreshold
	}
	if c.Scheduler.SliceBudget == "" {
		c.Scheduler.SliceBudget = DefaultSliceBudget
	}
	if c.Scheduler.Policy == "" {
		c.Scheduler.Policy = scheduler.PolicySupersede.String()
	}
	if c.Scheduler.StrictProperties == nil {
		strict := true
		c.Scheduler.StrictProperties = &strict
	}

	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ReadBufferSize == 0 {
		c.Server.ReadBufferSize = DefaultBufferSize
	}
	if c.Server.WriteBufferSize == 0 {
		c.Server.WriteBufferSize = DefaultBufferSize
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	threshold, err := time.ParseDuration(c.Scheduler.Threshold)
	if err != nil || threshold < 0 {
		return errors.New(errors.CodeConfigScheduler).
			WithDetailf("threshold %q must be a non-negative duration", c.Scheduler.Threshold).
			WithSuggestion(`Use a Go duration such as "1ms"`)
	}
	budget, err := time.ParseDuration(c.Scheduler.SliceBudget)
	if err != nil || budget <= 0 {
		return errors.New(errors.CodeConfigScheduler).
			WithDetailf("sliceBudget %q must be a positive duration", c.Scheduler.SliceBudget)
	}
	if budget < threshold {
		return errors.New(errors.CodeConfigScheduler).
			WithDetailf("sliceBudget %s is below threshold %s; no slice could do work", budget, threshold)
	}
	if _, err := scheduler.ParsePolicy(c.Scheduler.Policy); err != nil {
		return err
	}

	if _, port, err := net.SplitHostPort(c.Server.Address); err != nil || port == "" {
		return errors.New(errors.CodeConfigServer).
			WithDetailf("address %q must be host:port", c.Server.Address)
	}
	if c.Server.ReadBufferSize < 0 || c.Server.WriteBufferSize < 0 {
		return errors.New(errors.CodeConfigServer).
			WithDetail("buffer sizes must not be negative")
	}
	return nil
}

// ThresholdDuration returns the parsed threshold.
// It returns scheduler.DefaultThreshold when the value does not parse.
func (s SchedulerConfig) ThresholdDuration() time.Duration {
	d, err := time.ParseDuration(s.Threshold)
	if err != nil {
		return scheduler.DefaultThreshold
	}
	return d
}

// SliceDuration returns the parsed slice budget, or 5ms when it does not parse.
func (s SchedulerConfig) SliceDuration() time.Duration {
	d, err := time.ParseDuration(s.SliceBudget)
	if err != nil || d <= 0 {
		return 5 * time.Millisecond
	}
	return d
}

// RenderPolicy returns the parsed policy, or supersede when it does not parse.
func (s SchedulerConfig) RenderPolicy() scheduler.Policy {
	p, err := scheduler.ParsePolicy(s.Policy)
	if err != nil {
		return scheduler.PolicySupersede
	}
	return p
}

// Strict reports whether unknown properties are rejected.
func (s SchedulerConfig) Strict() bool {
	return s.StrictProperties == nil || *s.StrictProperties
}

// Exists checks if a fibre.json exists in the specified directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
