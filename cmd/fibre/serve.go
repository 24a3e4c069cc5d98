package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vango-dev/fibre/internal/config"
	"github.com/vango-dev/fibre/pkg/element"
	"github.com/vango-dev/fibre/pkg/host"
	"github.com/vango-dev/fibre/pkg/scheduler"
	"github.com/vango-dev/fibre/pkg/server"
	"go.opentelemetry.io/otel"
)

func serveCmd() *cobra.Command {
	var (
		configDir string
		addr      string
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Stream renders to browsers over WebSocket",
		Long: `Start an HTTP server that renders a document into each connected
browser, one idle slice per WebSocket frame.

The document is re-read for every connection, so edits show up on reload.
Without a file the built-in demo is served.

Routes:
  /         page with the thin client
  /ws       WebSocket render stream
  /metrics  Prometheus metrics (when metrics.enabled)
  /healthz  health check

Examples:
  fibre serve
  fibre serve page.html --addr=0.0.0.0:8080`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}

			cfg, err := config.LoadOrDefault(configDir)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cmd.OutOrStdout(), cfg, file)
		},
	}

	cmd.Flags().StringVarP(&configDir, "config", "c", ".", "Directory containing fibre.json")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from fibre.json)")

	return cmd
}

// serverConfig maps fibre.json onto a server configuration.
func serverConfig(cfg *config.Config) *server.Config {
	sc := server.DefaultConfig()
	sc.Address = cfg.Server.Address
	sc.ReadBufferSize = cfg.Server.ReadBufferSize
	sc.WriteBufferSize = cfg.Server.WriteBufferSize
	sc.Threshold = cfg.Scheduler.ThresholdDuration()
	sc.SliceBudget = cfg.Scheduler.SliceDuration()
	sc.Policy = cfg.Scheduler.RenderPolicy()
	sc.Properties = host.DefaultProperties(cfg.Scheduler.Strict())
	sc.Tracer = otel.Tracer(cfg.Tracing.TracerName)

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		sc.Metrics = scheduler.NewMetrics(
			scheduler.WithNamespace(cfg.Metrics.Namespace),
			scheduler.WithRegistry(reg),
		)
		sc.Gatherer = reg
	}
	return sc
}

func runServe(ctx context.Context, out io.Writer, cfg *config.Config, file string) error {
	// Fail fast on an unreadable document.
	if _, err := loadElement(file); err != nil {
		return err
	}

	page := func(*http.Request) (*element.Element, error) {
		return loadElement(file)
	}
	srv := server.New(serverConfig(cfg), page)

	printBanner(out)
	fmt.Fprintln(out, "  serve")
	fmt.Fprintln(out)
	success(out, "Listening on http://%s", cfg.Server.Address)
	if file == "" {
		info(out, "Serving the built-in demo")
	} else {
		info(out, "Serving %s", file)
	}
	if !cfg.Metrics.Enabled {
		warn(out, "Metrics are disabled; /metrics is not served")
	}

	return srv.Run(ctx)
}
