package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vango-dev/treebuilder/pkg/instrument"
	"github.com/vango-dev/treebuilder/pkg/server"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		addr    string
		backend backendValue
		metrics bool
		tracing bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendering over HTTP and WebSocket",
		Long: `Start an HTTP server exposing the builder backends.

Endpoints:
  POST /render     call script in the body, HTML streamed back
  POST /markdown   Markdown in the body, HTML streamed back
  GET  /ws         one call script per connection, HTML as text frames
  GET  /metrics    Prometheus metrics (with --metrics)
  GET  /healthz    liveness probe`,
		Example: `  treebuilder serve
  treebuilder serve --addr :9000 --backend dom --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg
			sc := server.DefaultConfig()
			sc.Backend = backend.resolve(cfg)
			sc.Pretty = cfg.Pretty
			sc.MaxBodyBytes = cfg.Server.MaxScriptBytes
			sc.Tracing = tracing || cfg.Tracing.Enabled
			sc.TracerName = cfg.Tracing.TracerName
			sc.Logger = slog.Default()

			if metrics || cfg.Metrics.Enabled {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				sc.Metrics = instrument.NewMetrics(
					instrument.WithNamespace(cfg.Metrics.Namespace),
					instrument.WithRegistry(reg),
				)
				sc.Gatherer = reg
			}

			if addr == "" {
				addr = cfg.Address()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g.ui.Success("Listening on http://%s", addr)
			g.ui.Info("backend: %s, metrics: %t, tracing: %t", sc.Backend, sc.Gatherer != nil, sc.Tracing)
			return server.New(sc).Run(ctx, addr)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&addr, "addr", "a", "", "Listen address (default from config, localhost:8080)")
	addBackendFlag(flags, &backend)
	flags.BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics on /metrics")
	flags.BoolVar(&tracing, "tracing", false, "Wrap every render in an OpenTelemetry span")
	return cmd
}
