package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/eino/callbacks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/voyago/voyago-go/internal/logging"
	"github.com/voyago/voyago-go/internal/server"
	"github.com/voyago/voyago-go/internal/tracing"
)

// NewServeCmd constructs the `voyago serve` command, which starts the HTTP
// server exposing the travel pipeline as a JSON API.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Voyago HTTP server",
		Long: `Start the Voyago HTTP server on localhost.

The server exposes the travel pipeline as a JSON REST API plus health,
readiness, and Prometheus metrics endpoints. Set VOYAGO_API_KEY to require
Bearer token authentication on the /api routes.

Examples:
  voyago serve
  voyago serve --port 9090
  MODEL_PROVIDER=ollama voyago serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			log.Info("serve starting", slog.String("provider", os.Getenv("MODEL_PROVIDER")))

			// Langfuse tracing is opt-in; a no-op when keys are absent.
			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
				log.Info("langfuse tracing enabled")
			} else {
				log.Info("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
			}

			reg := prometheus.NewRegistry()

			a, err := buildApp(ctx, log, reg)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer a.Close()

			srv, err := server.New(a.Pipeline, &server.Config{
				Host:     host,
				Port:     port,
				Logger:   log,
				Pingers:  buildPingers(a),
				APIKey:   os.Getenv("VOYAGO_API_KEY"),
				Registry: reg,
			})
			if err != nil {
				return fmt.Errorf("serve: failed to create server: %w", err)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host address to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "TCP port to listen on")

	return cmd
}
