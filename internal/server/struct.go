package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voyago/voyago-go/internal/pipeline"
	"github.com/voyago/voyago-go/internal/rag"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8080).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response.
	// Must cover a full generation round-trip.
	WriteTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// Logger is the structured logger used by the server and its handlers.
	// If nil, [logging.New] is used.
	Logger *slog.Logger
	// Pingers is the ordered list of dependency probes run by GET /api/ready.
	// If empty, /api/ready returns 200 with no checks (liveness-only mode).
	Pingers []Pinger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 10 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 20 if zero.
	RateBurst int
	// APIKey is the Bearer token required on all protected /api/* routes.
	// If empty, authentication is disabled (development mode).
	APIKey string
	// Registry is the Prometheus registry for server metrics. Tests inject a
	// fresh one to stay hermetic; nil creates a new registry.
	Registry *prometheus.Registry
}

// travelPipeline is the slice of the pipeline orchestrator the server calls.
// *pipeline.Pipeline satisfies it; tests inject a fake.
type travelPipeline interface {
	ProcessQuery(ctx context.Context, query string, n int) pipeline.QueryResult
	CreateTravelPlan(ctx context.Context, prefs rag.UserPreferences) pipeline.PlanResult
	DestinationInfo(ctx context.Context, destination string) pipeline.DestinationResult
	SearchDestinations(ctx context.Context, searchTerm string) pipeline.DestinationSearchResult
	AddDocuments(ctx context.Context, docs []rag.Document) pipeline.IngestResult
	Stats(ctx context.Context) (pipeline.Stats, error)
}

// Server is the HTTP server that exposes the travel pipeline as a JSON API.
type Server struct {
	// pipe is the pipeline orchestrator handling all operations.
	pipe travelPipeline
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// log is the structured logger for this server instance.
	log *slog.Logger
	// pingers is the ordered list of dependency probes for GET /api/ready.
	pingers []Pinger
	// metrics holds the Prometheus instrumentation for this server instance.
	metrics *serverMetrics
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
}

// chatRequest is the JSON body for POST /api/chat.
type chatRequest struct {
	// Query is the user's travel question.
	Query string `json:"query"`
	// NResults is the number of documents to retrieve (default 5).
	NResults int `json:"n_results,omitempty"`
}

// planRequest is the JSON body for POST /api/plan.
type planRequest struct {
	// Preferences is the user's structured travel preferences.
	Preferences rag.UserPreferences `json:"preferences"`
}

// documentsRequest is the JSON body for POST /api/documents.
type documentsRequest struct {
	// Documents is the batch to ingest. The batch is atomic: on error
	// nothing is added.
	Documents []rag.Document `json:"documents"`
}

// errorResponse is the JSON body for 4xx/5xx responses.
type errorResponse struct {
	// Error is the human-readable failure description.
	Error string `json:"error"`
}
