// Package server implements the HTTP server that exposes the travel pipeline
// as a JSON REST API. The server is started by the `voyago serve` CLI command.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voyago/voyago-go/internal/ingestion"
	"github.com/voyago/voyago-go/internal/logging"
)

// New constructs a Server over the provided pipeline and config.
func New(pipe travelPipeline, cfg *Config) (*Server, error) {
	if pipe == nil {
		return nil, fmt.Errorf("server: pipeline must not be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// WriteTimeout must cover a full generation round-trip.
		cfg.WriteTimeout = 5 * time.Minute
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New()
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = defaultRateBurst
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if cfg.APIKey == "" {
		cfg.Logger.Warn("server: VOYAGO_API_KEY not set, API authentication disabled")
	}

	s := &Server{
		pipe:    pipe,
		cfg:     cfg,
		log:     cfg.Logger,
		pingers: cfg.Pingers,
		metrics: newServerMetrics(cfg.Registry),
	}

	rl, stopRL := newRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.Logger)
	s.stopRL = stopRL

	// Mutating and generation-heavy endpoints are rate limited and
	// authenticated; health, readiness, and metrics stay open for probes.
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(cfg.APIKey, rl.middleware(h))
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/chat", protected(s.handleChat))
	mux.Handle("POST /api/plan", protected(s.handlePlan))
	mux.Handle("GET /api/destinations/search", protected(s.handleDestinationSearch))
	mux.Handle("GET /api/destinations/{name}", protected(s.handleDestination))
	mux.Handle("POST /api/documents", protected(s.handleDocuments))
	mux.Handle("POST /api/documents/samples", protected(s.handleSampleDocuments))
	mux.Handle("GET /api/stats", protected(s.handleStats))
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      requestLogger(cfg.Logger, s.metrics.instrument(mux)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s, nil
}

// Handler returns the server's root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening and serving HTTP requests. It blocks until the
// context is cancelled, then performs a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("server: listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.stopRL()
		return fmt.Errorf("server: listen error: %w", err)
	case <-ctx.Done():
		s.stopRL()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// handleChat handles POST /api/chat: the free-text travel question endpoint.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result := s.pipe.ProcessQuery(r.Context(), req.Query, req.NResults)
	writeJSON(w, http.StatusOK, result)
}

// handlePlan handles POST /api/plan: the preference-driven travel plan endpoint.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := s.pipe.CreateTravelPlan(r.Context(), req.Preferences)
	writeJSON(w, http.StatusOK, result)
}

// handleDestination handles GET /api/destinations/{name}: the destination
// summary endpoint.
func (s *Server) handleDestination(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "destination name is required")
		return
	}

	result := s.pipe.DestinationInfo(r.Context(), name)
	writeJSON(w, http.StatusOK, result)
}

// handleDestinationSearch handles GET /api/destinations/search?q=<term>.
// A failed search returns 200 with the error recorded in the body, matching
// the pipeline's fail-soft result shape; only a missing term is a 400.
func (s *Server) handleDestinationSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	result := s.pipe.SearchDestinations(r.Context(), term)
	writeJSON(w, http.StatusOK, result)
}

// handleDocuments handles POST /api/documents: the fail-loud ingestion
// endpoint. An ingest failure maps to 500 with the full result body so
// clients can rely on the status field either way.
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	var req documentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, "documents must not be empty")
		return
	}
	for i, doc := range req.Documents {
		if doc.Content == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("document %d has empty content", i))
			return
		}
	}

	result := s.pipe.AddDocuments(r.Context(), req.Documents)
	status := http.StatusOK
	if result.Status == "error" {
		status = http.StatusInternalServerError
	}
	s.metrics.observeIngest(result.Status, result.DocumentsAdded)
	writeJSON(w, status, result)
}

// handleSampleDocuments handles POST /api/documents/samples: loads the
// built-in starter corpus.
func (s *Server) handleSampleDocuments(w http.ResponseWriter, r *http.Request) {
	result := s.pipe.AddDocuments(r.Context(), sampleDocuments())
	status := http.StatusOK
	if result.Status == "error" {
		status = http.StatusInternalServerError
	}
	s.metrics.observeIngest(result.Status, result.DocumentsAdded)
	writeJSON(w, status, result)
}

// handleStats handles GET /api/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.pipe.Stats(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("stats failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleHealth handles GET /api/health for liveness checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// sampleDocuments returns the built-in starter corpus. Declared as a
// variable so tests can swap in a tiny corpus.
var sampleDocuments = ingestion.SampleDocuments
