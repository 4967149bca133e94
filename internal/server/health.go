package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/voyago/voyago-go/internal/logging"
)

// probeTimeout bounds each individual dependency probe during a readiness
// check so /api/ready stays responsive when a dependency hangs rather than
// refuses connections.
const probeTimeout = 5 * time.Second

// Pinger is implemented by any pipeline dependency that can report its own
// reachability: the vector store, the embedding backend, the model provider.
// Implementations must be safe for concurrent use.
type Pinger interface {
	// Ping returns nil when the dependency is reachable within the context
	// deadline, a descriptive error otherwise.
	Ping(ctx context.Context) error

	// Name returns a short label used in readiness responses
	// (e.g. "qdrant", "ollama").
	Name() string
}

// MultiPinger combines several Pingers into one, reporting the first failure.
type MultiPinger struct {
	// pingers is the ordered list of probes to run.
	pingers []Pinger
}

// NewMultiPinger constructs a MultiPinger over the given probes.
func NewMultiPinger(pingers ...Pinger) *MultiPinger {
	return &MultiPinger{pingers: pingers}
}

// Ping probes each dependency in order and returns the first error, wrapped
// with the dependency's name, or nil when all succeed.
func (m *MultiPinger) Ping(ctx context.Context) error {
	for _, p := range m.pingers {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return nil
}

// Name returns a combined label for logging.
func (m *MultiPinger) Name() string { return "multi" }

// readyCheck is the per-dependency entry in the readiness response.
type readyCheck struct {
	// Name is the dependency label.
	Name string `json:"name"`
	// OK is true when the probe succeeded.
	OK bool `json:"ok"`
	// Error carries the failure reason when OK is false.
	Error string `json:"error,omitempty"`
}

// readyResponse is the JSON body of GET /api/ready.
type readyResponse struct {
	// Ready is true only when every dependency probe succeeded.
	Ready bool `json:"ready"`
	// Checks lists the per-dependency results.
	Checks []readyCheck `json:"checks"`
}

// handleReady handles GET /api/ready. Every registered Pinger is probed with
// a short per-probe timeout; the response is 200 when all dependencies are
// reachable and 503 otherwise. /api/health is pure liveness and never probes
// dependencies; this endpoint does.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	resp := readyResponse{Ready: true, Checks: []readyCheck{}}

	for _, p := range s.pingers {
		probeCtx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		err := p.Ping(probeCtx)
		cancel()

		check := readyCheck{Name: p.Name(), OK: err == nil}
		if err != nil {
			check.Error = err.Error()
			resp.Ready = false
			log.Warn("readiness probe failed",
				slog.String("dependency", p.Name()),
				slog.Any("error", err),
			)
		}
		resp.Checks = append(resp.Checks, check)
	}

	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
