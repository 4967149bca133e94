package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantPinger probes a Qdrant instance using its native HealthCheck RPC.
// It satisfies the Pinger interface and is used by GET /api/ready.
type QdrantPinger struct {
	// client is the Qdrant gRPC client to probe.
	client *qdrant.Client
}

// NewQdrantPinger constructs a QdrantPinger for the given Qdrant client.
func NewQdrantPinger(client *qdrant.Client) *QdrantPinger {
	return &QdrantPinger{client: client}
}

// Name returns the dependency label used in readiness responses.
func (p *QdrantPinger) Name() string { return "qdrant" }

// Ping calls the Qdrant HealthCheck RPC.
func (p *QdrantPinger) Ping(ctx context.Context) error {
	if _, err := p.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// HTTPPinger probes a model or embedding backend with a plain GET against its
// base URL. This checks reachability without issuing a generate call, so no
// tokens are consumed by readiness probes.
type HTTPPinger struct {
	// url is the endpoint to probe (e.g. the Ollama base URL).
	url string
	// name identifies the backend in readiness responses.
	name string
	// client is the HTTP client used for probes.
	client *http.Client
}

// NewHTTPPinger constructs an HTTPPinger for the given URL and backend name.
func NewHTTPPinger(url, name string) *HTTPPinger {
	return &HTTPPinger{
		url:    url,
		name:   name,
		client: &http.Client{Timeout: probeTimeout},
	}
}

// Name returns the backend label used in readiness responses.
func (p *HTTPPinger) Name() string { return p.name }

// Ping sends a GET request to the configured URL. Any response below 500 is
// treated as reachable; auth failures on the base path still prove the
// backend is up.
func (p *HTTPPinger) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// PingerFunc adapts a plain function to the Pinger interface.
type PingerFunc struct {
	// Label identifies the dependency in readiness responses.
	Label string
	// Fn is the probe function.
	Fn func(ctx context.Context) error
}

// Name returns the dependency label.
func (p PingerFunc) Name() string { return p.Label }

// Ping invokes the wrapped probe function.
func (p PingerFunc) Ping(ctx context.Context) error { return p.Fn(ctx) }
