package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voyago/voyago-go/internal/generator"
	"github.com/voyago/voyago-go/internal/index"
	"github.com/voyago/voyago-go/internal/pipeline"
	"github.com/voyago/voyago-go/internal/rag"
)

// fakePipeline implements travelPipeline with canned results and records the
// arguments it was called with.
type fakePipeline struct {
	lastQuery       string
	lastN           int
	lastPrefs       rag.UserPreferences
	lastDestination string
	lastSearchTerm  string
	lastDocs        []rag.Document

	searchResult *pipeline.DestinationSearchResult
	ingestResult *pipeline.IngestResult
	statsErr     error
}

func (f *fakePipeline) ProcessQuery(_ context.Context, query string, n int) pipeline.QueryResult {
	f.lastQuery = query
	f.lastN = n
	return pipeline.QueryResult{
		Query:     query,
		Response:  "canned answer",
		Retrieved: []rag.Retrieved{},
		Context:   "canned context",
	}
}

func (f *fakePipeline) CreateTravelPlan(_ context.Context, prefs rag.UserPreferences) pipeline.PlanResult {
	f.lastPrefs = prefs
	return pipeline.PlanResult{
		Preferences:     prefs,
		TravelPlan:      "canned plan",
		Recommendations: []rag.Retrieved{},
		Context:         "canned context",
	}
}

func (f *fakePipeline) DestinationInfo(_ context.Context, destination string) pipeline.DestinationResult {
	f.lastDestination = destination
	return pipeline.DestinationResult{
		Destination: destination,
		Summary:     "canned summary",
		Documents:   []rag.Retrieved{},
	}
}

func (f *fakePipeline) SearchDestinations(_ context.Context, term string) pipeline.DestinationSearchResult {
	f.lastSearchTerm = term
	if f.searchResult != nil {
		return *f.searchResult
	}
	return pipeline.DestinationSearchResult{
		SearchTerm:   term,
		Destinations: []pipeline.Destination{{Name: "Paris"}, {Name: "Tokyo"}},
		Count:        2,
	}
}

func (f *fakePipeline) AddDocuments(_ context.Context, docs []rag.Document) pipeline.IngestResult {
	f.lastDocs = docs
	if f.ingestResult != nil {
		return *f.ingestResult
	}
	return pipeline.IngestResult{
		Status:         pipeline.StatusSuccess,
		DocumentsAdded: len(docs),
		Message:        "ok",
	}
}

func (f *fakePipeline) Stats(_ context.Context) (pipeline.Stats, error) {
	if f.statsErr != nil {
		return pipeline.Stats{}, f.statsErr
	}
	return pipeline.Stats{
		Index:   index.Stats{TotalDocuments: 3, Collection: "travel_documents"},
		Backend: generator.ModelInfo{Variant: generator.VariantMock},
	}, nil
}

// newTestServer constructs a server over the fake pipeline with a fresh
// Prometheus registry so tests never collide on metric registration.
func newTestServer(t *testing.T, fake *fakePipeline, cfg *Config) *Server {
	t.Helper()

	if cfg == nil {
		cfg = &Config{}
	}
	cfg.Registry = prometheus.NewRegistry()
	// High limits so rate limiting never interferes with handler tests.
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 1000
		cfg.RateBurst = 1000
	}

	s, err := New(fake, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.stopRL)
	return s
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{}
	s := newTestServer(t, fake, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat", `{"query":"best time for Tokyo","n_results":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if fake.lastQuery != "best time for Tokyo" || fake.lastN != 3 {
		t.Errorf("pipeline called with (%q, %d)", fake.lastQuery, fake.lastN)
	}

	var result pipeline.QueryResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Response != "canned answer" {
		t.Errorf("Response = %q", result.Response)
	}
}

func TestChatRequiresQuery(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakePipeline{}, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s.Handler(), http.MethodPost, "/api/chat", `{invalid`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status = %d, want 400", rec.Code)
	}
}

func TestPlanEndpoint(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{}
	s := newTestServer(t, fake, nil)

	body := `{"preferences":{"destination":"Paris","budget":"Mid-range","interests":["Museums"]}}`
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/plan", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if fake.lastPrefs.Destination != "Paris" || fake.lastPrefs.Budget != "Mid-range" {
		t.Errorf("preferences not forwarded: %+v", fake.lastPrefs)
	}
}

func TestDestinationEndpoint(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{}
	s := newTestServer(t, fake, nil)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/destinations/Kyoto", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if fake.lastDestination != "Kyoto" {
		t.Errorf("destination = %q, want Kyoto", fake.lastDestination)
	}
}

func TestDestinationSearchRequiresTerm(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakePipeline{}, nil)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/destinations/search", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDestinationSearchFailureStays200(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{
		searchResult: &pipeline.DestinationSearchResult{
			SearchTerm:   "europe",
			Destinations: []pipeline.Destination{},
			Error:        "search failed: store offline",
		},
	}
	s := newTestServer(t, fake, nil)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/destinations/search?q=europe", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (fail-soft body)", rec.Code)
	}

	var result pipeline.DestinationSearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Error == "" {
		t.Error("expected error recorded in body")
	}
	if result.Destinations == nil {
		t.Error("Destinations must be present even on failure")
	}
}

func TestDocumentsEndpoint(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{}
	s := newTestServer(t, fake, nil)

	body := `{"documents":[{"content":"Paris is lovely in spring.","destination":"Paris"}]}`
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/documents", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(fake.lastDocs) != 1 || fake.lastDocs[0].Destination != "Paris" {
		t.Errorf("documents not forwarded: %+v", fake.lastDocs)
	}
}

func TestDocumentsValidation(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakePipeline{}, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/documents", `{"documents":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty batch: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s.Handler(), http.MethodPost, "/api/documents", `{"documents":[{"content":""}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty content: status = %d, want 400", rec.Code)
	}
}

func TestDocumentsIngestErrorMapsTo500(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{
		ingestResult: &pipeline.IngestResult{
			Status:  pipeline.StatusError,
			Message: "Error adding documents: embed failed",
		},
	}
	s := newTestServer(t, fake, nil)

	body := `{"documents":[{"content":"some text"}]}`
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/documents", body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var result pipeline.IngestResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != pipeline.StatusError {
		t.Errorf("Status = %q, want error", result.Status)
	}
}

func TestSampleDocumentsEndpoint(t *testing.T) {
	// Not parallel: swaps the package-level sampleDocuments hook.
	orig := sampleDocuments
	defer func() { sampleDocuments = orig }()
	sampleDocuments = func() []rag.Document {
		return []rag.Document{{Content: "tiny corpus", Source: "test"}}
	}

	fake := &fakePipeline{}
	s := newTestServer(t, fake, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/documents/samples", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(fake.lastDocs) != 1 || fake.lastDocs[0].Content != "tiny corpus" {
		t.Errorf("sample corpus not forwarded: %+v", fake.lastDocs)
	}
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakePipeline{}, nil)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var stats pipeline.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.Index.TotalDocuments != 3 {
		t.Errorf("TotalDocuments = %d, want 3", stats.Index.TotalDocuments)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakePipeline{}, nil)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestReadyReportsFailingDependency(t *testing.T) {
	t.Parallel()

	failing := PingerFunc{
		Label: "qdrant",
		Fn: func(context.Context) error {
			return context.DeadlineExceeded
		},
	}
	healthy := PingerFunc{
		Label: "ollama",
		Fn:    func(context.Context) error { return nil },
	}

	s := newTestServer(t, &fakePipeline{}, &Config{Pingers: []Pinger{healthy, failing}})

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var resp readyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Ready {
		t.Error("Ready = true, want false")
	}
	if len(resp.Checks) != 2 {
		t.Fatalf("len(Checks) = %d, want 2", len(resp.Checks))
	}
	if !resp.Checks[0].OK || resp.Checks[1].OK {
		t.Errorf("check results = %+v", resp.Checks)
	}
}

func TestReadyAllHealthy(t *testing.T) {
	t.Parallel()

	healthy := PingerFunc{Label: "qdrant", Fn: func(context.Context) error { return nil }}
	s := newTestServer(t, &fakePipeline{}, &Config{Pingers: []Pinger{healthy}})

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuthRequiredWhenKeySet(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakePipeline{}, &Config{APIKey: "sekret"})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat", `{"query":"hi"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); !strings.Contains(got, `Bearer realm="voyago"`) {
		t.Errorf("WWW-Authenticate = %q", got)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"hi"}`))
	req.Header.Set("Authorization", "Bearer wrong")
	rec2 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec2, req)
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d, want 401", rec2.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"hi"}`))
	req.Header.Set("Authorization", "Bearer sekret")
	rec3 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec3, req)
	if rec3.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200", rec3.Code)
	}
}

func TestHealthOpenWithoutAuth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakePipeline{}, &Config{APIKey: "sekret"})

	for _, path := range []string{"/api/health", "/metrics"} {
		rec := doJSON(t, s.Handler(), http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200 without auth", path, rec.Code)
		}
	}
}

func TestRateLimitReturns429(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakePipeline{}, &Config{RateLimit: 1, RateBurst: 1})

	// First request consumes the only burst token.
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat", `{"query":"hi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, s.Handler(), http.MethodPost, "/api/chat", `{"query":"hi"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", ""},
		{"well formed", "Bearer abc123", "abc123"},
		{"case insensitive scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if got := bearerToken(req); got != tc.want {
				t.Errorf("bearerToken(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}
