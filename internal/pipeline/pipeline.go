// Package pipeline is the orchestrator that ties retrieval, context assembly,
// and generation into the five user-facing operations: free-text queries,
// preference-driven travel plans, destination summaries, destination search,
// and document ingestion.
//
// Read operations are fail-soft: every result is fully shaped even when a
// stage fails, and a generation failure never discards what retrieval found.
// Ingestion is fail-loud: callers asked to add documents learn whether the
// documents were actually added.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voyago/voyago-go/internal/budget"
	"github.com/voyago/voyago-go/internal/generator"
	"github.com/voyago/voyago-go/internal/history"
	"github.com/voyago/voyago-go/internal/index"
	"github.com/voyago/voyago-go/internal/rag"
	"github.com/voyago/voyago-go/internal/retriever"
)

// Ingest statuses reported by AddDocuments.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// contextRetriever is the slice of the retriever the pipeline needs.
type contextRetriever interface {
	RetrieveContext(ctx context.Context, query string, n int) []rag.Retrieved
	Recommendations(ctx context.Context, prefs rag.UserPreferences) []rag.Retrieved
	DestinationInfo(ctx context.Context, destination string) []rag.Retrieved
	SearchDestinations(ctx context.Context, searchTerm string) ([]string, error)
}

// ingester is the slice of the embedding index the pipeline needs.
type ingester interface {
	Add(ctx context.Context, docs []rag.Document) (int, error)
	Stats(ctx context.Context) (index.Stats, error)
	Clear(ctx context.Context) error
}

// Config holds the dependencies required to construct a Pipeline.
type Config struct {
	// Index is the embedding index used for ingestion and stats.
	Index ingester

	// Retriever executes similarity searches over the index.
	Retriever contextRetriever

	// Generator produces the natural-language answers.
	Generator generator.Generator

	// History is the optional exchange log. Nil disables recording.
	History history.Store

	// Logger is the structured logger. Defaults to slog.Default if nil.
	Logger *slog.Logger

	// Metrics is the optional Prometheus instrumentation. Nil disables it.
	Metrics *Metrics

	// MaxContextTokens is the estimated token budget for assembled context.
	// Context is never trimmed to fit; exceeding the budget logs a warning.
	// Defaults to budget.DefaultMaxContextTokens if zero.
	MaxContextTokens int
}

// Pipeline orchestrates the travel RAG operations.
type Pipeline struct {
	// index handles ingestion, stats, and clearing.
	index ingester

	// retriever executes similarity searches.
	retriever contextRetriever

	// generator produces answers; fixed at construction to live or mock.
	generator generator.Generator

	// hist is the optional exchange log.
	hist history.Store

	// log is the structured logger.
	log *slog.Logger

	// metrics is the optional Prometheus instrumentation.
	metrics *Metrics

	// maxContextTokens is the context budget used for overflow warnings.
	maxContextTokens int
}

// New constructs a Pipeline from the given config.
func New(cfg *Config) (*Pipeline, error) {
	if cfg.Index == nil {
		return nil, fmt.Errorf("pipeline: index must not be nil")
	}
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("pipeline: retriever must not be nil")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("pipeline: generator must not be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxContextTokens <= 0 {
		cfg.MaxContextTokens = budget.DefaultMaxContextTokens
	}
	return &Pipeline{
		index:            cfg.Index,
		retriever:        cfg.Retriever,
		generator:        cfg.Generator,
		hist:             cfg.History,
		log:              cfg.Logger,
		metrics:          cfg.Metrics,
		maxContextTokens: cfg.MaxContextTokens,
	}, nil
}

// QueryResult is the fully-shaped result of a free-text travel query.
type QueryResult struct {
	// Query is the user's question, echoed verbatim.
	Query string `json:"query"`
	// Response is the generated answer.
	Response string `json:"response"`
	// Retrieved is the documents that informed the answer, best match first.
	Retrieved []rag.Retrieved `json:"retrieved_documents"`
	// Context is the assembled context prompt handed to generation.
	Context string `json:"context"`
}

// ProcessQuery runs the full retrieve/assemble/generate pipeline for a
// free-text travel question. n <= 0 uses the default result count. Every
// stage is fail-soft: with retrieval down the model still answers from the
// no-context prompt, and with generation down the result still carries what
// retrieval found.
func (p *Pipeline) ProcessQuery(ctx context.Context, query string, n int) QueryResult {
	defer p.metrics.observe("query", time.Now())

	retrieved := p.retriever.RetrieveContext(ctx, query, n)
	contextPrompt := retriever.BuildContextPrompt(query, retrieved)
	p.checkBudget(contextPrompt)

	response := p.generator.Respond(ctx, query, contextPrompt)
	p.record(ctx, history.OpQuery, query, response)

	return QueryResult{
		Query:     query,
		Response:  response,
		Retrieved: retrieved,
		Context:   contextPrompt,
	}
}

// PlanResult is the fully-shaped result of a travel plan request.
type PlanResult struct {
	// Preferences echoes the user's stated preferences.
	Preferences rag.UserPreferences `json:"user_preferences"`
	// TravelPlan is the generated itinerary.
	TravelPlan string `json:"travel_plan"`
	// Recommendations is the documents retrieved for the preferences.
	Recommendations []rag.Retrieved `json:"recommendations"`
	// Context is the assembled context prompt handed to generation.
	Context string `json:"context"`
}

// CreateTravelPlan retrieves recommendations matching the preferences and
// generates an itinerary from them. The context prompt is keyed by a
// synthetic query naming the destination, falling back to "travel" when no
// destination is stated.
func (p *Pipeline) CreateTravelPlan(ctx context.Context, prefs rag.UserPreferences) PlanResult {
	defer p.metrics.observe("plan", time.Now())

	recommendations := p.retriever.Recommendations(ctx, prefs)

	subject := prefs.Destination
	if subject == "" {
		subject = "travel"
	}
	contextPrompt := retriever.BuildContextPrompt(fmt.Sprintf("travel plan for %s", subject), recommendations)
	p.checkBudget(contextPrompt)

	plan := p.generator.TravelPlan(ctx, prefs, contextPrompt)
	p.record(ctx, history.OpPlan, retriever.PreferenceQuery(prefs), plan)

	return PlanResult{
		Preferences:     prefs,
		TravelPlan:      plan,
		Recommendations: recommendations,
		Context:         contextPrompt,
	}
}

// DestinationResult is the fully-shaped result of a destination lookup.
type DestinationResult struct {
	// Destination is the requested destination, echoed verbatim.
	Destination string `json:"destination"`
	// Summary is the generated destination overview.
	Summary string `json:"summary"`
	// Documents is the destination-tagged documents retrieved.
	Documents []rag.Retrieved `json:"documents"`
	// Context is the assembled context prompt handed to generation.
	Context string `json:"context"`
}

// DestinationInfo retrieves documents for a single destination and generates
// a summary from them.
func (p *Pipeline) DestinationInfo(ctx context.Context, destination string) DestinationResult {
	defer p.metrics.observe("destination", time.Now())

	docs := p.retriever.DestinationInfo(ctx, destination)
	contextPrompt := retriever.BuildContextPrompt(fmt.Sprintf("information about %s", destination), docs)
	p.checkBudget(contextPrompt)

	summary := p.generator.DestinationSummary(ctx, destination, contextPrompt)
	p.record(ctx, history.OpDestination, destination, summary)

	return DestinationResult{
		Destination: destination,
		Summary:     summary,
		Documents:   docs,
		Context:     contextPrompt,
	}
}

// Destination is one destination search entry.
type Destination struct {
	// Name is the destination tag.
	Name string `json:"destination"`
}

// DestinationSearchResult is the result of a destination discovery search.
type DestinationSearchResult struct {
	// SearchTerm is the user's search term, echoed verbatim.
	SearchTerm string `json:"search_term"`
	// Destinations is one record per distinct matching destination tag, sorted.
	Destinations []Destination `json:"destinations"`
	// Count is len(Destinations).
	Count int `json:"count"`
	// Error describes a failed search; empty on success. An empty result
	// with an empty Error means the search genuinely found nothing.
	Error string `json:"error,omitempty"`
}

// SearchDestinations finds distinct destination tags among documents matching
// the search term. Unlike the other read operations this reports failures,
// so callers can distinguish "no destinations known" from "search broken".
func (p *Pipeline) SearchDestinations(ctx context.Context, searchTerm string) DestinationSearchResult {
	defer p.metrics.observe("search", time.Now())

	destinations, err := p.retriever.SearchDestinations(ctx, searchTerm)
	if err != nil {
		p.log.Error("pipeline: destination search failed",
			slog.String("search_term", searchTerm),
			slog.Any("error", err),
		)
		return DestinationSearchResult{
			SearchTerm:   searchTerm,
			Destinations: []Destination{},
			Error:        err.Error(),
		}
	}

	entries := make([]Destination, 0, len(destinations))
	for _, d := range destinations {
		entries = append(entries, Destination{Name: d})
	}
	return DestinationSearchResult{
		SearchTerm:   searchTerm,
		Destinations: entries,
		Count:        len(entries),
	}
}

// IngestResult reports the outcome of a document ingestion request.
type IngestResult struct {
	// Status is "success" or "error".
	Status string `json:"status"`
	// DocumentsAdded is the number of documents added; zero on failure.
	DocumentsAdded int `json:"documents_added"`
	// Message is a human-readable outcome description.
	Message string `json:"message"`
}

// AddDocuments ingests a batch of documents. This is the fail-loud path: a
// failure is reported in the result status, and the batch is atomic, so a
// reported error means nothing was added.
func (p *Pipeline) AddDocuments(ctx context.Context, docs []rag.Document) IngestResult {
	defer p.metrics.observe("ingest", time.Now())

	added, err := p.index.Add(ctx, docs)
	if err != nil {
		p.log.Error("pipeline: document ingestion failed",
			slog.Int("documents", len(docs)),
			slog.Any("error", err),
		)
		return IngestResult{
			Status:  StatusError,
			Message: fmt.Sprintf("Error adding documents: %v", err),
		}
	}
	return IngestResult{
		Status:         StatusSuccess,
		DocumentsAdded: added,
		Message:        fmt.Sprintf("Successfully added %d documents to the travel knowledge base", added),
	}
}

// Stats describes the current state of the pipeline.
type Stats struct {
	// Index describes the embedding index.
	Index index.Stats `json:"vector_store_stats"`
	// Backend describes the generation backend.
	Backend generator.ModelInfo `json:"model_info"`
}

// Stats returns the index document count and the generation backend info.
func (p *Pipeline) Stats(ctx context.Context) (Stats, error) {
	ixStats, err := p.index.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("pipeline: stats: %w", err)
	}
	return Stats{Index: ixStats, Backend: p.generator.Info()}, nil
}

// Clear irreversibly removes all documents from the index.
func (p *Pipeline) Clear(ctx context.Context) error {
	if err := p.index.Clear(ctx); err != nil {
		return fmt.Errorf("pipeline: clear: %w", err)
	}
	return nil
}

// checkBudget warns when an assembled context prompt exceeds the estimated
// token budget. Context is never trimmed; the result contract promises the
// full prompt that generation saw.
func (p *Pipeline) checkBudget(contextPrompt string) {
	if tokens, over := budget.Check(contextPrompt, p.maxContextTokens); over {
		p.log.Warn("pipeline: context exceeds token budget",
			slog.Int("estimated_tokens", tokens),
			slog.Int("max_tokens", p.maxContextTokens),
		)
	}
}

// record appends an exchange to the history log. Best-effort: failures are
// logged and swallowed.
func (p *Pipeline) record(ctx context.Context, op history.Operation, prompt, response string) {
	if p.hist == nil {
		return
	}
	ex := history.Exchange{Operation: op, Prompt: prompt, Response: response}
	if err := p.hist.Append(ctx, ex); err != nil {
		p.log.Warn("pipeline: failed to record exchange", slog.Any("error", err))
	}
}
