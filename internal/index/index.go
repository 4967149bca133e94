// Package index implements the embedding index at the heart of the pipeline:
// it pairs an embedding backend with a vector store, assigns record ids,
// enforces batch atomicity on ingestion, and provides the fail-soft search
// path the retriever builds on.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voyago/voyago-go/internal/rag"
)

const (
	// defaultEmbedTimeout bounds each embedding batch call. Embedding is an
	// unbounded external operation; a timeout converts a hung backend into
	// the normal error path.
	defaultEmbedTimeout = 30 * time.Second

	// defaultSearchTimeout bounds each vector store query.
	defaultSearchTimeout = 15 * time.Second
)

// Config holds the dependencies required to construct an EmbeddingIndex.
type Config struct {
	// Embedder converts document and query text into vectors.
	Embedder rag.Embedder

	// Store persists records and answers nearest-neighbour queries.
	Store rag.VectorStore

	// Name identifies this index in stats responses (e.g. the collection name).
	Name string

	// Logger is the structured logger. Defaults to slog.Default if nil.
	Logger *slog.Logger

	// Metrics is the optional Prometheus instrumentation. Nil disables it.
	Metrics *Metrics

	// EmbedTimeout bounds each embedding call. Defaults to 30s if zero.
	EmbedTimeout time.Duration

	// SearchTimeout bounds each vector store query. Defaults to 15s if zero.
	SearchTimeout time.Duration
}

// Stats describes the current state of an index.
type Stats struct {
	// TotalDocuments is the number of records currently stored.
	TotalDocuments int `json:"total_documents"`

	// Collection is the index identity (collection or store name).
	Collection string `json:"collection"`
}

// EmbeddingIndex stores travel documents with their embeddings and serves
// similarity searches with conjunctive metadata filters. Records are
// append-only; the only destructive operation is a full Clear. Safe for
// concurrent use as long as the underlying store is.
type EmbeddingIndex struct {
	// embedder converts text to vectors.
	embedder rag.Embedder

	// store is the backing vector store.
	store rag.VectorStore

	// name is the index identity reported by Stats.
	name string

	// log is the structured logger.
	log *slog.Logger

	// metrics is the optional Prometheus instrumentation.
	metrics *Metrics

	// embedTimeout bounds each embedding call.
	embedTimeout time.Duration

	// searchTimeout bounds each vector store query.
	searchTimeout time.Duration
}

// New constructs an EmbeddingIndex from the given config.
func New(cfg *Config) (*EmbeddingIndex, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("index: embedder must not be nil")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("index: store must not be nil")
	}
	if cfg.Name == "" {
		cfg.Name = "voyago-travel"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = defaultEmbedTimeout
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = defaultSearchTimeout
	}

	return &EmbeddingIndex{
		embedder:      cfg.Embedder,
		store:         cfg.Store,
		name:          cfg.Name,
		log:           cfg.Logger,
		metrics:       cfg.Metrics,
		embedTimeout:  cfg.EmbedTimeout,
		searchTimeout: cfg.SearchTimeout,
	}, nil
}

// Add embeds and stores a batch of documents, returning the number added.
// The batch is one logical unit: embeddings are computed for every document
// before anything is stored, and the store applies the batch as a single
// upsert, so a failure at any point leaves the index unchanged. Documents
// with empty destination or category tags receive the defaults.
func (ix *EmbeddingIndex) Add(ctx context.Context, docs []rag.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	embedCtx, cancel := context.WithTimeout(ctx, ix.embedTimeout)
	embeddings, err := ix.embedder.Embed(embedCtx, texts)
	cancel()
	if err != nil {
		ix.metrics.observeIngest("error", 0)
		return 0, fmt.Errorf("index: embedding batch of %d documents failed: %w", len(docs), err)
	}
	if len(embeddings) != len(docs) {
		ix.metrics.observeIngest("error", 0)
		return 0, fmt.Errorf("index: embedder returned %d vectors for %d documents", len(embeddings), len(docs))
	}

	records := make([]rag.Record, len(docs))
	for i, doc := range docs {
		records[i] = rag.Record{
			ID:        uuid.NewString(),
			Content:   doc.Content,
			Embedding: embeddings[i],
			Metadata:  documentMetadata(doc),
		}
	}

	if err := ix.store.Upsert(ctx, records); err != nil {
		ix.metrics.observeIngest("error", 0)
		return 0, fmt.Errorf("index: storing batch of %d documents failed: %w", len(docs), err)
	}

	ix.metrics.observeIngest("ok", len(docs))
	ix.log.Info("index: documents added", slog.Int("count", len(docs)))
	return len(docs), nil
}

// documentMetadata derives the stored metadata map from a Document,
// applying the default destination and category tags.
func documentMetadata(doc rag.Document) map[string]string {
	dest := doc.Destination
	if dest == "" {
		dest = rag.DefaultDestination
	}
	cat := doc.Category
	if cat == "" {
		cat = rag.DefaultCategory
	}
	return map[string]string{
		rag.MetaSource:      doc.Source,
		rag.MetaTitle:       doc.Title,
		rag.MetaDestination: dest,
		rag.MetaCategory:    cat,
	}
}

// Query embeds the query text and returns up to n results sorted by
// non-increasing similarity, restricted by the filter. Unlike Search it
// propagates errors; the orchestrator uses it where failures must surface.
func (ix *EmbeddingIndex) Query(ctx context.Context, queryText string, n int, filter rag.Filter) ([]rag.Retrieved, error) {
	if n <= 0 {
		return nil, nil
	}

	embedCtx, cancel := context.WithTimeout(ctx, ix.embedTimeout)
	embeddings, err := ix.embedder.Embed(embedCtx, []string{queryText})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("index: embedding query failed: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("index: embedder returned no vector for query")
	}

	searchCtx, cancel := context.WithTimeout(ctx, ix.searchTimeout)
	defer cancel()
	results, err := ix.store.Search(searchCtx, embeddings[0], n, filter)
	if err != nil {
		return nil, fmt.Errorf("index: vector search failed: %w", err)
	}
	return results, nil
}

// Search is the fail-soft read path: any internal error (or an empty index)
// yields an empty result list, never an error. Retrieval failure must not
// abort the surrounding pipeline; degraded answers beat no answers.
func (ix *EmbeddingIndex) Search(ctx context.Context, queryText string, n int, filter rag.Filter) []rag.Retrieved {
	results, err := ix.Query(ctx, queryText, n, filter)
	if err != nil {
		ix.metrics.observeSearch("error")
		ix.log.Error("index: search failed, returning empty result set",
			slog.String("query", queryText),
			slog.Any("error", err),
		)
		return nil
	}
	ix.metrics.observeSearch("ok")
	return results
}

// Stats returns the current document count and the index identity.
func (ix *EmbeddingIndex) Stats(ctx context.Context) (Stats, error) {
	count, err := ix.store.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("index: count failed: %w", err)
	}
	return Stats{TotalDocuments: count, Collection: ix.name}, nil
}

// Clear irreversibly removes all records from the index.
func (ix *EmbeddingIndex) Clear(ctx context.Context) error {
	if err := ix.store.Clear(ctx); err != nil {
		return fmt.Errorf("index: clear failed: %w", err)
	}
	ix.log.Info("index: cleared")
	return nil
}
