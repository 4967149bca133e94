// Package rag defines the contracts shared by the retrieval-augmented
// generation pipeline: travel documents, retrieved results, metadata filters,
// and the embedding / vector-storage interfaces. Concrete implementations
// (Qdrant, in-memory) satisfy these interfaces so the index and retriever
// never depend on a specific backend.
package rag

import (
	"context"
)

// Default metadata tags applied when a Document leaves them empty.
const (
	// DefaultDestination tags documents that are not about one specific place.
	DefaultDestination = "general"
	// DefaultCategory tags documents with no explicit category.
	DefaultCategory = "guide"
)

// Metadata keys stored alongside every indexed record.
const (
	MetaSource      = "source"
	MetaTitle       = "title"
	MetaDestination = "destination"
	MetaCategory    = "category"
)

// Document is a unit of travel knowledge handed to the index for ingestion.
// Documents are immutable once created; the index assigns ids and embeddings.
type Document struct {
	// Content is the full text of the document.
	Content string `json:"content"`

	// Source is the origin of the document (URL, file path, or corpus name).
	Source string `json:"source,omitempty"`

	// Title is a short human-readable title.
	Title string `json:"title,omitempty"`

	// Destination is the travel destination tag (e.g. "Paris").
	// Empty means DefaultDestination.
	Destination string `json:"destination,omitempty"`

	// Category classifies the document (e.g. "city_guide", "travel_tips").
	// Empty means DefaultCategory.
	Category string `json:"category,omitempty"`
}

// Retrieved is one search result: a reference to an indexed record's content
// and metadata plus the similarity score assigned during retrieval.
type Retrieved struct {
	// ID is the unique identifier assigned by the index at add time.
	ID string `json:"id"`

	// Content is the full document text, verbatim.
	Content string `json:"content"`

	// Metadata holds the record's source/title/destination/category tags.
	Metadata map[string]string `json:"metadata"`

	// Score is the cosine similarity to the query (higher is more similar).
	Score float32 `json:"score"`
}

// Destination returns the record's destination tag, falling back to
// DefaultDestination when the metadata is missing the key.
func (r Retrieved) Destination() string {
	if d := r.Metadata[MetaDestination]; d != "" {
		return d
	}
	return DefaultDestination
}

// Category returns the record's category tag, falling back to DefaultCategory.
func (r Retrieved) Category() string {
	if c := r.Metadata[MetaCategory]; c != "" {
		return c
	}
	return DefaultCategory
}

// Source returns the record's source tag, or "Unknown" when absent.
func (r Retrieved) Source() string {
	if s := r.Metadata[MetaSource]; s != "" {
		return s
	}
	return "Unknown"
}

// UserPreferences captures the optional fields of a travel-plan request.
// Zero values mean "not provided": absent fields are omitted from derived
// queries and prompts, never defaulted.
type UserPreferences struct {
	// Destination is the desired travel destination.
	Destination string `json:"destination,omitempty"`

	// Budget describes the budget level (e.g. "Mid-range").
	Budget string `json:"budget,omitempty"`

	// Duration describes the trip length (e.g. "5 days").
	Duration string `json:"duration,omitempty"`

	// Interests is the ordered list of interest tags (e.g. Museums, Food).
	Interests []string `json:"interests,omitempty"`

	// TravelStyle describes the preferred style (e.g. "Relaxed").
	TravelStyle string `json:"travel_style,omitempty"`
}

// Filter is a conjunction of exact-match metadata predicates applied during
// search. Empty fields impose no constraint.
type Filter struct {
	// Destination restricts results to one destination tag.
	Destination string

	// Category restricts results to one category tag.
	Category string
}

// IsZero reports whether the filter imposes no constraints.
func (f Filter) IsZero() bool {
	return f.Destination == "" && f.Category == ""
}

// Matches reports whether the given metadata satisfies every predicate.
func (f Filter) Matches(metadata map[string]string) bool {
	if f.Destination != "" && metadata[MetaDestination] != f.Destination {
		return false
	}
	if f.Category != "" && metadata[MetaCategory] != f.Category {
		return false
	}
	return true
}

// Embedder converts text into dense vector embeddings. For a given model
// identity the output must be deterministic, with a fixed dimensionality.
// Implementations must be safe to call from multiple goroutines.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the length of the vectors this embedder produces.
	Dimensions() int
}

// Record is a document prepared for storage: content, assigned id, metadata,
// and the pre-computed embedding vector.
type Record struct {
	// ID is the unique identifier for this record.
	ID string

	// Content is the document text.
	Content string

	// Metadata holds the source/title/destination/category tags.
	Metadata map[string]string

	// Embedding is the pre-computed vector for Content.
	Embedding []float32
}

// VectorStore persists records and answers nearest-neighbour queries.
// Records are append-only: they are never updated in place, only added in
// batches or removed by a full Clear. A batch Upsert must not be observable
// as a partial write; concurrent readers see either the pre-add or the
// post-add state. Implementations must be safe for concurrent use.
type VectorStore interface {
	// Upsert stores a batch of records as one atomic unit.
	Upsert(ctx context.Context, records []Record) error

	// Search returns up to topK records nearest to the query embedding,
	// sorted by non-increasing cosine similarity, restricted to records
	// whose metadata satisfies the filter.
	Search(ctx context.Context, queryEmbedding []float32, topK int, filter Filter) ([]Retrieved, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Clear irreversibly removes all records.
	Clear(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
