package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process VectorStore using brute-force cosine
// similarity. It is the default store when no Qdrant instance is configured
// and the store used throughout the test suite. All operations take a
// snapshot under the lock, so readers never observe a partial batch.
type MemoryStore struct {
	// mu serializes writes and protects the record slice.
	mu sync.RWMutex

	// dimensions is the fixed embedding vector length, set at construction.
	dimensions int

	// records is the append-only record list.
	records []Record
}

// NewMemoryStore constructs a MemoryStore for vectors of the given length.
func NewMemoryStore(dimensions int) (*MemoryStore, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("memory store: dimensions must be positive, got %d", dimensions)
	}
	return &MemoryStore{dimensions: dimensions}, nil
}

// Upsert appends a batch of records under the write lock. The whole batch is
// validated before any record is stored, so a dimension mismatch leaves the
// store unchanged.
func (s *MemoryStore) Upsert(_ context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		if len(rec.Embedding) != s.dimensions {
			return fmt.Errorf("memory store: record %s has %d dimensions, store expects %d",
				rec.ID, len(rec.Embedding), s.dimensions)
		}
	}

	s.records = append(s.records, records...)
	return nil
}

// Search scores every stored record against the query embedding and returns
// the topK best matches that satisfy the filter, sorted by non-increasing
// cosine similarity.
func (s *MemoryStore) Search(_ context.Context, queryEmbedding []float32, topK int, filter Filter) ([]Retrieved, error) {
	if len(queryEmbedding) != s.dimensions {
		return nil, fmt.Errorf("memory store: query has %d dimensions, store expects %d",
			len(queryEmbedding), s.dimensions)
	}
	if topK <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Retrieved, 0, len(s.records))
	for _, rec := range s.records {
		if !filter.Matches(rec.Metadata) {
			continue
		}
		results = append(results, Retrieved{
			ID:       rec.ID,
			Content:  rec.Content,
			Metadata: rec.Metadata,
			Score:    cosine(queryEmbedding, rec.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Clear removes all records.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// cosine returns the cosine similarity of a and b. Vectors of unequal length
// are compared over their common prefix; zero vectors score 0.
func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
