package rag

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantConfig holds connection parameters for a Qdrant vector store instance.
type QdrantConfig struct {
	// Host is the Qdrant server hostname (default: localhost).
	Host string

	// Port is the Qdrant gRPC port (default: 6334).
	Port int

	// Collection is the Qdrant collection name to use.
	Collection string

	// VectorSize is the dimensionality of the embeddings stored in this collection.
	VectorSize uint64

	// APIKey is the optional Qdrant API key for authenticated clusters.
	APIKey string

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool
}

// QdrantStore implements VectorStore backed by a Qdrant instance.
// The collection is created with cosine distance, so scores returned by
// Search are cosine similarities (higher is more similar).
type QdrantStore struct {
	// client is the underlying Qdrant gRPC client.
	client *qdrant.Client

	// cfg holds the resolved configuration for this store.
	cfg *QdrantConfig
}

// NewQdrantStore creates a new QdrantStore, ensuring the target collection
// exists (creating it if necessary), and returns a ready-to-use VectorStore.
func NewQdrantStore(ctx context.Context, cfg *QdrantConfig) (*QdrantStore, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}
	if cfg.Collection == "" {
		cfg.Collection = "voyago-travel"
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to create client: %w", err)
	}

	store := &QdrantStore{client: client, cfg: cfg}
	if err := store.ensureCollection(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// Client exposes the underlying gRPC client for readiness probes.
func (s *QdrantStore) Client() *qdrant.Client { return s.client }

// ensureCollection creates the Qdrant collection if it does not already exist.
func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant: failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.cfg.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.cfg.VectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: failed to create collection %q: %w", s.cfg.Collection, err)
	}

	return nil
}

// Upsert stores a batch of records with their pre-computed embeddings.
// Qdrant applies the batch as one request, so a failed call leaves no
// partial state behind.
func (s *QdrantStore) Upsert(ctx context.Context, records []Record) error {
	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, rec := range records {
		payload := map[string]interface{}{
			"content": rec.Content,
		}
		for k, v := range rec.Metadata {
			payload[k] = v
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(rec.ID),
			Vectors: qdrant.NewVectors(rec.Embedding...),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.cfg.Collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert failed: %w", err)
	}

	return nil
}

// Search performs a cosine similarity search constrained by the filter and
// returns the top-k results sorted by non-increasing similarity.
func (s *QdrantStore) Search(ctx context.Context, queryEmbedding []float32, topK int, filter Filter) ([]Retrieved, error) {
	limit := uint64(topK) //nolint:gosec // topK is a small positive result count
	query := &qdrant.QueryPoints{
		CollectionName: s.cfg.Collection,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if cond := filterConditions(filter); len(cond) > 0 {
		query.Filter = &qdrant.Filter{Must: cond}
	}

	results, err := s.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("qdrant: search failed: %w", err)
	}

	items := make([]Retrieved, 0, len(results))
	for _, r := range results {
		item := Retrieved{
			ID:       r.Id.GetUuid(),
			Score:    r.Score,
			Metadata: make(map[string]string),
		}
		for k, v := range r.Payload {
			if k == "content" {
				item.Content = v.GetStringValue()
				continue
			}
			item.Metadata[k] = v.GetStringValue()
		}
		items = append(items, item)
	}

	return items, nil
}

// filterConditions converts a Filter into exact-match Qdrant conditions.
func filterConditions(filter Filter) []*qdrant.Condition {
	var conditions []*qdrant.Condition
	if filter.Destination != "" {
		conditions = append(conditions, qdrant.NewMatch(MetaDestination, filter.Destination))
	}
	if filter.Category != "" {
		conditions = append(conditions, qdrant.NewMatch(MetaCategory, filter.Category))
	}
	return conditions
}

// Count returns the exact number of points in the collection.
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	exact := true
	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.cfg.Collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant: count failed: %w", err)
	}
	return int(n), nil //nolint:gosec // collection sizes fit in int on 64-bit
}

// Clear drops the collection and recreates it empty.
func (s *QdrantStore) Clear(ctx context.Context) error {
	if err := s.client.DeleteCollection(ctx, s.cfg.Collection); err != nil {
		return fmt.Errorf("qdrant: delete collection failed: %w", err)
	}
	return s.ensureCollection(ctx)
}

// Close closes the underlying Qdrant gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}
