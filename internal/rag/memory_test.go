package rag

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	s, err := NewMemoryStore(3)
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	return s
}

func rec(id string, dest, cat string, vec []float32) Record {
	return Record{
		ID:      id,
		Content: "content of " + id,
		Metadata: map[string]string{
			MetaSource:      id + ".txt",
			MetaDestination: dest,
			MetaCategory:    cat,
		},
		Embedding: vec,
	}
}

func Test_MemoryStore_SearchOrderedBySimilarity(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Upsert(ctx, []Record{
		rec("far", "Tokyo", "guide", []float32{0, 1, 0}),
		rec("near", "Paris", "guide", []float32{1, 0.1, 0}),
		rec("exact", "Paris", "guide", []float32{1, 0, 0}),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.Search(ctx, []float32{1, 0, 0}, 10, Filter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 results, got %d", len(got))
	}
	if got[0].ID != "exact" || got[1].ID != "near" || got[2].ID != "far" {
		t.Errorf("wrong order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("scores not non-increasing at %d: %v > %v", i, got[i].Score, got[i-1].Score)
		}
	}
}

func Test_MemoryStore_SearchRespectsTopK(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Upsert(ctx, []Record{
		rec("a", "Paris", "guide", []float32{1, 0, 0}),
		rec("b", "Paris", "guide", []float32{0.9, 0.1, 0}),
		rec("c", "Paris", "guide", []float32{0.8, 0.2, 0}),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.Search(ctx, []float32{1, 0, 0}, 2, Filter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("want 2 results, got %d", len(got))
	}
}

func Test_MemoryStore_SearchConjunctiveFilter(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Upsert(ctx, []Record{
		rec("paris-guide", "Paris", "city_guide", []float32{1, 0, 0}),
		rec("paris-tips", "Paris", "travel_tips", []float32{1, 0, 0}),
		rec("tokyo-guide", "Tokyo", "city_guide", []float32{1, 0, 0}),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.Search(ctx, []float32{1, 0, 0}, 10, Filter{Destination: "Paris", Category: "city_guide"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 result, got %d", len(got))
	}
	if got[0].ID != "paris-guide" {
		t.Errorf("want paris-guide, got %s", got[0].ID)
	}
}

func Test_MemoryStore_UpsertDimensionMismatchIsAtomic(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Upsert(ctx, []Record{
		rec("ok", "Paris", "guide", []float32{1, 0, 0}),
		rec("bad", "Paris", "guide", []float32{1, 0}),
	})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("failed batch must not be stored, count = %d", n)
	}
}

func Test_MemoryStore_Clear(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, []Record{rec("a", "Paris", "guide", []float32{1, 0, 0})}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("want empty store after clear, count = %d", n)
	}
}

func Test_Filter_Matches(t *testing.T) {
	t.Parallel()

	meta := map[string]string{MetaDestination: "Paris", MetaCategory: "city_guide"}

	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter matches all", Filter{}, true},
		{"destination match", Filter{Destination: "Paris"}, true},
		{"destination mismatch", Filter{Destination: "Tokyo"}, false},
		{"conjunction match", Filter{Destination: "Paris", Category: "city_guide"}, true},
		{"conjunction partial mismatch", Filter{Destination: "Paris", Category: "travel_tips"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Matches(meta); got != tc.want {
				t.Errorf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}
