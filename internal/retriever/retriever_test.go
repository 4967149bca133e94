package retriever

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/voyago/voyago-go/internal/rag"
)

// fakeSearcher records the last search and returns canned results.
type fakeSearcher struct {
	results   []rag.Retrieved
	err       error
	lastQuery string
	lastN     int
	lastFilt  rag.Filter
}

func (f *fakeSearcher) Search(_ context.Context, queryText string, n int, filter rag.Filter) []rag.Retrieved {
	f.lastQuery = queryText
	f.lastN = n
	f.lastFilt = filter
	if f.err != nil {
		return nil
	}
	return f.results
}

func (f *fakeSearcher) Query(_ context.Context, queryText string, n int, filter rag.Filter) ([]rag.Retrieved, error) {
	f.lastQuery = queryText
	f.lastN = n
	f.lastFilt = filter
	return f.results, f.err
}

func retrieved(id, dest, cat, src, content string) rag.Retrieved {
	return rag.Retrieved{
		ID:      id,
		Content: content,
		Metadata: map[string]string{
			rag.MetaDestination: dest,
			rag.MetaCategory:    cat,
			rag.MetaSource:      src,
		},
	}
}

func Test_RetrieveContext_DefaultsTopK(t *testing.T) {
	t.Parallel()
	fake := &fakeSearcher{}
	r := New(fake, nil)

	r.RetrieveContext(context.Background(), "things to do in Paris", 0)
	if fake.lastN != DefaultTopK {
		t.Errorf("n = %d, want default %d", fake.lastN, DefaultTopK)
	}
	if fake.lastQuery != "things to do in Paris" {
		t.Errorf("query = %q, want it passed verbatim", fake.lastQuery)
	}
	if !fake.lastFilt.IsZero() {
		t.Errorf("context retrieval must be unfiltered, got %+v", fake.lastFilt)
	}
}

func Test_Recommendations_FiltersByDestination(t *testing.T) {
	t.Parallel()
	fake := &fakeSearcher{}
	r := New(fake, nil)

	r.Recommendations(context.Background(), rag.UserPreferences{Destination: "Tokyo"})
	if fake.lastFilt.Destination != "Tokyo" {
		t.Errorf("filter destination = %q, want Tokyo", fake.lastFilt.Destination)
	}
	if fake.lastN != recommendationTopK {
		t.Errorf("n = %d, want %d", fake.lastN, recommendationTopK)
	}
}

func Test_PreferenceQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		prefs rag.UserPreferences
		want  string
	}{
		{
			name: "all fields",
			prefs: rag.UserPreferences{
				Destination: "Paris",
				Budget:      "mid-range",
				Duration:    "5 days",
				Interests:   []string{"museums", "food"},
			},
			want: "travel to Paris budget mid-range 5 days activities: museums, food",
		},
		{
			name:  "destination only",
			prefs: rag.UserPreferences{Destination: "Tokyo"},
			want:  "travel to Tokyo",
		},
		{
			name: "travel style never reaches the query",
			prefs: rag.UserPreferences{
				Destination: "Paris",
				TravelStyle: "Relaxed",
			},
			want: "travel to Paris",
		},
		{
			name:  "travel style alone falls back",
			prefs: rag.UserPreferences{TravelStyle: "Relaxed"},
			want:  "travel recommendations",
		},
		{
			name:  "interests only",
			prefs: rag.UserPreferences{Interests: []string{"hiking"}},
			want:  "activities: hiking",
		},
		{
			name: "empty falls back",
			want: "travel recommendations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PreferenceQuery(tt.prefs); got != tt.want {
				t.Errorf("PreferenceQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_SearchDestinations_DistinctSortedWithoutDefault(t *testing.T) {
	t.Parallel()
	fake := &fakeSearcher{results: []rag.Retrieved{
		retrieved("1", "Tokyo", "city_guide", "a.txt", "x"),
		retrieved("2", "Paris", "city_guide", "b.txt", "x"),
		retrieved("3", "Tokyo", "food", "c.txt", "x"),
		retrieved("4", "General", "guide", "d.txt", "x"),
		retrieved("5", rag.DefaultDestination, "guide", "e.txt", "x"),
	}}
	r := New(fake, nil)

	got, err := r.SearchDestinations(context.Background(), "asia and europe")
	if err != nil {
		t.Fatalf("search destinations: %v", err)
	}
	want := []string{"Paris", "Tokyo"}
	if len(got) != len(want) {
		t.Fatalf("destinations = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("destinations[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if fake.lastN != destinationSearchTopK {
		t.Errorf("n = %d, want %d", fake.lastN, destinationSearchTopK)
	}
}

func Test_SearchDestinations_SurfacesErrors(t *testing.T) {
	t.Parallel()
	fake := &fakeSearcher{err: fmt.Errorf("store offline")}
	r := New(fake, nil)

	if _, err := r.SearchDestinations(context.Background(), "europe"); err == nil {
		t.Fatal("expected error to surface")
	}
}

func Test_DestinationInfo_FiltersAndQueries(t *testing.T) {
	t.Parallel()
	fake := &fakeSearcher{}
	r := New(fake, nil)

	r.DestinationInfo(context.Background(), "Kyoto")
	if fake.lastFilt.Destination != "Kyoto" {
		t.Errorf("filter destination = %q, want Kyoto", fake.lastFilt.Destination)
	}
	if !strings.Contains(fake.lastQuery, "Kyoto") {
		t.Errorf("query %q should name the destination", fake.lastQuery)
	}
	if fake.lastN != destinationInfoTopK {
		t.Errorf("n = %d, want %d", fake.lastN, destinationInfoTopK)
	}
}

func Test_BuildContextPrompt(t *testing.T) {
	t.Parallel()

	results := []rag.Retrieved{
		retrieved("1", "Paris", "city_guide", "paris.txt", "The Louvre is the world's largest art museum."),
		retrieved("2", "Paris", "food", "food.txt", "Paris bistros serve classic French dishes."),
	}
	prompt := BuildContextPrompt("what to do in Paris", results)

	if !strings.HasPrefix(prompt, "Query: what to do in Paris\n\nRelevant travel information:") {
		t.Errorf("prompt header wrong:\n%s", prompt)
	}
	for i := range results {
		if !strings.Contains(prompt, fmt.Sprintf("--- Document %d ---", i+1)) {
			t.Errorf("prompt missing delimiter for document %d", i+1)
		}
		if !strings.Contains(prompt, results[i].Content) {
			t.Errorf("prompt missing full content of document %d", i+1)
		}
	}
	if !strings.Contains(prompt, "Source: paris.txt | Destination: Paris | Category: city_guide") {
		t.Errorf("prompt missing provenance line:\n%s", prompt)
	}

	// Documents must appear in retrieval order.
	first := strings.Index(prompt, results[0].Content)
	second := strings.Index(prompt, results[1].Content)
	if first < 0 || second < 0 || first > second {
		t.Errorf("documents out of retrieval order")
	}
}

func Test_BuildContextPrompt_Empty(t *testing.T) {
	t.Parallel()

	prompt := BuildContextPrompt("underwater basket weaving tours", nil)
	want := "Query: underwater basket weaving tours\n\nNo relevant travel information found."
	if prompt != want {
		t.Errorf("empty-context prompt = %q, want %q", prompt, want)
	}
}
