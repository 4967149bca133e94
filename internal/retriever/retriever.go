// Package retriever sits between the embedding index and the pipeline
// orchestrator. It turns user intent (free-text queries, structured travel
// preferences, destination names) into similarity searches and assembles the
// retrieved documents into the context prompt handed to generation.
package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/voyago/voyago-go/internal/rag"
)

// Result counts per retrieval mode. Recommendations cast a wider net than a
// direct query because preference-derived queries are vaguer; destination
// discovery goes wider still so distinct destinations survive deduplication.
const (
	// DefaultTopK is the result count for direct context retrieval when the
	// caller does not specify one.
	DefaultTopK = 5

	// recommendationTopK is the result count for preference-driven retrieval.
	recommendationTopK = 8

	// destinationSearchTopK is the result count for destination discovery.
	destinationSearchTopK = 10

	// destinationInfoTopK is the result count for single-destination lookups.
	destinationInfoTopK = 5
)

// searcher is the slice of the embedding index the retriever needs. Search is
// the fail-soft path; Query surfaces errors for the one operation whose
// contract requires them.
type searcher interface {
	Search(ctx context.Context, queryText string, n int, filter rag.Filter) []rag.Retrieved
	Query(ctx context.Context, queryText string, n int, filter rag.Filter) ([]rag.Retrieved, error)
}

// Retriever executes similarity searches against an embedding index and
// derives search queries from structured travel preferences.
type Retriever struct {
	// index answers similarity searches.
	index searcher

	// log is the structured logger.
	log *slog.Logger
}

// New constructs a Retriever over the given index.
func New(index searcher, log *slog.Logger) *Retriever {
	if log == nil {
		log = slog.Default()
	}
	return &Retriever{index: index, log: log}
}

// RetrieveContext returns up to n documents relevant to the query, sorted by
// non-increasing similarity. n <= 0 falls back to DefaultTopK. This is a
// fail-soft read: retrieval failure yields an empty slice, never an error.
func (r *Retriever) RetrieveContext(ctx context.Context, query string, n int) []rag.Retrieved {
	if n <= 0 {
		n = DefaultTopK
	}
	results := r.index.Search(ctx, query, n, rag.Filter{})
	r.log.Debug("retriever: context retrieved",
		slog.String("query", query),
		slog.Int("results", len(results)),
	)
	return results
}

// Recommendations retrieves documents matching the user's travel preferences.
// The search query is derived from the populated preference fields; when a
// destination is set, results are additionally filtered to it.
func (r *Retriever) Recommendations(ctx context.Context, prefs rag.UserPreferences) []rag.Retrieved {
	query := PreferenceQuery(prefs)

	var filter rag.Filter
	if prefs.Destination != "" {
		filter.Destination = prefs.Destination
	}

	results := r.index.Search(ctx, query, recommendationTopK, filter)
	r.log.Debug("retriever: recommendations retrieved",
		slog.String("query", query),
		slog.Int("results", len(results)),
	)
	return results
}

// DestinationInfo retrieves the documents most relevant to a single named
// destination, filtered to that destination's tag.
func (r *Retriever) DestinationInfo(ctx context.Context, destination string) []rag.Retrieved {
	query := fmt.Sprintf("travel guide and information about %s", destination)
	return r.index.Search(ctx, query, destinationInfoTopK, rag.Filter{Destination: destination})
}

// SearchDestinations returns the distinct destination tags among documents
// matching the search term, in alphabetical order. The catch-all default tag
// is excluded (case-insensitively): it marks untagged documents, not a place.
// Unlike the other retrieval modes this surfaces errors, so callers can
// report a failed search rather than an empty region of the world.
func (r *Retriever) SearchDestinations(ctx context.Context, searchTerm string) ([]string, error) {
	query := fmt.Sprintf("destinations and places to visit in %s", searchTerm)
	results, err := r.index.Query(ctx, query, destinationSearchTopK, rag.Filter{})
	if err != nil {
		return nil, fmt.Errorf("retriever: destination search for %q failed: %w", searchTerm, err)
	}

	seen := make(map[string]struct{})
	var destinations []string
	for _, res := range results {
		dest := res.Destination()
		if strings.EqualFold(dest, rag.DefaultDestination) {
			continue
		}
		if _, ok := seen[dest]; ok {
			continue
		}
		seen[dest] = struct{}{}
		destinations = append(destinations, dest)
	}
	sort.Strings(destinations)
	return destinations, nil
}

// PreferenceQuery derives a similarity-search query from the populated
// destination, budget, duration, and interests fields. Travel style is part
// of the plan prompt, never of the retrieval query. All query fields empty
// yields a generic fallback query.
func PreferenceQuery(prefs rag.UserPreferences) string {
	var parts []string
	if prefs.Destination != "" {
		parts = append(parts, fmt.Sprintf("travel to %s", prefs.Destination))
	}
	if prefs.Budget != "" {
		parts = append(parts, fmt.Sprintf("budget %s", prefs.Budget))
	}
	if prefs.Duration != "" {
		parts = append(parts, prefs.Duration)
	}
	if len(prefs.Interests) > 0 {
		parts = append(parts, fmt.Sprintf("activities: %s", strings.Join(prefs.Interests, ", ")))
	}
	if len(parts) == 0 {
		return "travel recommendations"
	}
	return strings.Join(parts, " ")
}
