package retriever

import (
	"fmt"
	"strings"

	"github.com/voyago/voyago-go/internal/rag"
)

// BuildContextPrompt assembles retrieved documents into the context string
// handed to the generation backend. The prompt always opens with the user's
// query verbatim; each document appears in retrieval order with its full
// content and a provenance line, under a numbered delimiter the model can
// reference. An empty result set produces an explicit no-context marker
// instead of a bare query, so the model knows retrieval came up empty rather
// than being skipped.
func BuildContextPrompt(query string, results []rag.Retrieved) string {
	if len(results) == 0 {
		return fmt.Sprintf("Query: %s\n\nNo relevant travel information found.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nRelevant travel information:", query)
	for i, res := range results {
		fmt.Fprintf(&b, "\n--- Document %d ---", i+1)
		fmt.Fprintf(&b, "\nSource: %s | Destination: %s | Category: %s",
			res.Source(), res.Destination(), res.Category())
		fmt.Fprintf(&b, "\nContent: %s", res.Content)
	}
	return b.String()
}
