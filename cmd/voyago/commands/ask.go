package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voyago/voyago-go/internal/logging"
)

// NewAskCmd constructs the `voyago ask` command, which answers a single
// natural language travel question using retrieved context.
func NewAskCmd() *cobra.Command {
	var nResults int
	var showSources bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a travel question",
		Long: `Ask Voyago a natural language travel question.

The question is answered from documents in the knowledge base; run
'voyago ingest --samples' first to load the starter corpus.

Examples:
  voyago ask "what is the best time to visit Tokyo?"
  voyago ask --results 3 "how do I get around Paris on a budget?"
  voyago ask --sources "where should I eat in New York?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()

			a, err := buildApp(ctx, log, nil)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			defer a.Close()

			question := strings.Join(args, " ")
			result := a.Pipeline.ProcessQuery(ctx, question, nResults)

			fmt.Println(result.Response)

			if showSources {
				fmt.Println()
				for i, doc := range result.Retrieved {
					fmt.Printf("[%d] %s (%s, score %.3f)\n",
						i+1, doc.Source(), doc.Destination(), doc.Score)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&nResults, "results", "n", 0, "Number of documents to retrieve (default 5)")
	cmd.Flags().BoolVar(&showSources, "sources", false, "List the retrieved source documents after the answer")

	return cmd
}
