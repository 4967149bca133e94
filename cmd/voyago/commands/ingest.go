package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/voyago/voyago-go/internal/ingestion"
	"github.com/voyago/voyago-go/internal/logging"
	"github.com/voyago/voyago-go/internal/pipeline"
	"github.com/voyago/voyago-go/internal/rag"
)

// NewIngestCmd constructs the `voyago ingest` command, which loads travel
// documents into the knowledge base.
func NewIngestCmd() *cobra.Command {
	var (
		samples     bool
		files       []string
		dirs        []string
		urls        []string
		destination string
		category    string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load travel documents into the knowledge base",
		Long: `Load travel documents into the vector store.

Sources can be the built-in sample corpus, local files or directories
(.txt and .md), or URLs. Long documents are split into overlapping chunks
before embedding. Ingestion is batch-atomic per source list: on error
nothing from the failed batch is added.

The --destination and --category flags tag every ingested document; omitted
tags default to "general" and "guide".

Examples:
  voyago ingest --samples
  voyago ingest --file notes/kyoto.md --destination Kyoto --category city_guide
  voyago ingest --dir ./guides --category city_guide
  voyago ingest --url https://example.com/travel/lisbon.txt --destination Lisbon`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()

			if !samples && len(files) == 0 && len(dirs) == 0 && len(urls) == 0 {
				return fmt.Errorf("ingest: at least one of --samples, --file, --dir, or --url is required")
			}

			a, err := buildApp(ctx, log, nil)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			defer a.Close()

			loader := ingestion.NewLoader(nil)

			var docs []rag.Document
			if samples {
				docs = append(docs, ingestion.SampleDocuments()...)
			}
			for _, f := range files {
				loaded, err := loader.FromFile(f, destination, category)
				if err != nil {
					return fmt.Errorf("ingest: %w", err)
				}
				docs = append(docs, loaded...)
			}
			for _, d := range dirs {
				loaded, err := loader.FromDirectory(d, destination, category)
				if err != nil {
					return fmt.Errorf("ingest: %w", err)
				}
				docs = append(docs, loaded...)
			}
			for _, u := range urls {
				loaded, err := loader.FromURL(ctx, u, destination, category)
				if err != nil {
					return fmt.Errorf("ingest: %w", err)
				}
				docs = append(docs, loaded...)
			}

			log.Info("starting ingestion", slog.Int("documents", len(docs)))

			result := a.Pipeline.AddDocuments(ctx, docs)
			if result.Status == pipeline.StatusError {
				return fmt.Errorf("ingest: %s", result.Message)
			}

			fmt.Println(result.Message)
			return nil
		},
	}

	cmd.Flags().BoolVar(&samples, "samples", false, "Load the built-in sample travel corpus")
	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "Local file to ingest (repeatable)")
	cmd.Flags().StringArrayVar(&dirs, "dir", nil, "Directory of .txt/.md files to ingest (repeatable)")
	cmd.Flags().StringArrayVarP(&urls, "url", "u", nil, "URL to ingest (repeatable)")
	cmd.Flags().StringVarP(&destination, "destination", "d", "", "Destination tag for all ingested documents")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category tag for all ingested documents")

	return cmd
}
