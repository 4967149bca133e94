package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voyago/voyago-go/internal/logging"
)

// NewStatsCmd constructs the `voyago stats` command, which prints the
// knowledge base and model backend statistics as JSON.
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge base and model backend statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()

			a, err := buildApp(ctx, log, nil)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			defer a.Close()

			stats, err := a.Pipeline.Stats(ctx)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(stats); err != nil {
				return fmt.Errorf("stats: encode: %w", err)
			}
			return nil
		},
	}
}
