package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voyago/voyago-go/internal/logging"
)

// NewHistoryCmd constructs the `voyago history` command, which lists recent
// exchanges from the local history database.
func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent questions and answers",
		Long: `List the most recent exchanges recorded in the history database.

History is stored in ~/.voyago/history.db by default; override with
VOYAGO_HISTORY_DB, or set it to "disabled" to turn recording off.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()

			hist := openHistory(log)
			if hist == nil {
				return fmt.Errorf("history: store is disabled or unavailable")
			}
			defer func() { _ = hist.Close() }()

			exchanges, err := hist.Recent(ctx, limit)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			if len(exchanges) == 0 {
				fmt.Println("No history recorded yet.")
				return nil
			}

			for _, ex := range exchanges {
				fmt.Printf("[%s] %s %s\n", ex.CreatedAt.Format("2006-01-02 15:04"), ex.Operation, ex.Prompt)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of exchanges to show")

	return cmd
}
