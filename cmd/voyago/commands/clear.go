package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voyago/voyago-go/internal/logging"
)

// NewClearCmd constructs the `voyago clear` command, which deletes every
// document from the knowledge base.
func NewClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all documents from the knowledge base",
		Long: `Delete every document from the vector store.

This cannot be undone; pass --yes to confirm.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()

			if !yes {
				return fmt.Errorf("clear: refusing to delete the knowledge base without --yes")
			}

			a, err := buildApp(ctx, log, nil)
			if err != nil {
				return fmt.Errorf("clear: %w", err)
			}
			defer a.Close()

			if err := a.Pipeline.Clear(ctx); err != nil {
				return fmt.Errorf("clear: %w", err)
			}

			fmt.Println("Knowledge base cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")

	return cmd
}
