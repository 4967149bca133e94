package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voyago/voyago-go/internal/logging"
)

// NewDestinationCmd constructs the `voyago destination` command, which
// summarises everything the knowledge base holds about one destination.
func NewDestinationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "destination [name]",
		Short: "Summarise a destination from the knowledge base",
		Long: `Summarise a destination using only documents tagged with it.

Examples:
  voyago destination Paris
  voyago destination "New York"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()

			a, err := buildApp(ctx, log, nil)
			if err != nil {
				return fmt.Errorf("destination: %w", err)
			}
			defer a.Close()

			name := strings.Join(args, " ")
			result := a.Pipeline.DestinationInfo(ctx, name)

			fmt.Println(result.Summary)
			return nil
		},
	}

	return cmd
}
