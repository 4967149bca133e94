package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voyago/voyago-go/internal/logging"
)

// NewSearchCmd constructs the `voyago search` command, which lists the
// destinations in the knowledge base matching a search term.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search for destinations in the knowledge base",
		Long: `List destinations whose documents match a search term.

Examples:
  voyago search europe
  voyago search "cherry blossoms"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()

			a, err := buildApp(ctx, log, nil)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			defer a.Close()

			term := strings.Join(args, " ")
			result := a.Pipeline.SearchDestinations(ctx, term)

			if result.Error != "" {
				return fmt.Errorf("search: %s", result.Error)
			}
			if result.Count == 0 {
				fmt.Printf("No destinations found for %q.\n", term)
				return nil
			}

			fmt.Printf("Destinations matching %q:\n", term)
			for _, d := range result.Destinations {
				fmt.Printf("  - %s\n", d.Name)
			}
			return nil
		},
	}

	return cmd
}
