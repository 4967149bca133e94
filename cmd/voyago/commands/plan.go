package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voyago/voyago-go/internal/logging"
	"github.com/voyago/voyago-go/internal/rag"
)

// NewPlanCmd constructs the `voyago plan` command, which generates a travel
// plan from structured preferences.
func NewPlanCmd() *cobra.Command {
	var prefs rag.UserPreferences
	var showRecs bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a travel plan from your preferences",
		Long: `Generate a personalised travel plan.

All preference flags are optional; omitted preferences are simply left out of
the plan request rather than defaulted.

Examples:
  voyago plan --destination Paris --budget Mid-range --duration "5 days"
  voyago plan --destination Tokyo --interests Museums --interests Food
  voyago plan --style "Solo travel"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()

			a, err := buildApp(ctx, log, nil)
			if err != nil {
				return fmt.Errorf("plan: %w", err)
			}
			defer a.Close()

			result := a.Pipeline.CreateTravelPlan(ctx, prefs)

			fmt.Println(result.TravelPlan)

			if showRecs {
				fmt.Println()
				for i, doc := range result.Recommendations {
					fmt.Printf("[%d] %s (%s, score %.3f)\n",
						i+1, doc.Source(), doc.Destination(), doc.Score)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&prefs.Destination, "destination", "d", "", "Desired destination (e.g. Paris)")
	cmd.Flags().StringVarP(&prefs.Budget, "budget", "b", "", "Budget level (e.g. Budget, Mid-range, Luxury)")
	cmd.Flags().StringVar(&prefs.Duration, "duration", "", `Trip length (e.g. "5 days")`)
	cmd.Flags().StringArrayVarP(&prefs.Interests, "interests", "i", nil, "Interest tag (repeatable)")
	cmd.Flags().StringVarP(&prefs.TravelStyle, "style", "s", "", `Travel style (e.g. "Solo travel", Relaxed)`)
	cmd.Flags().BoolVar(&showRecs, "recommendations", false, "List the supporting recommendations after the plan")

	return cmd
}
