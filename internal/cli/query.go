package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/placerank/placerank/internal/domain/rank"
	"github.com/placerank/placerank/internal/usecase/ranking"
	"github.com/placerank/placerank/internal/usecase/session"
)

func newQueryCmd() *cobra.Command {
	var (
		topK        int
		minReviews  int
		aggregation string
		highlights  int
	)

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Run a one-shot place search from the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			strategy, err := rank.ParseStrategy(aggregation)
			if err != nil {
				return err
			}

			var bar *progressbar.ProgressBar
			progress := func(done, total int) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetDescription("  Indexing reviews"),
						progressbar.OptionSetWriter(os.Stderr),
						progressbar.OptionClearOnFinish(),
					)
				}
				_ = bar.Set(done)
			}

			a, err := buildApp(cmd.Context(), progress)
			if err != nil {
				return err
			}
			defer a.close()
			if bar != nil {
				_ = bar.Finish()
			}

			sess := session.New()
			result, err := a.ranking.SearchPlaces(cmd.Context(), sess, query, ranking.Options{
				TopK:       topK,
				MinReviews: minReviews,
				Strategy:   strategy,
			})
			if err != nil {
				return err
			}

			printResult(result, sess, highlights)
			return nil
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", 0, "number of places to return (0 = configured default)")
	cmd.Flags().IntVar(&minReviews, "min-reviews", 0, "minimum matched reviews per place (0 = configured default)")
	cmd.Flags().StringVar(&aggregation, "aggregation", "", "aggregation strategy: weighted, mean or max")
	cmd.Flags().IntVar(&highlights, "highlights", 2, "review highlights per place (0 to disable)")

	return cmd
}

func printResult(result ranking.Result, sess *session.Session, highlights int) {
	fmt.Printf("Query sentiment: %s\n\n", result.QuerySentiment)

	if len(result.Places) == 0 {
		fmt.Println("No places matched.")
		return
	}

	for i, p := range result.Places {
		fmt.Printf("%2d. %s", i+1, p.Name)
		if p.Address != "" {
			fmt.Printf(" (%s)", p.Address)
		}
		fmt.Println()
		fmt.Printf("    score %.3f  avg %.3f  reviews %d (+%d/-%d/~%d)\n",
			p.FinalScore, p.AvgScore, p.ReviewCount, p.Positive, p.Negative, p.Neutral)

		for _, h := range sess.Highlights(p.PlaceID, highlights) {
			fmt.Printf("    %s\n", h)
		}
	}
}
