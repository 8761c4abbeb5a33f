package cli

import (
	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-ticket-booking/internal/app"
	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/seatmap"
)

func newSeatMapCmd() *cobra.Command {
	var (
		rows, perRow int
		base         int64
		seed         uint64
	)
	defaults := seatmap.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "seatmap",
		Short: "Print a generated seat map",
		Long:  `Generate a seat map the way a new booking session does and print it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, err := app.NewSeatMaps(config.SeatMap{
				Rows:               rows,
				SeatsPerRow:        perRow,
				BasePriceCents:     base,
				PremiumDeltaCents:  defaults.PremiumDeltaCents,
				StandardDeltaCents: defaults.StandardDeltaCents,
				BookedProbability:  defaults.BookedProbability,
			}, seed)
			if err != nil {
				return err
			}
			m, err := factory()
			if err != nil {
				return err
			}
			RenderSeatMap(cmd.OutOrStdout(), m.Rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 8, "number of seat rows (1-26)")
	cmd.Flags().IntVar(&perRow, "seats", 12, "seats per row")
	cmd.Flags().Int64Var(&base, "base", 20000, "base seat price in cents")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed; 0 picks one")
	return cmd
}
