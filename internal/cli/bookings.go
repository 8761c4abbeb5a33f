package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-ticket-booking/internal/app"
	"github.com/iliyamo/cinema-ticket-booking/internal/config"
)

func newBookingsCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List a user's bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user-id is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			stores, err := app.OpenBookingStore(cfg.DB)
			if err != nil {
				return err
			}
			defer stores.Close()

			bs, err := stores.Bookings.ListBookings(cmd.Context(), userID)
			if err != nil {
				return err
			}
			RenderBookings(cmd.OutOrStdout(), bs)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "user whose bookings are listed")
	return cmd
}
