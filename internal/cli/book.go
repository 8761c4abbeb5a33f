package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-ticket-booking/internal/app"
	"github.com/iliyamo/cinema-ticket-booking/internal/catalog"
	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/identity"
	"github.com/iliyamo/cinema-ticket-booking/internal/logger"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
	"github.com/iliyamo/cinema-ticket-booking/internal/session"
)

// errCancelled is returned when the user backs out of the confirmation.
var errCancelled = errors.New("booking cancelled")

// chooseFunc asks the user to pick one of items and returns its index.
type chooseFunc func(label string, items []string) (int, error)

func promptSelect(label string, items []string) (int, error) {
	sel := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
	}
	i, _, err := sel.Run()
	return i, err
}

func newBookCmd() *cobra.Command {
	var user model.User
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book tickets interactively",
		Long:  `Pick a movie, theater, date, show time and seats, then commit the booking to the configured store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user.ID == "" {
				return errors.New("--user-id is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.Env, "warn")

			stores, err := app.OpenBookingStore(cfg.DB)
			if err != nil {
				return err
			}
			defer stores.Close()

			publisher, err := app.NewPublisher(cfg)
			if err != nil {
				return err
			}
			defer publisher.Close()

			seatMaps, err := app.NewSeatMaps(cfg.SeatMap, 0)
			if err != nil {
				return err
			}
			newSelection := app.SelectionFactory(cfg, stores.Bookings, identity.Static{User: &user}, nil, log.Logger)
			sessions := app.NewSessions(cfg, newSelection, seatMaps, log.Logger)

			f := &bookingFlow{
				out:            cmd.OutOrStdout(),
				choose:         promptSelect,
				catalog:        catalog.Default(),
				checkout:       service.NewCheckout(publisher, log),
				maxAdvanceDays: cfg.Booking.MaxAdvanceDays,
				now:            time.Now,
			}
			sess, err := sessions.Create()
			if err != nil {
				return err
			}
			b, err := f.run(cmd.Context(), sess)
			if errors.Is(err, errCancelled) || errors.Is(err, promptui.ErrInterrupt) {
				fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
				return nil
			}
			if err != nil {
				return err
			}
			RenderBooking(cmd.OutOrStdout(), b)
			return nil
		},
	}
	cmd.Flags().StringVar(&user.ID, "user-id", "", "user the booking is made for")
	cmd.Flags().StringVar(&user.Name, "name", "", "user display name")
	cmd.Flags().StringVar(&user.Email, "email", "", "user email")
	return cmd
}

// bookingFlow walks one session through the booking steps.
type bookingFlow struct {
	out            io.Writer
	choose         chooseFunc
	catalog        *catalog.Catalog
	checkout       *service.Checkout
	maxAdvanceDays int
	now            func() time.Time
}

func (f *bookingFlow) run(ctx context.Context, sess *session.Session) (*model.CommittedBooking, error) {
	movies := f.catalog.Movies()
	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = fmt.Sprintf("%s (%s, %s)", m.Title, m.Certificate, m.Language)
	}
	i, err := f.choose("Select Movie", titles)
	if err != nil {
		return nil, err
	}
	sess.Selection.SetMovie(&movies[i])

	theaters := f.catalog.Theaters()
	names := make([]string, len(theaters))
	for i, t := range theaters {
		names[i] = fmt.Sprintf("%s - %s", t.Name, t.Location)
	}
	if i, err = f.choose("Select Theater", names); err != nil {
		return nil, err
	}
	theater := theaters[i]
	sess.Selection.SetTheater(&theater)

	days := showDays(f.now(), f.maxAdvanceDays)
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.Format("Mon, 02 Jan 2006")
	}
	if i, err = f.choose("Select Date", labels); err != nil {
		return nil, err
	}
	sess.Selection.SetDate(&days[i])

	if i, err = f.choose("Select Show Time", theater.ShowTimes); err != nil {
		return nil, err
	}
	sess.Selection.SetShowTime(&theater.ShowTimes[i])

	if err := f.pickSeats(sess); err != nil {
		return nil, err
	}

	q := sess.Selection.Quote()
	confirm := fmt.Sprintf("Pay %s (tickets %s + fee %s + tax %s)",
		FormatCents(q.TotalCents), FormatCents(q.SubtotalCents), FormatCents(q.ConvenienceFeeCents), FormatCents(q.TaxCents))
	if i, err = f.choose("Confirm Booking", []string{confirm, "Cancel"}); err != nil {
		return nil, err
	}
	if i != 0 {
		return nil, errCancelled
	}
	return f.checkout.Commit(ctx, sess)
}

// pickSeats offers the available seats until the user picks Done with at
// least one seat selected.
func (f *bookingFlow) pickSeats(sess *session.Session) error {
	const done = "Done"
	for {
		rows, err := sess.Seats()
		if err != nil {
			return err
		}
		RenderSeatMap(f.out, rows)

		items := []string{done}
		ids := []string{""}
		for _, r := range rows {
			for _, s := range r.Seats {
				switch s.Status {
				case model.SeatAvailable:
					items = append(items, fmt.Sprintf("%s  %s  %s", s.ID, s.Tier, FormatCents(s.PriceCents)))
				case model.SeatSelected:
					items = append(items, fmt.Sprintf("%s  remove", s.ID))
				default:
					continue
				}
				ids = append(ids, s.ID)
			}
		}
		i, err := f.choose("Select Seats", items)
		if err != nil {
			return err
		}
		if i == 0 {
			if len(sess.Selection.Snapshot().Seats) == 0 {
				fmt.Fprintln(f.out, "Select at least one seat")
				continue
			}
			return nil
		}
		if sess.Selection.RemoveSeat(ids[i]) {
			continue
		}
		seat, ok, err := sess.Seat(ids[i])
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if n := sess.Selection.AddSeat(seat); n.Level() != "" {
			fmt.Fprintln(f.out, n.Message())
		}
	}
}

// showDays lists the bookable dates from today through maxAdvanceDays.
func showDays(now time.Time, maxAdvanceDays int) []time.Time {
	maxAdvanceDays = max(maxAdvanceDays, 0)
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, 0, maxAdvanceDays+1)
	for d := 0; d <= maxAdvanceDays; d++ {
		days = append(days, today.AddDate(0, 0, d))
	}
	return days
}
