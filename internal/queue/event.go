// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// BookingConfirmedEvent is published when a booking is committed.  It
// contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the booking store.
type BookingConfirmedEvent struct {
	BookingID           string   `json:"booking_id"`
	UserID              string   `json:"user_id"`
	UserEmail           string   `json:"user_email"`
	MovieID             string   `json:"movie_id"`
	MovieTitle          string   `json:"movie_title"`
	TheaterID           string   `json:"theater_id"`
	TheaterName         string   `json:"theater_name"`
	ShowDate            string   `json:"show_date"`
	ShowTime            string   `json:"show_time"`
	SeatLabels          []string `json:"seats"`
	SubtotalCents       int64    `json:"subtotal_cents"`
	ConvenienceFeeCents int64    `json:"convenience_fee_cents"`
	TaxCents            int64    `json:"tax_cents"`
	TotalCents          int64    `json:"total_cents"`
	ConfirmedAt         string   `json:"confirmed_at"`
}

// NewBookingConfirmedEvent builds the event payload for b.
func NewBookingConfirmedEvent(b *model.CommittedBooking) BookingConfirmedEvent {
	return BookingConfirmedEvent{
		BookingID:           b.ID,
		UserID:              b.UserID,
		UserEmail:           b.UserEmail,
		MovieID:             b.MovieID,
		MovieTitle:          b.MovieTitle,
		TheaterID:           b.TheaterID,
		TheaterName:         b.TheaterName,
		ShowDate:            b.ShowDate.Format(model.DateLayout),
		ShowTime:            b.ShowTime,
		SeatLabels:          b.SeatLabels(),
		SubtotalCents:       b.SubtotalCents,
		ConvenienceFeeCents: b.ConvenienceFeeCents,
		TaxCents:            b.TaxCents,
		TotalCents:          b.TotalCents,
		ConfirmedAt:         b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// LogLine renders the event as the single line appended to booking.log.
func (ev BookingConfirmedEvent) LogLine() string {
	return fmt.Sprintf("[%s] Booking confirmed | booking_id=%s | user_id=%s | movie=%q | theater=%q | show=%s %s | total=%d cents | seats=[%s]\n",
		ev.ConfirmedAt, ev.BookingID, ev.UserID, ev.MovieTitle, ev.TheaterName,
		ev.ShowDate, ev.ShowTime, ev.TotalCents, strings.Join(ev.SeatLabels, ","))
}
