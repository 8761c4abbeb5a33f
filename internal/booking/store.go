package booking

import (
	"context"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// Store is the durable home of committed bookings.
type Store interface {
	// SaveBooking writes b.  Either the whole booking is stored or nothing.
	SaveBooking(ctx context.Context, b *model.CommittedBooking) error
	// ListBookings returns the user's bookings, most recent first.
	ListBookings(ctx context.Context, userID string) ([]model.CommittedBooking, error)
}

// History is an optional per-user ticket list kept next to the store
// (the "my tickets" page).  Failures here never fail a commit.
type History interface {
	Append(ctx context.Context, b *model.CommittedBooking) error
}
