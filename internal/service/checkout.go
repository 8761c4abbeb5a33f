// Package service holds the orchestration that spans several packages:
// committing a session's selection, updating the seat map and announcing
// the booking to the broker.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/iliyamo/cinema-ticket-booking/internal/logger"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
	"github.com/iliyamo/cinema-ticket-booking/internal/session"
)

// Checkout commits session selections.
type Checkout struct {
	publisher      queue.Publisher
	log            *logger.Logger
	publishTimeout time.Duration
}

// NewCheckout returns a Checkout publishing to p.  A nil publisher drops
// events.
func NewCheckout(p queue.Publisher, log *logger.Logger) *Checkout {
	if p == nil {
		p = queue.NopPublisher{}
	}
	return &Checkout{publisher: p, log: log, publishTimeout: 3 * time.Second}
}

// Commit commits the session's selection.  On success the seats are
// marked booked on the session's seat map, the committed part of the
// selection is cleared and a BookingConfirmed event is published.
// Publishing failures are logged only; the booking is already durable
// at that point.  On error the selection is left untouched so the user
// can retry.
func (c *Checkout) Commit(ctx context.Context, sess *session.Session) (*model.CommittedBooking, error) {
	b, err := sess.Selection.Commit(ctx)
	if err != nil {
		return nil, err
	}
	sess.MarkBooked(b.Seats)
	sess.Selection.ClearCommitted(b)
	c.log.LogBookingCommitted(ctx, b.ID, b.UserID, len(b.Seats), b.TotalCents)

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.publishTimeout)
	defer cancel()
	if err := c.publisher.PublishBookingConfirmed(pctx, queue.NewBookingConfirmedEvent(b)); err != nil {
		c.log.WithUserID(b.UserID).WithError(err).WarnContext(ctx, "booking event publish failed",
			slog.String("booking_id", b.ID))
	}
	return b, nil
}
