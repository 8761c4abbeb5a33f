package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// maxTickets bounds the per-user list.
const maxTickets = 200

// TicketHistory keeps a per-user list of committed bookings in Redis for
// the "my tickets" page.  Entries are JSON encoded, newest first.
type TicketHistory struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTicketHistory returns a history backed by client.  A non-positive
// ttl keeps lists forever.
func NewTicketHistory(client *redis.Client, ttl time.Duration) *TicketHistory {
	return &TicketHistory{client: client, ttl: ttl}
}

func ticketsKey(userID string) string {
	return fmt.Sprintf("tickets:%s", userID)
}

// Append pushes b to the front of the user's list.
func (h *TicketHistory) Append(ctx context.Context, b *model.CommittedBooking) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	key := ticketsKey(b.UserID)
	pipe := h.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, maxTickets-1)
	if h.ttl > 0 {
		pipe.Expire(ctx, key, h.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// List returns the user's tickets, newest first, keeping those whose movie
// title or theater name contains query (case-insensitive).  An empty
// query matches everything.
func (h *TicketHistory) List(ctx context.Context, userID, query string) ([]model.CommittedBooking, error) {
	raw, err := h.client.LRange(ctx, ticketsKey(userID), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	out := []model.CommittedBooking{}
	for _, item := range raw {
		var b model.CommittedBooking
		if err := json.Unmarshal([]byte(item), &b); err != nil {
			continue
		}
		if MatchesTicket(&b, query) {
			out = append(out, b)
		}
	}
	return out, nil
}

// MatchesTicket reports whether b's movie title or theater name contains
// query, ignoring case.
func MatchesTicket(b *model.CommittedBooking, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.MovieTitle), q) ||
		strings.Contains(strings.ToLower(b.TheaterName), q)
}
