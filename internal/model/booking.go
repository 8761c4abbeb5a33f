package model

import "time"

// DateLayout is the calendar date format used for show dates.
const DateLayout = "2006-01-02"

// CommittedBooking is the immutable record produced by a successful
// commit.  It is written once to the booking store and never updated.
//
// Fields:
//  ID                  – booking reference shown to the customer (BMS...).
//  UserID/Name/Email   – identity the booking is attributed to.
//  MovieID/MovieTitle  – frozen movie reference.
//  PosterURL           – poster of the movie at commit time.
//  TheaterID/Name      – frozen theater reference.
//  ShowDate            – calendar date of the show (UTC midnight).
//  ShowTime            – time of day token, e.g. "19:00".
//  Seats               – seats exactly as selected, in selection order.
//  SubtotalCents       – sum of seat prices.
//  ConvenienceFeeCents – fixed booking fee.
//  TaxCents            – tax on the subtotal.
//  TotalCents          – subtotal + fee + tax.
//  CreatedAt           – commit timestamp (UTC).
type CommittedBooking struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	UserName            string    `json:"user_name"`
	UserEmail           string    `json:"user_email"`
	MovieID             string    `json:"movie_id"`
	MovieTitle          string    `json:"movie_title"`
	PosterURL           string    `json:"poster_url,omitempty"`
	TheaterID           string    `json:"theater_id"`
	TheaterName         string    `json:"theater_name"`
	ShowDate            time.Time `json:"show_date"`
	ShowTime            string    `json:"show_time"`
	Seats               []Seat    `json:"seats"`
	SubtotalCents       int64     `json:"subtotal_cents"`
	ConvenienceFeeCents int64     `json:"convenience_fee_cents"`
	TaxCents            int64     `json:"tax_cents"`
	TotalCents          int64     `json:"total_cents"`
	CreatedAt           time.Time `json:"created_at"`
}

// SeatLabels returns the seat IDs of the booking in selection order.
func (b *CommittedBooking) SeatLabels() []string {
	out := make([]string, 0, len(b.Seats))
	for _, s := range b.Seats {
		out = append(out, s.ID)
	}
	return out
}
