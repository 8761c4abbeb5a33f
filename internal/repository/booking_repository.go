package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// BookingRepo stores committed bookings in MySQL.  A booking is one row in
// the bookings table plus one booking_seats row per seat; both are written
// in a single transaction.  All timestamp fields are stored in UTC and
// show_date is a DATE column.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// SaveBooking inserts b and its seats atomically.  A duplicate primary key
// is reported as ErrDuplicateBooking.
func (r *BookingRepo) SaveBooking(ctx context.Context, b *model.CommittedBooking) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.createTx(ctx, tx, b); err != nil {
		return err
	}
	q, args := seatsInsert(b.ID, b.Seats)
	if q != "" {
		if _, err = tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *BookingRepo) createTx(ctx context.Context, tx *sql.Tx, b *model.CommittedBooking) error {
	const q = `INSERT INTO bookings (id, user_id, user_name, user_email, movie_id, movie_title, poster_url,
				   theater_id, theater_name, show_date, show_time,
				   subtotal_cents, convenience_fee_cents, tax_cents, total_cents, created_at)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		b.ID, b.UserID, b.UserName, b.UserEmail, b.MovieID, b.MovieTitle, b.PosterURL,
		b.TheaterID, b.TheaterName, b.ShowDate.Format(model.DateLayout), b.ShowTime,
		b.SubtotalCents, b.ConvenienceFeeCents, b.TaxCents, b.TotalCents, b.CreatedAt.UTC())
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return ErrDuplicateBooking
	}
	return err
}

// seatsInsert builds one multi-row INSERT for the seats of a booking.
// seat_order keeps the order the seats were picked in.  An empty slice
// yields an empty query.
func seatsInsert(bookingID string, seats []model.Seat) (string, []any) {
	if len(seats) == 0 {
		return "", nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO booking_seats (booking_id, seat_id, seat_order, row_label, seat_number, tier, price_cents) VALUES `)
	args := make([]any, 0, len(seats)*7)
	for i, s := range seats {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, bookingID, s.ID, i, s.Row, s.Number, string(s.Tier), s.PriceCents)
	}
	return sb.String(), args
}

// ListBookings returns the user's bookings, most recent first, with their
// seats in the order they were selected.
func (r *BookingRepo) ListBookings(ctx context.Context, userID string) ([]model.CommittedBooking, error) {
	const q = `SELECT id, user_id, user_name, user_email, movie_id, movie_title, poster_url,
					  theater_id, theater_name, show_date, show_time,
					  subtotal_cents, convenience_fee_cents, tax_cents, total_cents, created_at
			   FROM bookings
			   WHERE user_id = ?
			   ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CommittedBooking{}
	index := map[string]int{}
	for rows.Next() {
		var b model.CommittedBooking
		if err := rows.Scan(&b.ID, &b.UserID, &b.UserName, &b.UserEmail, &b.MovieID, &b.MovieTitle, &b.PosterURL,
			&b.TheaterID, &b.TheaterName, &b.ShowDate, &b.ShowTime,
			&b.SubtotalCents, &b.ConvenienceFeeCents, &b.TaxCents, &b.TotalCents, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.ShowDate = b.ShowDate.UTC()
		b.CreatedAt = b.CreatedAt.UTC()
		b.Seats = []model.Seat{}
		index[b.ID] = len(out)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	const seatQ = `SELECT bs.booking_id, bs.seat_id, bs.row_label, bs.seat_number, bs.tier, bs.price_cents
				   FROM booking_seats bs
				   JOIN bookings b ON b.id = bs.booking_id
				   WHERE b.user_id = ?
				   ORDER BY bs.booking_id, bs.seat_order`
	srows, err := r.db.QueryContext(ctx, seatQ, userID)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var (
			bookingID string
			s         model.Seat
			tier      string
		)
		if err := srows.Scan(&bookingID, &s.ID, &s.Row, &s.Number, &tier, &s.PriceCents); err != nil {
			return nil, err
		}
		i, ok := index[bookingID]
		if !ok {
			continue
		}
		s.Tier = model.SeatTier(tier)
		s.Status = model.SeatBooked
		out[i].Seats = append(out[i].Seats, s)
	}
	if err := srows.Err(); err != nil {
		return nil, fmt.Errorf("scan booking seats: %w", err)
	}
	return out, nil
}

// Ping reports whether the database is reachable.
func (r *BookingRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
