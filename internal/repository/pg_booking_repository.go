package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// pgBooking is the Postgres row of a committed booking.  Column names
// follow the hosted bookings table used by the web client; amounts are in
// cents and the seat columns are parallel arrays.
type pgBooking struct {
	ID             string         `gorm:"primaryKey;type:text"`
	UserID         string         `gorm:"type:text;not null;index"`
	UserName       string         `gorm:"type:text"`
	UserEmail      string         `gorm:"type:text"`
	MovieID        string         `gorm:"type:text;not null"`
	TheaterID      string         `gorm:"type:text;not null"`
	MovieTitle     string         `gorm:"type:text;not null"`
	TheaterName    string         `gorm:"type:text;not null"`
	PosterURL      string         `gorm:"column:poster_url;type:text"`
	ShowDate       time.Time      `gorm:"type:date;not null"`
	ShowTime       string         `gorm:"type:text;not null"`
	Seats          pq.StringArray `gorm:"type:text[];not null"`
	SeatTiers      pq.StringArray `gorm:"type:text[]"`
	SeatPrices     pq.Int64Array  `gorm:"type:bigint[]"`
	Amount         int64          `gorm:"not null"`
	ConvenienceFee int64          `gorm:"not null"`
	Tax            int64          `gorm:"not null"`
	TotalAmount    int64          `gorm:"not null"`
	CreatedAt      time.Time      `gorm:"not null;index"`
}

func (pgBooking) TableName() string { return "bookings" }

// PgBookingRepo stores committed bookings in Postgres through GORM.
type PgBookingRepo struct {
	db *gorm.DB
}

// NewPgBookingRepo migrates the bookings table and returns the repository.
func NewPgBookingRepo(db *gorm.DB) (*PgBookingRepo, error) {
	if err := db.AutoMigrate(&pgBooking{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &PgBookingRepo{db: db}, nil
}

// SaveBooking inserts b as a single row.
func (r *PgBookingRepo) SaveBooking(ctx context.Context, b *model.CommittedBooking) error {
	row := toPgBooking(b)
	err := r.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateBooking
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateBooking
	}
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// ListBookings returns the user's bookings, most recent first.
func (r *PgBookingRepo) ListBookings(ctx context.Context, userID string) ([]model.CommittedBooking, error) {
	var rows []pgBooking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	out := make([]model.CommittedBooking, 0, len(rows))
	for i := range rows {
		out = append(out, fromPgBooking(&rows[i]))
	}
	return out, nil
}

func toPgBooking(b *model.CommittedBooking) pgBooking {
	row := pgBooking{
		ID:             b.ID,
		UserID:         b.UserID,
		UserName:       b.UserName,
		UserEmail:      b.UserEmail,
		MovieID:        b.MovieID,
		TheaterID:      b.TheaterID,
		MovieTitle:     b.MovieTitle,
		TheaterName:    b.TheaterName,
		PosterURL:      b.PosterURL,
		ShowDate:       b.ShowDate.UTC(),
		ShowTime:       b.ShowTime,
		Seats:          make(pq.StringArray, 0, len(b.Seats)),
		SeatTiers:      make(pq.StringArray, 0, len(b.Seats)),
		SeatPrices:     make(pq.Int64Array, 0, len(b.Seats)),
		Amount:         b.SubtotalCents,
		ConvenienceFee: b.ConvenienceFeeCents,
		Tax:            b.TaxCents,
		TotalAmount:    b.TotalCents,
		CreatedAt:      b.CreatedAt.UTC(),
	}
	for _, s := range b.Seats {
		row.Seats = append(row.Seats, s.ID)
		row.SeatTiers = append(row.SeatTiers, string(s.Tier))
		row.SeatPrices = append(row.SeatPrices, s.PriceCents)
	}
	return row
}

// fromPgBooking rebuilds seats from the parallel arrays.  Rows written by
// other clients may only carry seat IDs; tier and price are then left
// empty.
func fromPgBooking(row *pgBooking) model.CommittedBooking {
	b := model.CommittedBooking{
		ID:                  row.ID,
		UserID:              row.UserID,
		UserName:            row.UserName,
		UserEmail:           row.UserEmail,
		MovieID:             row.MovieID,
		MovieTitle:          row.MovieTitle,
		PosterURL:           row.PosterURL,
		TheaterID:           row.TheaterID,
		TheaterName:         row.TheaterName,
		ShowDate:            row.ShowDate.UTC(),
		ShowTime:            row.ShowTime,
		Seats:               make([]model.Seat, 0, len(row.Seats)),
		SubtotalCents:       row.Amount,
		ConvenienceFeeCents: row.ConvenienceFee,
		TaxCents:            row.Tax,
		TotalCents:          row.TotalAmount,
		CreatedAt:           row.CreatedAt.UTC(),
	}
	for i, id := range row.Seats {
		s := model.Seat{ID: id, Status: model.SeatBooked}
		s.Row, s.Number = splitSeatID(id)
		if i < len(row.SeatTiers) {
			s.Tier = model.SeatTier(row.SeatTiers[i])
		}
		if i < len(row.SeatPrices) {
			s.PriceCents = row.SeatPrices[i]
		}
		b.Seats = append(b.Seats, s)
	}
	return b
}

// splitSeatID parses "C7" into ("C", 7).  Malformed IDs yield ("", 0).
func splitSeatID(id string) (string, int) {
	if len(id) < 2 || id[0] < 'A' || id[0] > 'Z' {
		return "", 0
	}
	n := 0
	for _, c := range id[1:] {
		if c < '0' || c > '9' {
			return "", 0
		}
		n = n*10 + int(c-'0')
	}
	return id[:1], n
}

// Ping reports whether the database is reachable.
func (r *PgBookingRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
