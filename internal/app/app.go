// Package app assembles the booking components from configuration.  Both
// the HTTP server and bookingctl build their stores and publishers here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/iliyamo/cinema-ticket-booking/internal/booking"
	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/database"
	"github.com/iliyamo/cinema-ticket-booking/internal/identity"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/seatmap"
	"github.com/iliyamo/cinema-ticket-booking/internal/session"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Event drivers accepted in EVENTS_DRIVER.
const (
	EventsRabbitMQ = "rabbitmq"
	EventsKafka    = "kafka"
	EventsNone     = "none"
)

// BookingStore is a booking.Store that can report its health.
type BookingStore interface {
	booking.Store
	Ping(ctx context.Context) error
}

// Stores holds the open database handles.  SQL is the MySQL handle used by
// the user and token repositories; it is nil when only Postgres was
// requested through OpenBookingStore.
type Stores struct {
	SQL      *sql.DB
	Bookings BookingStore

	closers []func() error
}

// Close releases every handle.
func (s *Stores) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenStores connects to MySQL for accounts and to the configured booking
// store.
func OpenStores(cfg config.DB) (*Stores, error) {
	db, err := database.Open(cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	s := &Stores{SQL: db, closers: []func() error{db.Close}}
	if err := s.openBookings(cfg); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// OpenBookingStore opens only the booking store.  With the mysql driver the
// accounts handle is shared.
func OpenBookingStore(cfg config.DB) (*Stores, error) {
	s := &Stores{}
	if err := s.openBookings(cfg); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Stores) openBookings(cfg config.DB) error {
	switch cfg.Driver {
	case "", DriverMySQL:
		if s.SQL == nil {
			db, err := database.Open(cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name)
			if err != nil {
				return fmt.Errorf("connect mysql: %w", err)
			}
			s.SQL = db
			s.closers = append(s.closers, db.Close)
		}
		s.Bookings = repository.NewBookingRepo(s.SQL)
		return nil
	case DriverPostgres:
		gdb, err := database.OpenPostgres(cfg.PostgresURL)
		if err != nil {
			return err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		s.closers = append(s.closers, sqlDB.Close)
		repo, err := repository.NewPgBookingRepo(gdb)
		if err != nil {
			return fmt.Errorf("migrate bookings: %w", err)
		}
		s.Bookings = repo
		return nil
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// NewPublisher returns the BookingConfirmed publisher selected by the
// events driver.
func NewPublisher(cfg config.Config) (queue.Publisher, error) {
	switch cfg.Kafka.Driver {
	case "", EventsRabbitMQ:
		return queue.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue), nil
	case EventsKafka:
		return queue.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic), nil
	case EventsNone:
		return queue.NopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Kafka.Driver)
	}
}

// NewSeatMaps builds the seat map factory shared by all sessions.  A zero
// seed draws from the runtime's random source.
func NewSeatMaps(cfg config.SeatMap, seed uint64) (session.SeatMapFactory, error) {
	src := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	if seed == 0 {
		src = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	gen, err := seatmap.New(seatmap.Config{
		PremiumDeltaCents:  cfg.PremiumDeltaCents,
		StandardDeltaCents: cfg.StandardDeltaCents,
		BookedProbability:  cfg.BookedProbability,
	}, src)
	if err != nil {
		return nil, err
	}
	// Fail at startup rather than on the first session.
	if _, err := gen.Generate(cfg.Rows, cfg.SeatsPerRow, cfg.BasePriceCents); err != nil {
		return nil, err
	}
	return session.GeneratorFactory(gen, cfg.Rows, cfg.SeatsPerRow, cfg.BasePriceCents), nil
}

// Pricing converts the configured surcharges.
func Pricing(cfg config.Pricing) booking.Pricing {
	return booking.Pricing{
		ConvenienceFeeCents: cfg.ConvenienceFeeCents,
		TaxRateBP:           booking.TaxRateBP(cfg.TaxRate),
	}
}

// SelectionFactory returns the constructor used for every new session.
// history may be nil.
func SelectionFactory(cfg config.Config, store booking.Store, ident identity.Identity, history booking.History, log *slog.Logger) func() *booking.Selection {
	opts := []booking.Option{
		booking.WithPricing(Pricing(cfg.Pricing)),
		booking.WithClearSeatsOnShowChange(cfg.Booking.ClearSeatsOnShowChange),
		booking.WithLogger(log),
	}
	if history != nil {
		opts = append(opts, booking.WithHistory(history))
	}
	return func() *booking.Selection {
		return booking.New(store, ident, opts...)
	}
}

// NewSessions returns the session store for cfg.
func NewSessions(cfg config.Config, newSelection func() *booking.Selection, seatMaps session.SeatMapFactory, log *slog.Logger) *session.Store {
	return session.NewStore(cfg.Booking.SessionTTL, newSelection, seatMaps, session.WithLogger(log))
}

// SweepInterval is how often idle sessions are collected.
func SweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Minute
	}
	if iv := ttl / 4; iv > time.Second {
		return iv
	}
	return time.Second
}
