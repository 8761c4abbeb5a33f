// Package seatmap generates the seat inventory shown on the seat booking
// page: a fixed grid of rows and seats, priced by row tier, with a random
// share of seats marked as already booked.
package seatmap

import (
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// MaxRows is the number of available row labels (A..Z).
const MaxRows = 26

const rowLabels = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ErrConfiguration is returned for generator parameters that can never
// produce a valid seat map.  It indicates a caller bug.
var ErrConfiguration = errors.New("invalid seat map configuration")

// Source is the random source used for pre-booking draws.  *rand.Rand from
// math/rand and math/rand/v2 both satisfy it.
type Source interface {
	Float64() float64
}

// Config holds the tunable pricing and seeding parameters.
type Config struct {
	PremiumDeltaCents  int64   // added to the base price for front rows
	StandardDeltaCents int64   // added to the base price for middle rows
	BookedProbability  float64 // chance that a seat starts out booked
}

// DefaultConfig mirrors the demo pricing: +100.00 premium, +50.00 standard
// and 15% of seats pre-booked.
func DefaultConfig() Config {
	return Config{
		PremiumDeltaCents:  10000,
		StandardDeltaCents: 5000,
		BookedProbability:  0.15,
	}
}

// Generator builds seat maps.  It is safe for sequential use only because
// the random source usually is not.
type Generator struct {
	cfg Config
	rnd Source
}

// New returns a Generator.  The random source must not be nil.
func New(cfg Config, rnd Source) (*Generator, error) {
	if rnd == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrConfiguration)
	}
	if cfg.BookedProbability < 0 || cfg.BookedProbability > 1 {
		return nil, fmt.Errorf("%w: booked probability %v outside [0,1]", ErrConfiguration, cfg.BookedProbability)
	}
	if cfg.PremiumDeltaCents < 0 || cfg.StandardDeltaCents < 0 {
		return nil, fmt.Errorf("%w: negative tier delta", ErrConfiguration)
	}
	return &Generator{cfg: cfg, rnd: rnd}, nil
}

// Generate returns a rowCount x seatsPerRow seat map.  Row i (zero based)
// is priced with TierFor(rowCount, i); every seat is independently marked
// booked with the configured probability.
func (g *Generator) Generate(rowCount, seatsPerRow int, basePriceCents int64) (*model.SeatMap, error) {
	switch {
	case rowCount <= 0:
		return nil, fmt.Errorf("%w: row count must be positive, got %d", ErrConfiguration, rowCount)
	case rowCount > MaxRows:
		return nil, fmt.Errorf("%w: row count %d exceeds %d row labels", ErrConfiguration, rowCount, MaxRows)
	case seatsPerRow <= 0:
		return nil, fmt.Errorf("%w: seats per row must be positive, got %d", ErrConfiguration, seatsPerRow)
	case basePriceCents <= 0:
		return nil, fmt.Errorf("%w: base price must be positive, got %d", ErrConfiguration, basePriceCents)
	}

	rows := make([]model.SeatRow, 0, rowCount)
	for i := 0; i < rowCount; i++ {
		label := rowLabels[i : i+1]
		tier := TierFor(rowCount, i)
		price := g.cfg.PriceFor(tier, basePriceCents)
		seats := make([]model.Seat, 0, seatsPerRow)
		for n := 1; n <= seatsPerRow; n++ {
			status := model.SeatAvailable
			if g.rnd.Float64() < g.cfg.BookedProbability {
				status = model.SeatBooked
			}
			seats = append(seats, model.Seat{
				ID:         model.SeatID(label, n),
				Row:        label,
				Number:     n,
				PriceCents: price,
				Tier:       tier,
				Status:     status,
			})
		}
		rows = append(rows, model.SeatRow{Label: label, Seats: seats})
	}
	return model.NewSeatMap(rows)
}

// TierFor classifies zero-based row i of a rowCount-row map.  The first
// 20% of rows are premium, rows from 40% up to (not including) 70% are
// standard and everything else is basic.  Boundaries are floored.
func TierFor(rowCount, i int) model.SeatTier {
	premiumEnd := rowCount * 2 / 10
	standardStart := rowCount * 4 / 10
	standardEnd := rowCount * 7 / 10
	switch {
	case i < premiumEnd:
		return model.TierPremium
	case i >= standardStart && i < standardEnd:
		return model.TierStandard
	default:
		return model.TierBasic
	}
}

// PriceFor returns the seat price for a tier.
func (c Config) PriceFor(tier model.SeatTier, basePriceCents int64) int64 {
	switch tier {
	case model.TierPremium:
		return basePriceCents + c.PremiumDeltaCents
	case model.TierStandard:
		return basePriceCents + c.StandardDeltaCents
	default:
		return basePriceCents
	}
}
