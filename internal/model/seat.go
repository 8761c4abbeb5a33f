package model

import "fmt"

// SeatStatus is the availability state of a seat.  Available and booked
// are assigned when a seat map is generated; selected only ever exists on
// the copy of a seat held by a booking selection.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatSelected  SeatStatus = "selected"
	SeatBooked    SeatStatus = "booked"
)

// SeatTier is the pricing class derived from a seat's row position.
type SeatTier string

const (
	TierPremium  SeatTier = "premium"
	TierStandard SeatTier = "standard"
	TierBasic    SeatTier = "basic"
)

// Seat describes one seat of a generated seat map.  Seats are uniquely
// identified inside a map by their row label and number, which together
// form the ID (e.g. "A1").
//
// Fields:
//  ID         – row label followed by the seat number.
//  Row        – row letter, starting at "A" for the front row.
//  Number     – position in the row (1-based).
//  PriceCents – price in cents, fully determined by the row's tier.
//  Tier       – pricing class of the row.
//  Status     – available, selected or booked.
type Seat struct {
	ID         string     `json:"id"`
	Row        string     `json:"row"`
	Number     int        `json:"number"`
	PriceCents int64      `json:"price_cents"`
	Tier       SeatTier   `json:"tier"`
	Status     SeatStatus `json:"status"`
}

// SeatID builds the identifier of the seat at row/number.
func SeatID(row string, number int) string {
	return fmt.Sprintf("%s%d", row, number)
}

// SeatRow is a single labeled row of a seat map.  Seats are ordered by
// number, starting at 1.
type SeatRow struct {
	Label string `json:"label"`
	Seats []Seat `json:"seats"`
}

// SeatMap is the seat inventory of one screen.  Rows are ordered front to
// back and labeled contiguously from "A".
type SeatMap struct {
	Rows  []SeatRow `json:"rows"`
	index map[string]seatPos
}

// seatPos locates a seat inside Rows.
type seatPos struct {
	row, seat int
}

// NewSeatMap wraps rows into a SeatMap and builds the ID index.  It returns
// an error when two seats share the same ID.
func NewSeatMap(rows []SeatRow) (*SeatMap, error) {
	m := &SeatMap{Rows: rows, index: make(map[string]seatPos)}
	for ri, row := range rows {
		for si, s := range row.Seats {
			if _, dup := m.index[s.ID]; dup {
				return nil, fmt.Errorf("duplicate seat id %q", s.ID)
			}
			m.index[s.ID] = seatPos{row: ri, seat: si}
		}
	}
	return m, nil
}

// Seat returns the seat with the given ID.
func (m *SeatMap) Seat(id string) (Seat, bool) {
	pos, ok := m.index[id]
	if !ok {
		return Seat{}, false
	}
	return m.Rows[pos.row].Seats[pos.seat], true
}

// Len returns the total number of seats.
func (m *SeatMap) Len() int { return len(m.index) }

// Available counts seats that are not booked.
func (m *SeatMap) Available() int {
	n := 0
	for _, row := range m.Rows {
		for _, s := range row.Seats {
			if s.Status == SeatAvailable {
				n++
			}
		}
	}
	return n
}

// MarkBooked sets the status of the given seats to booked.  Seats that are
// not part of the map are ignored.
func (m *SeatMap) MarkBooked(seats []Seat) {
	for _, s := range seats {
		if pos, ok := m.index[s.ID]; ok {
			m.Rows[pos.row].Seats[pos.seat].Status = SeatBooked
		}
	}
}
