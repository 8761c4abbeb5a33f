package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

func sampleBooking() *model.CommittedBooking {
	return &model.CommittedBooking{
		ID:          "BMS00A1B2C3D4",
		UserID:      "42",
		UserName:    "Asha",
		UserEmail:   "asha@example.com",
		MovieID:     "m1",
		MovieTitle:  "Interstellar",
		TheaterID:   "t1",
		TheaterName: "PVR: Phoenix Mall",
		ShowDate:    time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		ShowTime:    "07:30 PM",
		Seats: []model.Seat{
			{ID: "A1", Row: "A", Number: 1, PriceCents: 30000, Tier: model.TierPremium, Status: model.SeatSelected},
			{ID: "H12", Row: "H", Number: 12, PriceCents: 20000, Tier: model.TierBasic, Status: model.SeatSelected},
		},
		SubtotalCents:       50000,
		ConvenienceFeeCents: 4900,
		TaxCents:            9000,
		TotalCents:          63900,
		CreatedAt:           time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
}

func TestSeatsInsert(t *testing.T) {
	q, args := seatsInsert("BMS1", sampleBooking().Seats)
	if strings.Count(q, "(?, ?, ?, ?, ?, ?, ?)") != 2 {
		t.Fatalf("expected two value groups, got %q", q)
	}
	if len(args) != 14 {
		t.Fatalf("expected 14 args, got %d", len(args))
	}
	if args[0] != "BMS1" || args[1] != "A1" || args[2] != 0 || args[5] != "premium" || args[6] != int64(30000) {
		t.Fatalf("unexpected first row args %v", args[:7])
	}
	if args[8] != "H12" || args[9] != 1 {
		t.Fatalf("expected H12 at position 1, got %v", args[7:])
	}

	if q, args := seatsInsert("BMS1", nil); q != "" || args != nil {
		t.Fatalf("expected empty insert for no seats, got %q %v", q, args)
	}
}

func TestPgBookingRoundTrip(t *testing.T) {
	in := sampleBooking()
	row := toPgBooking(in)
	if len(row.Seats) != 2 || row.Seats[1] != "H12" || row.SeatPrices[0] != 30000 {
		t.Fatalf("unexpected seat arrays %v %v", row.Seats, row.SeatPrices)
	}
	if row.Amount != 50000 || row.TotalAmount != 63900 {
		t.Fatalf("unexpected amounts %d %d", row.Amount, row.TotalAmount)
	}

	out := fromPgBooking(&row)
	if out.ID != in.ID || out.TotalCents != in.TotalCents || !out.ShowDate.Equal(in.ShowDate) {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	want := model.Seat{ID: "H12", Row: "H", Number: 12, PriceCents: 20000, Tier: model.TierBasic, Status: model.SeatBooked}
	if out.Seats[1] != want {
		t.Fatalf("expected %+v, got %+v", want, out.Seats[1])
	}
}

func TestFromPgBooking_IDsOnly(t *testing.T) {
	row := pgBooking{ID: "BMS123456", Seats: []string{"C7", "bad"}}
	out := fromPgBooking(&row)
	if len(out.Seats) != 2 {
		t.Fatalf("expected 2 seats, got %d", len(out.Seats))
	}
	if out.Seats[0].Row != "C" || out.Seats[0].Number != 7 || out.Seats[0].PriceCents != 0 {
		t.Fatalf("unexpected seat %+v", out.Seats[0])
	}
	if out.Seats[1].Row != "" || out.Seats[1].Number != 0 {
		t.Fatalf("malformed id should not parse, got %+v", out.Seats[1])
	}
}

func TestMatchesTicket(t *testing.T) {
	b := sampleBooking()
	cases := map[string]bool{
		"":             true,
		"  ":           true,
		"interstellar": true,
		"STELL":        true,
		"phoenix":      true,
		"inox":         false,
	}
	for q, want := range cases {
		if got := MatchesTicket(b, q); got != want {
			t.Fatalf("MatchesTicket(%q): expected %v, got %v", q, want, got)
		}
	}
}

func TestUserModel(t *testing.T) {
	u := User{ID: 7, Name: "Ravi", Email: "ravi@example.com"}
	m := u.Model()
	if m.ID != "7" || m.Name != "Ravi" || m.Email != "ravi@example.com" {
		t.Fatalf("unexpected user %+v", m)
	}
	if NormalizeEmail("  Ravi@Example.COM ") != "ravi@example.com" {
		t.Fatal("expected normalized email")
	}
}
