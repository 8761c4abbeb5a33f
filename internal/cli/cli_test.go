package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/cinema-ticket-booking/internal/booking"
	"github.com/iliyamo/cinema-ticket-booking/internal/catalog"
	"github.com/iliyamo/cinema-ticket-booking/internal/identity"
	"github.com/iliyamo/cinema-ticket-booking/internal/logger"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/seatmap"
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
	"github.com/iliyamo/cinema-ticket-booking/internal/session"
)

type memStore struct {
	saved []*model.CommittedBooking
}

func (m *memStore) SaveBooking(_ context.Context, b *model.CommittedBooking) error {
	m.saved = append(m.saved, b)
	return nil
}

func (m *memStore) ListBookings(context.Context, string) ([]model.CommittedBooking, error) {
	return nil, nil
}

// scripted answers each prompt with the first item starting with the next
// answer.  "#n" picks item n.
func scripted(t *testing.T, answers ...string) chooseFunc {
	t.Helper()
	return func(label string, items []string) (int, error) {
		if len(answers) == 0 {
			return 0, fmt.Errorf("unexpected prompt %q", label)
		}
		a := answers[0]
		answers = answers[1:]
		var n int
		if _, err := fmt.Sscanf(a, "#%d", &n); err == nil {
			return n, nil
		}
		for i, it := range items {
			if strings.HasPrefix(it, a) {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%s: no item starting with %q in %v", label, a, items)
	}
}

func newFlow(t *testing.T, out io.Writer, choose chooseFunc) (*bookingFlow, *session.Session, *memStore) {
	t.Helper()
	cfg := seatmap.DefaultConfig()
	cfg.BookedProbability = 0
	gen, err := seatmap.New(cfg, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	store := &memStore{}
	user := &model.User{ID: "7", Name: "Ravi", Email: "ravi@example.com"}
	sessions := session.NewStore(0,
		func() *booking.Selection { return booking.New(store, identity.Static{User: user}) },
		session.GeneratorFactory(gen, 8, 12, 20000))
	sess, err := sessions.Create()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	f := &bookingFlow{
		out:            out,
		choose:         choose,
		catalog:        catalog.Default(),
		checkout:       service.NewCheckout(nil, logger.NewWithWriter(io.Discard, "test", "error")),
		maxAdvanceDays: 14,
		now:            func() time.Time { return time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC) },
	}
	return f, sess, store
}

func TestBookingFlowCommits(t *testing.T) {
	var out bytes.Buffer
	f, sess, store := newFlow(t, &out, scripted(t, "Interstellar", "PVR", "#1", "19:00", "A1", "B2", "Done", "Pay"))

	b, err := f.run(context.Background(), sess)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 saved booking, got %d", len(store.saved))
	}
	if b.MovieTitle != "Interstellar" || b.TheaterName != "PVR Cinemas" || b.ShowTime != "19:00" {
		t.Fatalf("unexpected booking %+v", b)
	}
	if got := b.ShowDate.Format(model.DateLayout); got != "2026-10-20" {
		t.Fatalf("expected show date 2026-10-20, got %s", got)
	}
	if got := strings.Join(b.SeatLabels(), ","); got != "A1,B2" {
		t.Fatalf("expected seats A1,B2, got %s", got)
	}
	// A is premium (200.00 + 100.00), B is basic.
	if b.SubtotalCents != 50000 || b.TaxCents != 9000 || b.TotalCents != 63900 {
		t.Fatalf("unexpected totals %d/%d/%d", b.SubtotalCents, b.TaxCents, b.TotalCents)
	}
	if n := len(sess.Selection.Snapshot().Seats); n != 0 {
		t.Fatalf("expected selection cleared after commit, got %d seats", n)
	}
}

func TestBookingFlowSeatToggleAndEmptyDone(t *testing.T) {
	var out bytes.Buffer
	f, sess, _ := newFlow(t, &out, scripted(t, "Joker", "Regal", "#0", "21:00", "Done", "A1", "B2", "A1", "Done", "Pay"))

	b, err := f.run(context.Background(), sess)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out.String(), "Select at least one seat") {
		t.Fatalf("expected empty selection warning in output")
	}
	if got := strings.Join(b.SeatLabels(), ","); got != "B2" {
		t.Fatalf("expected seats B2, got %s", got)
	}
	if b.TotalCents != 28500 {
		t.Fatalf("expected total 28500, got %d", b.TotalCents)
	}
}

func TestBookingFlowCancel(t *testing.T) {
	f, sess, store := newFlow(t, io.Discard, scripted(t, "Dune", "INOX", "#0", "10:15", "C3", "Done", "Cancel"))

	_, err := f.run(context.Background(), sess)
	if err != errCancelled {
		t.Fatalf("expected errCancelled, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("expected nothing saved, got %d", len(store.saved))
	}
	if n := len(sess.Selection.Snapshot().Seats); n != 1 {
		t.Fatalf("expected selection kept, got %d seats", n)
	}
}

func TestShowDays(t *testing.T) {
	now := time.Date(2026, 10, 19, 23, 30, 0, 0, time.UTC)
	days := showDays(now, 14)
	if len(days) != 15 {
		t.Fatalf("expected 15 days, got %d", len(days))
	}
	if got := days[0].Format(model.DateLayout); got != "2026-10-19" {
		t.Fatalf("expected first day 2026-10-19, got %s", got)
	}
	if got := days[14].Format(model.DateLayout); got != "2026-11-02" {
		t.Fatalf("expected last day 2026-11-02, got %s", got)
	}
	if len(showDays(now, -3)) != 1 {
		t.Fatalf("expected negative window to clamp to today")
	}
}

func TestFormatCents(t *testing.T) {
	cases := map[int64]string{0: "0.00", 5: "0.05", 4900: "49.00", 63900: "639.00", -150: "-1.50"}
	for in, want := range cases {
		if got := FormatCents(in); got != want {
			t.Fatalf("FormatCents(%d): expected %s, got %s", in, want, got)
		}
	}
}

func TestSeatMapCommand(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"seatmap", "--rows", "3", "--seats", "4", "--seed", "7"})
	if err := root.Execute(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	s := out.String()
	for _, want := range []string{"ROW", "standard", "basic", "250.00", "X = booked"} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, s)
		}
	}
}

func TestSeatMapCommandRejectsBadRows(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"seatmap", "--rows", "27"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected error for 27 rows")
	}
}

func TestBookingsCommandNeedsUser(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"bookings"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "--user-id") {
		t.Fatalf("expected --user-id error, got %v", err)
	}
}

func TestRenderBookings(t *testing.T) {
	var out bytes.Buffer
	RenderBookings(&out, nil)
	if strings.TrimSpace(out.String()) != "no bookings" {
		t.Fatalf("expected no bookings, got %q", out.String())
	}

	out.Reset()
	RenderBookings(&out, []model.CommittedBooking{{
		ID: "BMS1A2B3C", MovieTitle: "RRR", TheaterName: "Cinepolis",
		ShowDate: time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC), ShowTime: "18:15",
		Seats:      []model.Seat{{ID: "C4"}, {ID: "C5"}},
		TotalCents: 52100,
	}})
	s := out.String()
	for _, want := range []string{"BMS1A2B3C", "RRR", "2026-10-21 18:15", "C4, C5", "521.00"} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, s)
		}
	}
}
