package service

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/iliyamo/cinema-ticket-booking/internal/booking"
	"github.com/iliyamo/cinema-ticket-booking/internal/identity"
	"github.com/iliyamo/cinema-ticket-booking/internal/logger"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
	"github.com/iliyamo/cinema-ticket-booking/internal/seatmap"
	"github.com/iliyamo/cinema-ticket-booking/internal/session"
)

type memStore struct {
	err   error
	saved []*model.CommittedBooking
}

func (m *memStore) SaveBooking(_ context.Context, b *model.CommittedBooking) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, b)
	return nil
}

func (m *memStore) ListBookings(context.Context, string) ([]model.CommittedBooking, error) {
	return nil, nil
}

type fakePublisher struct {
	err    error
	events []queue.BookingConfirmedEvent
}

func (p *fakePublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func newSession(t *testing.T, store booking.Store) *session.Session {
	t.Helper()
	cfg := seatmap.DefaultConfig()
	cfg.BookedProbability = 0
	gen, err := seatmap.New(cfg, rand.New(rand.NewPCG(3, 4)))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	user := &model.User{ID: "42", Name: "Asha", Email: "asha@example.com"}
	st := session.NewStore(0,
		func() *booking.Selection { return booking.New(store, identity.Static{User: user}) },
		session.GeneratorFactory(gen, 8, 12, 20000))
	sess, err := st.Create()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return sess
}

func fill(t *testing.T, sess *session.Session) {
	t.Helper()
	sel := sess.Selection
	sel.SetMovie(&model.Movie{ID: "6", Title: "Interstellar"})
	sel.SetTheater(&model.Theater{ID: "t1", Name: "PVR Cinemas"})
	d := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	sel.SetDate(&d)
	st := "19:00"
	sel.SetShowTime(&st)
	for _, id := range []string{"A1", "H12"} {
		seat, ok, err := sess.Seat(id)
		if err != nil || !ok {
			t.Fatalf("seat %s: ok=%v err=%v", id, ok, err)
		}
		sel.AddSeat(seat)
	}
}

func quietLogger() *logger.Logger { return logger.NewWithWriter(io.Discard, "prod", "error") }

func TestCommit_Success(t *testing.T) {
	store := &memStore{}
	pub := &fakePublisher{}
	sess := newSession(t, store)
	fill(t, sess)

	b, err := NewCheckout(pub, quietLogger()).Commit(context.Background(), sess)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if b.TotalCents != 63900 || len(store.saved) != 1 {
		t.Fatalf("expected one saved booking of 63900, got %d (%d saved)", b.TotalCents, len(store.saved))
	}
	if len(pub.events) != 1 || pub.events[0].BookingID != b.ID {
		t.Fatalf("expected one event for %s, got %+v", b.ID, pub.events)
	}
	if len(sess.Selection.Missing()) != 5 {
		t.Fatalf("expected selection to be cleared, missing=%v", sess.Selection.Missing())
	}
}

func TestCommit_MarksSeatsBooked(t *testing.T) {
	sess := newSession(t, &memStore{})
	fill(t, sess)
	if _, err := NewCheckout(nil, quietLogger()).Commit(context.Background(), sess); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	// Pick the same show again: the seat map is regenerated only when the
	// show changes, so A1 must now read as booked.
	sess.Selection.SetTheater(&model.Theater{ID: "t1", Name: "PVR Cinemas"})
	d := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	sess.Selection.SetDate(&d)
	st := "19:00"
	sess.Selection.SetShowTime(&st)
	seat, _, _ := sess.Seat("A1")
	if seat.Status != model.SeatBooked {
		t.Fatalf("expected A1 booked after commit, got %s", seat.Status)
	}
}

func TestCommit_PublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	sess := newSession(t, &memStore{})
	fill(t, sess)
	if _, err := NewCheckout(pub, quietLogger()).Commit(context.Background(), sess); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestCommit_PersistenceFailureKeepsSelection(t *testing.T) {
	store := &memStore{err: errors.New("db down")}
	pub := &fakePublisher{}
	sess := newSession(t, store)
	fill(t, sess)

	_, err := NewCheckout(pub, quietLogger()).Commit(context.Background(), sess)
	if !errors.Is(err, booking.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if !sess.Selection.IsComplete() || len(pub.events) != 0 {
		t.Fatal("selection must survive and no event may be published")
	}
}

// savingHook runs onSave while SaveBooking is in flight.
type savingHook struct {
	memStore
	onSave func()
}

func (h *savingHook) SaveBooking(ctx context.Context, b *model.CommittedBooking) error {
	if h.onSave != nil {
		h.onSave()
	}
	return h.memStore.SaveBooking(ctx, b)
}

func TestCommit_KeepsSeatAddedDuringSave(t *testing.T) {
	store := &savingHook{}
	sess := newSession(t, store)
	fill(t, sess)
	store.onSave = func() {
		seat, ok, err := sess.Seat("C5")
		if err != nil || !ok {
			t.Errorf("seat C5: ok=%v err=%v", ok, err)
			return
		}
		sess.Selection.AddSeat(seat)
	}

	b, err := NewCheckout(nil, quietLogger()).Commit(context.Background(), sess)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(b.Seats) != 2 {
		t.Fatalf("expected 2 committed seats, got %d", len(b.Seats))
	}
	snap := sess.Selection.Snapshot()
	if len(snap.Seats) != 1 || snap.Seats[0].ID != "C5" {
		t.Fatalf("expected C5 to stay selected, got %+v", snap.Seats)
	}
	if snap.Movie == nil || snap.Theater == nil || snap.Date == nil || snap.ShowTime == nil {
		t.Fatalf("expected show fields kept, got %+v", snap)
	}
}
