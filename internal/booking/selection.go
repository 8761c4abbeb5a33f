// Package booking holds the in-progress ticket selection of one session
// and turns it into a CommittedBooking.  Fields are set progressively and
// in any order; completeness is only checked when the booking is committed.
package booking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iliyamo/cinema-ticket-booking/internal/identity"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// Notice reports the outcome of AddSeat.  Rejected additions are not
// errors; they are surfaced to the user as a warning or an info message.
type Notice int

const (
	NoticeAdded Notice = iota
	NoticeAlreadySelected
	NoticeSeatBooked
)

func (n Notice) String() string {
	switch n {
	case NoticeAlreadySelected:
		return "already_selected"
	case NoticeSeatBooked:
		return "seat_booked"
	default:
		return "added"
	}
}

// Level is "warning" for booked seats, "info" for duplicates and empty for
// a seat that was added.
func (n Notice) Level() string {
	switch n {
	case NoticeAlreadySelected:
		return "info"
	case NoticeSeatBooked:
		return "warning"
	default:
		return ""
	}
}

// Message is the user-facing text of the notice.
func (n Notice) Message() string {
	switch n {
	case NoticeAlreadySelected:
		return "This seat is already selected"
	case NoticeSeatBooked:
		return "This seat is already booked"
	default:
		return "Seat added"
	}
}

// Field names reported by Missing, in check order.
const (
	FieldMovie    = "movie"
	FieldTheater  = "theater"
	FieldDate     = "date"
	FieldShowTime = "showtime"
	FieldSeats    = "seats"
)

// Snapshot is a copy of the selection state.
type Snapshot struct {
	Movie         *model.Movie   `json:"movie"`
	Theater       *model.Theater `json:"theater"`
	Date          *time.Time     `json:"date"`
	ShowTime      *string        `json:"show_time"`
	Seats         []model.Seat   `json:"seats"`
	SubtotalCents int64          `json:"subtotal_cents"`
}

// Selection is the booking aggregate of one session.  All methods are safe
// to call from multiple goroutines; Commit additionally rejects a second
// concurrent commit with ErrCommitInProgress.
type Selection struct {
	mu         sync.Mutex
	movie      *model.Movie
	theater    *model.Theater
	date       *time.Time
	showTime   *string
	seats      []model.Seat
	committing bool

	store             Store
	ident             identity.Identity
	history           History
	pricing           Pricing
	now               func() time.Time
	newID             func() (string, error)
	log               *slog.Logger
	clearOnShowChange bool
}

// Option configures a Selection.
type Option func(*Selection)

// WithPricing overrides the convenience fee and tax rate.
func WithPricing(p Pricing) Option { return func(s *Selection) { s.pricing = p } }

// WithHistory appends committed bookings to h.
func WithHistory(h History) Option { return func(s *Selection) { s.history = h } }

// WithClock overrides the commit timestamp source.
func WithClock(now func() time.Time) Option { return func(s *Selection) { s.now = now } }

// WithIDGenerator overrides booking ID generation.
func WithIDGenerator(f func() (string, error)) Option { return func(s *Selection) { s.newID = f } }

// WithLogger sets the logger used for history failures.
func WithLogger(l *slog.Logger) Option { return func(s *Selection) { s.log = l } }

// WithClearSeatsOnShowChange drops the selected seats whenever the theater,
// date or show time changes to a different value.
func WithClearSeatsOnShowChange(on bool) Option {
	return func(s *Selection) { s.clearOnShowChange = on }
}

// New returns an empty selection that commits to store and attributes
// bookings to the user reported by ident.
func New(store Store, ident identity.Identity, opts ...Option) *Selection {
	s := &Selection{
		store:   store,
		ident:   ident,
		pricing: DefaultPricing(),
		now:     time.Now,
		newID:   NewBookingID,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetMovie replaces the movie; nil clears it.
func (s *Selection) SetMovie(m *model.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m != nil {
		cp := *m
		m = &cp
	}
	s.movie = m
}

// SetTheater replaces the theater; nil clears it.
func (s *Selection) SetTheater(t *model.Theater) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != nil {
		cp := *t
		t = &cp
	}
	if s.clearOnShowChange && !sameTheater(s.theater, t) {
		s.seats = nil
	}
	s.theater = t
}

// SetDate replaces the show date; nil clears it.  Only the calendar date
// of d is kept.
func (s *Selection) SetDate(d *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d != nil {
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		d = &day
	}
	if s.clearOnShowChange && !sameDate(s.date, d) {
		s.seats = nil
	}
	s.date = d
}

// SetShowTime replaces the show time; nil clears it.
func (s *Selection) SetShowTime(t *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != nil {
		cp := *t
		t = &cp
	}
	if s.clearOnShowChange && !sameString(s.showTime, t) {
		s.seats = nil
	}
	s.showTime = t
}

// AddSeat selects seat.  Booked seats and seats that are already selected
// leave the selection unchanged and are reported through the notice.
func (s *Selection) AddSeat(seat model.Seat) Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seat.Status == model.SeatBooked {
		return NoticeSeatBooked
	}
	if s.indexOf(seat.ID) >= 0 {
		return NoticeAlreadySelected
	}
	seat.Status = model.SeatSelected
	s.seats = append(s.seats, seat)
	return NoticeAdded
}

// RemoveSeat deselects the seat with the given ID.  It reports whether a
// seat was removed.
func (s *Selection) RemoveSeat(seatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(seatID)
	if i < 0 {
		return false
	}
	s.seats = append(s.seats[:i:i], s.seats[i+1:]...)
	return true
}

// HasSeat reports whether the seat is selected.
func (s *Selection) HasSeat(seatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(seatID) >= 0
}

// Clear resets every field.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movie, s.theater, s.date, s.showTime, s.seats = nil, nil, nil, nil, nil
}

// ClearCommitted drops what b committed from the selection.  The committed
// seats are removed; the whole selection is reset only when nothing else
// changed since the commit snapshot.  Seats added or fields changed by a
// concurrent request are kept.  It reports whether the selection was reset.
func (s *Selection) ClearCommitted(b *model.CommittedBooking) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seat := range b.Seats {
		if i := s.indexOf(seat.ID); i >= 0 {
			s.seats = append(s.seats[:i:i], s.seats[i+1:]...)
		}
	}
	if len(s.seats) > 0 || !s.matchesLocked(b) {
		return false
	}
	s.movie, s.theater, s.date, s.showTime, s.seats = nil, nil, nil, nil, nil
	return true
}

func (s *Selection) matchesLocked(b *model.CommittedBooking) bool {
	return s.movie != nil && s.movie.ID == b.MovieID &&
		s.theater != nil && s.theater.ID == b.TheaterID &&
		s.date != nil && s.date.Equal(b.ShowDate) &&
		s.showTime != nil && *s.showTime == b.ShowTime
}

// Subtotal is the sum of the selected seat prices.
func (s *Selection) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtotal(s.seats)
}

// Quote prices the current selection.
func (s *Selection) Quote() Quote {
	return s.pricing.Quote(s.Subtotal())
}

// Missing lists the fields that still block a commit.
func (s *Selection) Missing() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.missingLocked()
}

// IsComplete reports whether every field needed for a commit is set.
func (s *Selection) IsComplete() bool { return len(s.Missing()) == 0 }

// Snapshot copies the current state.
func (s *Selection) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Commit validates the selection, prices it and writes it to the store.
// On any error the selection is left as it was.  On success the committed
// booking is returned and the selection is NOT cleared; that is up to the
// caller.
func (s *Selection) Commit(ctx context.Context) (*model.CommittedBooking, error) {
	s.mu.Lock()
	if s.committing {
		s.mu.Unlock()
		return nil, ErrCommitInProgress
	}
	if missing := s.missingLocked(); len(missing) > 0 {
		s.mu.Unlock()
		return nil, &IncompleteBookingError{Missing: missing}
	}
	snap := s.snapshotLocked()
	s.committing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.committing = false
		s.mu.Unlock()
	}()

	user, err := s.ident.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityUnavailable, err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generate booking id: %w", err)
	}
	q := s.pricing.Quote(snap.SubtotalCents)
	b := &model.CommittedBooking{
		ID:                  id,
		UserID:              user.ID,
		UserName:            user.Name,
		UserEmail:           user.Email,
		MovieID:             snap.Movie.ID,
		MovieTitle:          snap.Movie.Title,
		PosterURL:           snap.Movie.PosterURL,
		TheaterID:           snap.Theater.ID,
		TheaterName:         snap.Theater.Name,
		ShowDate:            *snap.Date,
		ShowTime:            *snap.ShowTime,
		Seats:               snap.Seats,
		SubtotalCents:       q.SubtotalCents,
		ConvenienceFeeCents: q.ConvenienceFeeCents,
		TaxCents:            q.TaxCents,
		TotalCents:          q.TotalCents,
		CreatedAt:           s.now().UTC(),
	}

	if err := s.store.SaveBooking(ctx, b); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	if s.history != nil {
		if err := s.history.Append(ctx, b); err != nil {
			s.log.WarnContext(ctx, "ticket history append failed",
				slog.String("booking_id", b.ID),
				slog.String("user_id", b.UserID),
				slog.String("error", err.Error()))
		}
	}
	return b, nil
}

func (s *Selection) missingLocked() []string {
	var missing []string
	if s.movie == nil {
		missing = append(missing, FieldMovie)
	}
	if s.theater == nil {
		missing = append(missing, FieldTheater)
	}
	if s.date == nil {
		missing = append(missing, FieldDate)
	}
	if s.showTime == nil || *s.showTime == "" {
		missing = append(missing, FieldShowTime)
	}
	if len(s.seats) == 0 {
		missing = append(missing, FieldSeats)
	}
	return missing
}

func (s *Selection) snapshotLocked() Snapshot {
	snap := Snapshot{
		Seats:         append(make([]model.Seat, 0, len(s.seats)), s.seats...),
		SubtotalCents: subtotal(s.seats),
	}
	if s.movie != nil {
		m := *s.movie
		snap.Movie = &m
	}
	if s.theater != nil {
		t := *s.theater
		snap.Theater = &t
	}
	if s.date != nil {
		d := *s.date
		snap.Date = &d
	}
	if s.showTime != nil {
		st := *s.showTime
		snap.ShowTime = &st
	}
	return snap
}

func (s *Selection) indexOf(seatID string) int {
	for i, seat := range s.seats {
		if seat.ID == seatID {
			return i
		}
	}
	return -1
}

func subtotal(seats []model.Seat) int64 {
	var sum int64
	for _, seat := range seats {
		sum += seat.PriceCents
	}
	return sum
}

func sameTheater(a, b *model.Theater) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
