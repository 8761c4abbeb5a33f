// Package session keeps the in-progress bookings of anonymous and signed-in
// visitors.  Each session owns one booking.Selection and the seat map of
// the show it currently points at.  Idle sessions are swept after a TTL.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinema-ticket-booking/internal/booking"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/seatmap"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// SeatMapFactory produces a fresh seat map for a show.
type SeatMapFactory func() (*model.SeatMap, error)

// GeneratorFactory wraps a seat map generator so it can be shared by
// concurrent sessions.
func GeneratorFactory(gen *seatmap.Generator, rows, seatsPerRow int, basePriceCents int64) SeatMapFactory {
	var mu sync.Mutex
	return func() (*model.SeatMap, error) {
		mu.Lock()
		defer mu.Unlock()
		return gen.Generate(rows, seatsPerRow, basePriceCents)
	}
}

// Session is one visitor's booking in progress.
type Session struct {
	ID        string
	Selection *booking.Selection
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	seatMap  *model.SeatMap
	showKey  string
	newMap   SeatMapFactory
}

// currentMapLocked returns the seat map of the show the selection points
// at.  A new map is generated the first time and whenever theater, date or
// show time change.
func (s *Session) currentMapLocked(key string) (*model.SeatMap, error) {
	if s.seatMap != nil && s.showKey == key {
		return s.seatMap, nil
	}
	m, err := s.newMap()
	if err != nil {
		return nil, err
	}
	s.seatMap, s.showKey = m, key
	return m, nil
}

// Seat looks up a seat of the current show.
func (s *Session) Seat(id string) (model.Seat, bool, error) {
	key := showKey(s.Selection.Snapshot())
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.currentMapLocked(key)
	if err != nil {
		return model.Seat{}, false, err
	}
	seat, ok := m.Seat(id)
	return seat, ok, nil
}

// Seats returns a copy of the current show's seat rows with the selected
// seats marked.
func (s *Session) Seats() ([]model.SeatRow, error) {
	key := showKey(s.Selection.Snapshot())
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.currentMapLocked(key)
	if err != nil {
		return nil, err
	}
	rows := make([]model.SeatRow, 0, len(m.Rows))
	for _, r := range m.Rows {
		row := model.SeatRow{Label: r.Label, Seats: make([]model.Seat, len(r.Seats))}
		copy(row.Seats, r.Seats)
		for i := range row.Seats {
			if row.Seats[i].Status == model.SeatAvailable && s.Selection.HasSeat(row.Seats[i].ID) {
				row.Seats[i].Status = model.SeatSelected
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MarkBooked flags seats as booked on the current seat map so a later
// selection for the same show can not pick them again.
func (s *Session) MarkBooked(seats []model.Seat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seatMap == nil {
		return
	}
	s.seatMap.MarkBooked(seats)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func showKey(snap booking.Snapshot) string {
	key := ""
	if snap.Theater != nil {
		key += snap.Theater.ID
	}
	key += "|"
	if snap.Date != nil {
		key += snap.Date.Format(model.DateLayout)
	}
	key += "|"
	if snap.ShowTime != nil {
		key += *snap.ShowTime
	}
	return key
}

// Store holds live sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl          time.Duration
	now          func() time.Time
	newSelection func() *booking.Selection
	newSeatMap   SeatMapFactory
	log          *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for idle tracking.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithLogger sets the logger used by the sweeper.
func WithLogger(l *slog.Logger) Option { return func(s *Store) { s.log = l } }

// NewStore returns an empty store.  Sessions idle for longer than ttl are
// removed by Sweep; a non-positive ttl disables expiry.
func NewStore(ttl time.Duration, newSelection func() *booking.Selection, newSeatMap SeatMapFactory, opts ...Option) *Store {
	s := &Store{
		sessions:     map[string]*Session{},
		ttl:          ttl,
		now:          time.Now,
		newSelection: newSelection,
		newSeatMap:   newSeatMap,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new session with an empty selection.
func (s *Store) Create() (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	now := s.now()
	sess := &Session{
		ID:        id.String(),
		Selection: s.newSelection(),
		CreatedAt: now.UTC(),
		lastSeen:  now,
		newMap:    s.newSeatMap,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get returns the session and refreshes its idle timer.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	if s.expired(sess, now) {
		s.Delete(id)
		return nil, ErrNotFound
	}
	sess.touch(now)
	return sess, nil
}

// Delete removes the session.  It reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle since before now-ttl and returns how many
// were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.idleSince()) > s.ttl
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(s.now()); n > 0 {
				s.log.Debug("session: swept idle sessions", slog.Int("removed", n))
			}
		}
	}
}
