package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// memDB is a tiny in-memory stand-in for the bookings schema.  It
// understands the statements BookingRepo issues and nothing else.
type memDB struct {
	mu       sync.Mutex
	bookings [][]driver.Value // columns in bookings INSERT order
	seats    [][]driver.Value // booking_id, seat_id, seat_order, row_label, seat_number, tier, price_cents
	failOn   string
}

func (d *memDB) Connect(context.Context) (driver.Conn, error) { return &memConn{db: d}, nil }
func (d *memDB) Driver() driver.Driver                        { return nil }

type memConn struct {
	db *memDB
	tx *memTx
}

type memTx struct {
	c        *memConn
	bookings [][]driver.Value
	seats    [][]driver.Value
}

func (t *memTx) Commit() error {
	t.c.db.mu.Lock()
	t.c.db.bookings = append(t.c.db.bookings, t.bookings...)
	t.c.db.seats = append(t.c.db.seats, t.seats...)
	t.c.db.mu.Unlock()
	t.c.tx = nil
	return nil
}

func (t *memTx) Rollback() error {
	t.c.tx = nil
	return nil
}

func (c *memConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("prepare not supported") }
func (c *memConn) Close() error                        { return nil }

func (c *memConn) Begin() (driver.Tx, error) {
	c.tx = &memTx{c: c}
	return c.tx, nil
}

func values(args []driver.NamedValue) []driver.Value {
	out := make([]driver.Value, len(args))
	for i, a := range args {
		out[i] = a.Value
	}
	return out
}

func (c *memConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if c.db.failOn != "" && strings.Contains(query, c.db.failOn) {
		return nil, errors.New("exec failed")
	}
	vals := values(args)
	switch {
	case strings.HasPrefix(query, "INSERT INTO bookings"):
		c.db.mu.Lock()
		defer c.db.mu.Unlock()
		for _, b := range c.db.bookings {
			if b[0] == vals[0] {
				return nil, &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
			}
		}
		day, err := time.Parse(model.DateLayout, vals[9].(string))
		if err != nil {
			return nil, err
		}
		vals[9] = day
		c.pending().bookings = append(c.pending().bookings, vals)
	case strings.HasPrefix(query, "INSERT INTO booking_seats"):
		for i := 0; i+7 <= len(vals); i += 7 {
			c.pending().seats = append(c.pending().seats, vals[i:i+7])
		}
	default:
		return nil, errors.New("unexpected exec: " + query)
	}
	return driver.RowsAffected(1), nil
}

func (c *memConn) pending() *memTx {
	if c.tx == nil {
		panic("write outside a transaction")
	}
	return c.tx
}

func (c *memConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	userID := args[0].Value
	owned := map[driver.Value]bool{}
	var bookings [][]driver.Value
	for _, b := range c.db.bookings {
		if b[1] == userID {
			owned[b[0]] = true
			bookings = append(bookings, b)
		}
	}
	if !strings.Contains(query, "FROM booking_seats") {
		sort.SliceStable(bookings, func(i, j int) bool {
			ti, tj := bookings[i][15].(time.Time), bookings[j][15].(time.Time)
			if !ti.Equal(tj) {
				return ti.After(tj)
			}
			return bookings[i][0].(string) > bookings[j][0].(string)
		})
		return &memRows{rows: bookings, cols: 16}, nil
	}

	var seats [][]driver.Value
	for _, s := range c.db.seats {
		if owned[s[0]] {
			seats = append(seats, s)
		}
	}
	// Without an explicit order InnoDB returns rows in primary key order.
	sort.SliceStable(seats, func(i, j int) bool {
		if seats[i][0] != seats[j][0] {
			return seats[i][0].(string) < seats[j][0].(string)
		}
		return seats[i][1].(string) < seats[j][1].(string)
	})
	if strings.Contains(query, "bs.seat_order") {
		sort.SliceStable(seats, func(i, j int) bool {
			if seats[i][0] != seats[j][0] {
				return seats[i][0].(string) < seats[j][0].(string)
			}
			return seats[i][2].(int64) < seats[j][2].(int64)
		})
	}
	out := make([][]driver.Value, len(seats))
	for i, s := range seats {
		out[i] = []driver.Value{s[0], s[1], s[3], s[4], s[5], s[6]}
	}
	return &memRows{rows: out, cols: 6}, nil
}

type memRows struct {
	rows [][]driver.Value
	cols int
	pos  int
}

func (r *memRows) Columns() []string { return make([]string, r.cols) }
func (r *memRows) Close() error      { return nil }

func (r *memRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}

func newMemRepo(t *testing.T) (*BookingRepo, *memDB) {
	t.Helper()
	mem := &memDB{}
	db := sql.OpenDB(mem)
	t.Cleanup(func() { db.Close() })
	return NewBookingRepo(db), mem
}

func TestBookingRepo_SaveAndListKeepsSeatOrder(t *testing.T) {
	repo, _ := newMemRepo(t)
	ctx := context.Background()

	b := sampleBooking()
	// Picked back to front: H12 before A1.
	b.Seats[0], b.Seats[1] = b.Seats[1], b.Seats[0]
	if err := repo.SaveBooking(ctx, b); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	got, err := repo.ListBookings(ctx, "42")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(got))
	}
	if len(got[0].Seats) != 2 || got[0].Seats[0].ID != "H12" || got[0].Seats[1].ID != "A1" {
		t.Fatalf("expected seats [H12 A1], got %+v", got[0].Seats)
	}
	want := model.Seat{ID: "A1", Row: "A", Number: 1, PriceCents: 30000, Tier: model.TierPremium, Status: model.SeatBooked}
	if got[0].Seats[1] != want {
		t.Fatalf("expected %+v, got %+v", want, got[0].Seats[1])
	}
	if got[0].TotalCents != 63900 || !got[0].ShowDate.Equal(b.ShowDate) || got[0].ShowTime != "07:30 PM" {
		t.Fatalf("unexpected booking %+v", got[0])
	}
}

func TestBookingRepo_ListNewestFirst(t *testing.T) {
	repo, _ := newMemRepo(t)
	ctx := context.Background()

	older := sampleBooking()
	newer := sampleBooking()
	newer.ID = "BMS00FFFFFFFF"
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	other := sampleBooking()
	other.ID = "BMS00EEEEEEEE"
	other.UserID = "99"
	for _, b := range []*model.CommittedBooking{older, newer, other} {
		if err := repo.SaveBooking(ctx, b); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}

	got, err := repo.ListBookings(ctx, "42")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 2 || got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Fatalf("expected [%s %s], got %+v", newer.ID, older.ID, got)
	}
	if len(got[1].Seats) != 2 {
		t.Fatalf("expected seats attached to every booking, got %+v", got[1].Seats)
	}

	none, err := repo.ListBookings(ctx, "nobody")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil list, got %v %v", none, err)
	}
}

func TestBookingRepo_DuplicateID(t *testing.T) {
	repo, _ := newMemRepo(t)
	ctx := context.Background()
	if err := repo.SaveBooking(ctx, sampleBooking()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := repo.SaveBooking(ctx, sampleBooking()); !errors.Is(err, ErrDuplicateBooking) {
		t.Fatalf("expected ErrDuplicateBooking, got %v", err)
	}
}

func TestBookingRepo_SeatFailureRollsBack(t *testing.T) {
	repo, mem := newMemRepo(t)
	mem.failOn = "booking_seats"
	ctx := context.Background()
	if err := repo.SaveBooking(ctx, sampleBooking()); err == nil {
		t.Fatal("expected seat insert error")
	}
	if len(mem.bookings) != 0 || len(mem.seats) != 0 {
		t.Fatalf("expected nothing stored, got %d bookings %d seats", len(mem.bookings), len(mem.seats))
	}
}
