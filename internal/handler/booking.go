package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-booking/internal/booking"
	"github.com/iliyamo/cinema-ticket-booking/internal/catalog"
	"github.com/iliyamo/cinema-ticket-booking/internal/identity"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/seatmap"
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
	"github.com/iliyamo/cinema-ticket-booking/internal/session"
)

// TicketLister reads the per-user ticket history.
type TicketLister interface {
	List(ctx context.Context, userID, query string) ([]model.CommittedBooking, error)
}

// BookingHandler drives the booking flow: a session is created, movie,
// theater, date, show time and seats are picked in any order, and the
// selection is committed by a signed-in user.
type BookingHandler struct {
	Sessions       *session.Store
	Catalog        *catalog.Catalog
	Checkout       *service.Checkout
	Store          booking.Store
	Tickets        TicketLister // optional; falls back to Store
	MaxAdvanceDays int
	Now            func() time.Time
}

func NewBookingHandler(sessions *session.Store, cat *catalog.Catalog, checkout *service.Checkout, store booking.Store, tickets TicketLister, maxAdvanceDays int) *BookingHandler {
	return &BookingHandler{
		Sessions:       sessions,
		Catalog:        cat,
		Checkout:       checkout,
		Store:          store,
		Tickets:        tickets,
		MaxAdvanceDays: maxAdvanceDays,
		Now:            time.Now,
	}
}

// ----- views -----

type selectionView struct {
	SessionID string         `json:"session_id"`
	Movie     *model.Movie   `json:"movie"`
	Theater   *model.Theater `json:"theater"`
	Date      *string        `json:"date"`
	ShowTime  *string        `json:"show_time"`
	Seats     []model.Seat   `json:"seats"`
	Quote     booking.Quote  `json:"quote"`
	Missing   []string       `json:"missing"`
	Complete  bool           `json:"complete"`
}

func viewSelection(sess *session.Session) selectionView {
	snap := sess.Selection.Snapshot()
	missing := sess.Selection.Missing()
	if missing == nil {
		missing = []string{}
	}
	v := selectionView{
		SessionID: sess.ID,
		Movie:     snap.Movie,
		Theater:   snap.Theater,
		ShowTime:  snap.ShowTime,
		Seats:     snap.Seats,
		Quote:     sess.Selection.Quote(),
		Missing:   missing,
		Complete:  len(missing) == 0,
	}
	if snap.Date != nil {
		d := snap.Date.Format(model.DateLayout)
		v.Date = &d
	}
	return v
}

type bookingView struct {
	ID                  string       `json:"id"`
	UserID              string       `json:"user_id"`
	UserName            string       `json:"user_name"`
	UserEmail           string       `json:"user_email"`
	MovieID             string       `json:"movie_id"`
	MovieTitle          string       `json:"movie_title"`
	PosterURL           string       `json:"poster_url,omitempty"`
	TheaterID           string       `json:"theater_id"`
	TheaterName         string       `json:"theater_name"`
	ShowDate            string       `json:"show_date"`
	ShowTime            string       `json:"show_time"`
	Seats               []model.Seat `json:"seats"`
	SubtotalCents       int64        `json:"subtotal_cents"`
	ConvenienceFeeCents int64        `json:"convenience_fee_cents"`
	TaxCents            int64        `json:"tax_cents"`
	TotalCents          int64        `json:"total_cents"`
	CreatedAt           time.Time    `json:"created_at"`
}

func viewBooking(b *model.CommittedBooking) bookingView {
	seats := b.Seats
	if seats == nil {
		seats = []model.Seat{}
	}
	return bookingView{
		ID:                  b.ID,
		UserID:              b.UserID,
		UserName:            b.UserName,
		UserEmail:           b.UserEmail,
		MovieID:             b.MovieID,
		MovieTitle:          b.MovieTitle,
		PosterURL:           b.PosterURL,
		TheaterID:           b.TheaterID,
		TheaterName:         b.TheaterName,
		ShowDate:            b.ShowDate.Format(model.DateLayout),
		ShowTime:            b.ShowTime,
		Seats:               seats,
		SubtotalCents:       b.SubtotalCents,
		ConvenienceFeeCents: b.ConvenienceFeeCents,
		TaxCents:            b.TaxCents,
		TotalCents:          b.TotalCents,
		CreatedAt:           b.CreatedAt,
	}
}

func viewBookings(bs []model.CommittedBooking) []bookingView {
	out := make([]bookingView, 0, len(bs))
	for i := range bs {
		out = append(out, viewBooking(&bs[i]))
	}
	return out
}

// ----- session lifecycle -----

// CreateSession handles POST /v1/sessions.
func (h *BookingHandler) CreateSession(c echo.Context) error {
	sess, err := h.Sessions.Create()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"session_id": sess.ID})
}

// GetSession handles GET /v1/sessions/:id.
func (h *BookingHandler) GetSession(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, viewSelection(sess))
}

// DeleteSession handles DELETE /v1/sessions/:id.
func (h *BookingHandler) DeleteSession(c echo.Context) error {
	if !h.Sessions.Delete(c.Param("id")) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// session resolves :id.  Unknown or expired sessions yield a 404
// HTTPError rendered by ErrorHandler.
func (h *BookingHandler) session(c echo.Context) (*session.Session, error) {
	sess, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return sess, nil
}

// ----- field setters -----

// SetMovie handles PUT /v1/sessions/:id/movie with {"movie_id": "6"}.  A
// null or missing movie_id clears the movie.
func (h *BookingHandler) SetMovie(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	var body struct {
		MovieID *string `json:"movie_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MovieID == nil {
		sess.Selection.SetMovie(nil)
		return c.JSON(http.StatusOK, viewSelection(sess))
	}
	m, err := h.Catalog.Movie(strings.TrimSpace(*body.MovieID))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	sess.Selection.SetMovie(m)
	return c.JSON(http.StatusOK, viewSelection(sess))
}

// SetTheater handles PUT /v1/sessions/:id/theater with {"theater_id":
// "t1"}.  A show time the new theater does not offer is cleared.
func (h *BookingHandler) SetTheater(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	var body struct {
		TheaterID *string `json:"theater_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TheaterID == nil {
		sess.Selection.SetTheater(nil)
		return c.JSON(http.StatusOK, viewSelection(sess))
	}
	t, err := h.Catalog.Theater(strings.TrimSpace(*body.TheaterID))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
	}
	sess.Selection.SetTheater(t)
	if st := sess.Selection.Snapshot().ShowTime; st != nil {
		if h.Catalog.ShowTimeOffered(t.ID, *st) != nil {
			sess.Selection.SetShowTime(nil)
		}
	}
	return c.JSON(http.StatusOK, viewSelection(sess))
}

// SetDate handles PUT /v1/sessions/:id/date with {"date": "YYYY-MM-DD"}.
func (h *BookingHandler) SetDate(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	var body struct {
		Date *string `json:"date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Date == nil {
		sess.Selection.SetDate(nil)
		return c.JSON(http.StatusOK, viewSelection(sess))
	}
	d, err := catalog.ParseShowDate(*body.Date, h.Now(), h.MaxAdvanceDays)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	sess.Selection.SetDate(&d)
	return c.JSON(http.StatusOK, viewSelection(sess))
}

// SetShowTime handles PUT /v1/sessions/:id/showtime with {"show_time":
// "19:00"}.  The theater must be chosen first.
func (h *BookingHandler) SetShowTime(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	var body struct {
		ShowTime *string `json:"show_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShowTime == nil {
		sess.Selection.SetShowTime(nil)
		return c.JSON(http.StatusOK, viewSelection(sess))
	}
	theater := sess.Selection.Snapshot().Theater
	if theater == nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "select a theater first"})
	}
	st := strings.TrimSpace(*body.ShowTime)
	if err := h.Catalog.ShowTimeOffered(theater.ID, st); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	sess.Selection.SetShowTime(&st)
	return c.JSON(http.StatusOK, viewSelection(sess))
}

// ----- seats -----

// GetSeats handles GET /v1/sessions/:id/seats.
func (h *BookingHandler) GetSeats(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	rows, err := sess.Seats()
	if err != nil {
		return seatMapError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"rows":           rows,
		"selected":       sess.Selection.Snapshot().Seats,
		"subtotal_cents": sess.Selection.Subtotal(),
	})
}

// AddSeat handles POST /v1/sessions/:id/seats with {"seat_id": "C7"}.  A
// booked or already selected seat is not an error: the response carries
// a notice with level warning or info.
func (h *BookingHandler) AddSeat(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	var body struct {
		SeatID string `json:"seat_id" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}
	seat, ok, err := sess.Seat(strings.ToUpper(strings.TrimSpace(body.SeatID)))
	if err != nil {
		return seatMapError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
	}
	notice := sess.Selection.AddSeat(seat)
	return c.JSON(http.StatusOK, echo.Map{
		"notice":    notice.String(),
		"level":     notice.Level(),
		"message":   notice.Message(),
		"selection": viewSelection(sess),
	})
}

// RemoveSeat handles DELETE /v1/sessions/:id/seats/:seat.  Removing a seat
// that is not selected is a no-op.
func (h *BookingHandler) RemoveSeat(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	removed := sess.Selection.RemoveSeat(strings.ToUpper(c.Param("seat")))
	return c.JSON(http.StatusOK, echo.Map{
		"removed":   removed,
		"selection": viewSelection(sess),
	})
}

// ClearSelection handles DELETE /v1/sessions/:id/selection.
func (h *BookingHandler) ClearSelection(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	sess.Selection.Clear()
	return c.NoContent(http.StatusNoContent)
}

// ----- commit and history -----

// Commit handles POST /v1/sessions/:id/commit.  The caller must be signed
// in; the booking is attributed to the token's user.
func (h *BookingHandler) Commit(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	b, err := h.Checkout.Commit(c.Request().Context(), sess)
	if err != nil {
		return commitError(c, err)
	}
	return c.JSON(http.StatusCreated, viewBooking(b))
}

// MyBookings handles GET /v1/my-bookings: the store's bookings of the
// signed-in user, most recent first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	u, ok := identity.UserFrom(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	bs, err := h.Store.ListBookings(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "booking store unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": viewBookings(bs)})
}

// MyTickets handles GET /v1/my-tickets?q=.  Tickets are read from the
// history cache when configured, otherwise from the store, and filtered by
// movie title or theater name.
func (h *BookingHandler) MyTickets(c echo.Context) error {
	u, ok := identity.UserFrom(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	q := c.QueryParam("q")
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		bs  []model.CommittedBooking
		err error
	)
	if h.Tickets != nil {
		bs, err = h.Tickets.List(ctx, u.ID, q)
	}
	if h.Tickets == nil || err != nil {
		all, serr := h.Store.ListBookings(ctx, u.ID)
		if serr != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "booking store unavailable"})
		}
		bs = bs[:0]
		for i := range all {
			if repository.MatchesTicket(&all[i], q) {
				bs = append(bs, all[i])
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": viewBookings(bs)})
}

// commitError maps booking errors onto HTTP statuses.
func commitError(c echo.Context, err error) error {
	var incomplete *booking.IncompleteBookingError
	switch {
	case errors.As(err, &incomplete):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":   "booking is incomplete",
			"missing": incomplete.Missing,
		})
	case errors.Is(err, booking.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "sign in to complete the booking"})
	case errors.Is(err, booking.ErrIdentityUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "identity service unavailable, please retry"})
	case errors.Is(err, booking.ErrCommitInProgress):
		return c.JSON(http.StatusConflict, echo.Map{"error": "a commit is already in progress"})
	case errors.Is(err, booking.ErrPersistence):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "could not save the booking, please retry"})
	case errors.Is(err, seatmap.ErrConfiguration):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat map misconfigured"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
}

func seatMapError(c echo.Context, err error) error {
	if errors.Is(err, seatmap.ErrConfiguration) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat map misconfigured"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat map unavailable"})
}
