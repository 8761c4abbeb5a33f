// Package catalog serves the movies and theaters a booking can reference.
// The catalog is read-only; every accessor returns copies so callers can
// not mutate shared entries.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

var (
	// ErrUnknownMovie is returned when a movie ID is not in the catalog.
	ErrUnknownMovie = errors.New("unknown movie")
	// ErrUnknownTheater is returned when a theater ID is not in the catalog.
	ErrUnknownTheater = errors.New("unknown theater")
	// ErrShowTimeNotOffered is returned when a theater does not screen at the
	// requested time.
	ErrShowTimeNotOffered = errors.New("show time not offered by theater")
	// ErrDateOutOfRange is returned for show dates before today or beyond the
	// booking window.
	ErrDateOutOfRange = errors.New("show date out of range")
)

// Catalog is an immutable set of movies and theaters.
type Catalog struct {
	movies   []model.Movie
	theaters []model.Theater
}

// New builds a catalog from the given entries.  IDs must be unique per
// kind.
func New(movies []model.Movie, theaters []model.Theater) (*Catalog, error) {
	seen := map[string]bool{}
	for _, m := range movies {
		if m.ID == "" || seen["m:"+m.ID] {
			return nil, fmt.Errorf("catalog: invalid or duplicate movie id %q", m.ID)
		}
		seen["m:"+m.ID] = true
	}
	for _, t := range theaters {
		if t.ID == "" || seen["t:"+t.ID] {
			return nil, fmt.Errorf("catalog: invalid or duplicate theater id %q", t.ID)
		}
		seen["t:"+t.ID] = true
	}
	c := &Catalog{}
	for _, m := range movies {
		c.movies = append(c.movies, copyMovie(m))
	}
	for _, t := range theaters {
		c.theaters = append(c.theaters, copyTheater(t))
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(seedMovies, seedTheaters)
	if err != nil {
		panic(err)
	}
	return c
}

// Movies lists every movie in catalog order.
func (c *Catalog) Movies() []model.Movie {
	out := make([]model.Movie, 0, len(c.movies))
	for _, m := range c.movies {
		out = append(out, copyMovie(m))
	}
	return out
}

// Featured lists the movies flagged for the landing page.
func (c *Catalog) Featured() []model.Movie {
	out := []model.Movie{}
	for _, m := range c.movies {
		if m.Featured {
			out = append(out, copyMovie(m))
		}
	}
	return out
}

// Movie looks up a movie by ID.
func (c *Catalog) Movie(id string) (*model.Movie, error) {
	for _, m := range c.movies {
		if m.ID == id {
			cp := copyMovie(m)
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMovie, id)
}

// Theaters lists every theater in catalog order.
func (c *Catalog) Theaters() []model.Theater {
	out := make([]model.Theater, 0, len(c.theaters))
	for _, t := range c.theaters {
		out = append(out, copyTheater(t))
	}
	return out
}

// Theater looks up a theater by ID.
func (c *Catalog) Theater(id string) (*model.Theater, error) {
	for _, t := range c.theaters {
		if t.ID == id {
			cp := copyTheater(t)
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTheater, id)
}

// ShowTimeOffered reports whether theater screens at showTime.
func (c *Catalog) ShowTimeOffered(theaterID, showTime string) error {
	t, err := c.Theater(theaterID)
	if err != nil {
		return err
	}
	if !slices.Contains(t.ShowTimes, strings.TrimSpace(showTime)) {
		return fmt.Errorf("%w: %s at %s", ErrShowTimeNotOffered, t.Name, showTime)
	}
	return nil
}

// ParseShowDate parses a YYYY-MM-DD date and checks that it falls between
// today and today+maxAdvanceDays (inclusive), both taken in UTC.
func ParseShowDate(s string, now time.Time, maxAdvanceDays int) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	last := today.AddDate(0, 0, maxAdvanceDays)
	if d.Before(today) || d.After(last) {
		return time.Time{}, fmt.Errorf("%w: %s not within %s..%s", ErrDateOutOfRange,
			s, today.Format(model.DateLayout), last.Format(model.DateLayout))
	}
	return d, nil
}

func copyMovie(m model.Movie) model.Movie {
	m.Genres = slices.Clone(m.Genres)
	return m
}

func copyTheater(t model.Theater) model.Theater {
	t.ShowTimes = slices.Clone(t.ShowTimes)
	return t
}
