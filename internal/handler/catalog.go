// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines the public catalog API: movies and theaters can be
// browsed without authentication.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-booking/internal/catalog"
)

// CatalogHandler serves the read-only movie and theater catalog.
type CatalogHandler struct {
	Catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{Catalog: c}
}

// ListMovies handles GET /v1/movies.  ?featured=true limits the list to
// featured movies.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	if v := c.QueryParam("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "featured must be a boolean"})
		}
		if featured {
			return c.JSON(http.StatusOK, echo.Map{"movies": h.Catalog.Featured()})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": h.Catalog.Movies()})
}

// GetMovie handles GET /v1/movies/:id.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	m, err := h.Catalog.Movie(c.Param("id"))
	if errors.Is(err, catalog.ErrUnknownMovie) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	return c.JSON(http.StatusOK, m)
}

// ListTheaters handles GET /v1/theaters.
func (h *CatalogHandler) ListTheaters(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"theaters": h.Catalog.Theaters()})
}

// GetTheater handles GET /v1/theaters/:id.
func (h *CatalogHandler) GetTheater(c echo.Context) error {
	t, err := h.Catalog.Theater(c.Param("id"))
	if errors.Is(err, catalog.ErrUnknownTheater) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
	}
	return c.JSON(http.StatusOK, t)
}
