package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"net/http" // net/http provides status codes and response helpers
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a simple health‑check endpoint used by load balancers and
// monitoring systems to verify that the service is running.  It returns
// a plain text "ok" message with an HTTP 200 status code.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Pinger is implemented by the booking stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ready reports 503 until the booking store answers a ping.
func Ready(store Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if store == nil {
			return c.String(http.StatusOK, "ok")
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
		}
		return c.String(http.StatusOK, "ok")
	}
}
