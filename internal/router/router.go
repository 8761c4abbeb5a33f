package router // package router defines how HTTP routes are registered for the API

import (
	"log/slog"

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/cinema-ticket-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/cinema-ticket-booking/internal/logger"     // structured request logging
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware" // import middleware for JWT authentication, rate limiting and caching
)

// New returns an Echo instance with the shared middleware stack: panic
// recovery, request logging through log, the JSON error handler and the
// request validator.  limiter may be nil.
func New(log *logger.Logger, limiter echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				log.WarnContext(c.Request().Context(), "HTTP Error",
					slog.String("method", c.Request().Method),
					slog.String("path", c.Request().URL.Path),
					slog.Int("status", v.Status),
					slog.String("error", v.Error.Error()))
				return nil
			}
			log.LogHTTPRequest(c, v.Status, v.Latency)
			return nil
		},
	}))
	if limiter != nil {
		e.Use(limiter)
	}
	return e
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance: liveness and readiness probes.
func RegisterRoutes(e *echo.Echo, store handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(store))
}

// RegisterAuth registers all authentication‑related routes.  Unauthenticated
// operations live under /v1/auth, while /v1/me requires a valid access
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh token in the body, or revokes every token of
	// the bearer's user when none is posted.
	g.POST("/logout", a.Logout, middleware.OptionalJWT(jwtSecret))

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterCatalog registers the public movie and theater endpoints.
// cache may be nil.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/movies", h.ListMovies)
	g.GET("/movies/:id", h.GetMovie)
	g.GET("/theaters", h.ListTheaters)
	g.GET("/theaters/:id", h.GetTheater)
}

// RegisterBooking registers the booking flow.  Guests may build a
// selection; committing and the history endpoints need a valid JWT.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	s := e.Group("/v1/sessions", middleware.OptionalJWT(jwtSecret))
	s.POST("", h.CreateSession)
	s.GET("/:id", h.GetSession)
	s.DELETE("/:id", h.DeleteSession)
	s.PUT("/:id/movie", h.SetMovie)
	s.PUT("/:id/theater", h.SetTheater)
	s.PUT("/:id/date", h.SetDate)
	s.PUT("/:id/showtime", h.SetShowTime)
	s.GET("/:id/seats", h.GetSeats)
	s.POST("/:id/seats", h.AddSeat)
	s.DELETE("/:id/seats/:seat", h.RemoveSeat)
	s.DELETE("/:id/selection", h.ClearSelection)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.POST("/sessions/:id/commit", h.Commit)
	auth.GET("/my-bookings", h.MyBookings)
	auth.GET("/my-tickets", h.MyTickets)
}
