package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/cinema-ticket-booking/internal/identity"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// attaches the token's user to the request context, where identity.Context
// picks it up when a booking is committed.  The user ID is also stored under
// "user_id" for handlers that only need the subject.  Requests without a
// valid token are rejected with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			u, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			attachUser(c, u)
			return next(c)
		}
	}
}

// OptionalJWT attaches the user when a valid Bearer token is present and
// otherwise lets the request through anonymously.  It lets guests browse
// and build a selection; the commit endpoint still requires JWTAuth.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearerToken(c); ok {
				if u, err := utils.ParseAccessToken(secret, raw); err == nil {
					attachUser(c, u)
				}
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}

func attachUser(c echo.Context, u *model.User) {
	req := c.Request()
	c.SetRequest(req.WithContext(identity.WithUser(req.Context(), u)))
	c.Set("user_id", u.ID)
}
