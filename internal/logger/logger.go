// Package logger configures the structured logger shared by the server and
// its background workers.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Logger wraps slog.Logger with a few domain helpers.
type Logger struct {
	*slog.Logger
}

// New creates a logger writing to stdout.  Development environments get
// the text handler, everything else JSON.
func New(env, level string) *Logger {
	return NewWithWriter(os.Stdout, env, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, env, level string) *Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if env == "" || env == "dev" || env == "development" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// ParseLevel converts a LOG_LEVEL value to slog.Level; unknown values
// default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithUserID adds user ID to logger context
func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("user_id", userID))}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

// LogHTTPRequest logs one served request.
func (l *Logger) LogHTTPRequest(c echo.Context, status int, duration time.Duration) {
	req := c.Request()
	l.Logger.InfoContext(req.Context(),
		"HTTP Request",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("query", req.URL.RawQuery),
		slog.Int("status", status),
		slog.Duration("duration", duration),
		slog.String("ip", c.RealIP()),
	)
}

// LogBookingCommitted logs a confirmed booking.
func (l *Logger) LogBookingCommitted(ctx context.Context, bookingID, userID string, seats int, totalCents int64) {
	l.Logger.InfoContext(ctx,
		"Booking Committed",
		slog.String("booking_id", bookingID),
		slog.String("user_id", userID),
		slog.Int("seats", seats),
		slog.Int64("total_cents", totalCents),
	)
}

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}
