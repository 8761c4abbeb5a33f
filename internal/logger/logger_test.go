package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestNewWithWriter_JSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "prod", "info")
	l.WithUserID("u-1").LogBookingCommitted(context.Background(), "BMS0000000001", "u-1", 2, 63900)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "Booking Committed" || rec["booking_id"] != "BMS0000000001" || rec["user_id"] != "u-1" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestNewWithWriter_TextInDevAndLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "dev", "warn")
	l.Info("dropped")
	l.WithError(errors.New("boom")).Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "msg=kept") || !strings.Contains(out, "error=boom") {
		t.Fatalf("expected text record with error, got %q", out)
	}
}
