package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	u := &model.User{ID: "42", Name: "Asha", Email: "asha@example.com"}
	tok, err := NewAccessToken("secret", u, 15)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if tok.Exp.Before(time.Now().Add(14 * time.Minute)) {
		t.Fatalf("unexpected expiry %v", tok.Exp)
	}
	got, err := ParseAccessToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if *got != *u {
		t.Fatalf("expected %+v, got %+v", u, got)
	}
}

func TestParseAccessToken_Rejects(t *testing.T) {
	u := &model.User{ID: "42"}
	tok, _ := NewAccessToken("secret", u, 15)
	if _, err := ParseAccessToken("other", tok.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong key, got %v", err)
	}

	expired, _ := NewAccessToken("secret", u, -1)
	if _, err := ParseAccessToken("secret", expired.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Name: "x"}).SignedString([]byte("secret"))
	if _, err := ParseAccessToken("secret", noSub); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without subject, got %v", err)
	}

	if _, err := ParseAccessToken("secret", "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	b, _ := NewRefreshToken(7)
	if len(a.Raw) != 96 || a.Raw == b.Raw {
		t.Fatalf("expected distinct 96 char tokens, got %q %q", a.Raw, b.Raw)
	}
	if HashRefreshRaw(a.Raw) != HashRefreshRaw(a.Raw) || len(HashRefreshRaw(a.Raw)) != 64 {
		t.Fatal("expected stable 64 char hash")
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !VerifyPassword(hash, "hunter22") || VerifyPassword(hash, "hunter23") {
		t.Fatal("password verification mismatch")
	}
}
