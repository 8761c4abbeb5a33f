package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TAX_RATE", "0.05")
	t.Setenv("CACHE_METHODS", "GET,HEAD")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Port != "8080" || cfg.DB.Driver != "mysql" {
		t.Fatalf("unexpected defaults: port=%s driver=%s", cfg.Port, cfg.DB.Driver)
	}
	if cfg.Pricing.ConvenienceFeeCents != 4900 || cfg.Pricing.TaxRate != 0.05 {
		t.Fatalf("unexpected pricing %+v", cfg.Pricing)
	}
	if cfg.SeatMap.Rows != 8 || cfg.SeatMap.SeatsPerRow != 12 || cfg.SeatMap.BasePriceCents != 20000 {
		t.Fatalf("unexpected seat map %+v", cfg.SeatMap)
	}
	if len(cfg.Cache.Methods) != 2 || cfg.Cache.Methods[1] != "HEAD" {
		t.Fatalf("expected GET,HEAD, got %v", cfg.Cache.Methods)
	}
	if cfg.RateLimit.TTL != 5*time.Second {
		t.Fatalf("expected rate limit TTL raised to 5s, got %s", cfg.RateLimit.TTL)
	}
	if cfg.Redis.Address() != "localhost:6379" {
		t.Fatalf("expected localhost:6379, got %s", cfg.Redis.Address())
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "unused")
	os.Unsetenv("JWT_SECRET")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}
