package config

import "time"

// RateLimit configures the Redis token bucket applied to the API.
type RateLimit struct {
	Enabled        bool          `env:"RATE_LIMIT_ENABLED" env-default:"true"`
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" env-default:"60"`
	RefillTokens   int           `env:"RATE_LIMIT_REFILL_TOKENS" env-default:"1"`
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" env-default:"1s"`
	TTL            time.Duration `env:"RATE_LIMIT_TTL" env-default:"10m"`
	KeyStrategy    string        `env:"RATE_LIMIT_KEY_STRATEGY" env-default:"ip_user_route"`
	Prefix         string        `env:"RATE_LIMIT_PREFIX" env-default:"rl"`
	Debug          bool          `env:"RATE_LIMIT_DEBUG" env-default:"false"`
}

func (r *RateLimit) normalize() {
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	if r.RefillTokens < 1 {
		r.RefillTokens = 1
	}
	if r.RefillInterval <= 0 {
		r.RefillInterval = time.Second
	}
	if minTTL := 5 * r.RefillInterval; r.TTL < minTTL {
		r.TTL = minTTL
	}
}

// Cache configures the response cache for catalog endpoints.  Methods is
// a comma separated list of HTTP methods.
type Cache struct {
	Enabled      bool          `env:"CACHE_ENABLED" env-default:"true"`
	Methods      []string      `env:"CACHE_METHODS" env-default:"GET" env-separator:","`
	TTL          time.Duration `env:"CACHE_TTL" env-default:"30s"`
	KeyStrategy  string        `env:"CACHE_KEY_STRATEGY" env-default:"route_query"`
	Prefix       string        `env:"CACHE_PREFIX" env-default:"cache"`
	MaxBodyBytes int           `env:"CACHE_MAX_BODY_BYTES" env-default:"1048576"`
}
