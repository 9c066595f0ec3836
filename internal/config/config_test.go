package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigClampsValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	c := LoadRateLimitConfig()
	if c.Capacity != 1 || c.RefillTokens != 1 {
		t.Fatalf("expected clamped capacity/refill, got %+v", c)
	}
	if c.TTL != 10*time.Second {
		t.Fatalf("expected TTL raised to 10s, got %s", c.TTL)
	}
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	t.Setenv("CACHE_SKIP_PATHS", "/v1/stalls, /v1/stalls/busiest")
	c := LoadCacheConfig()
	if !c.Enabled || c.TTL != 30*time.Second || c.KeyStrategy != "route_query" {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if !c.SkipPaths["/v1/stalls"] || !c.SkipPaths["/v1/stalls/busiest"] {
		t.Fatalf("skip paths not parsed: %v", c.SkipPaths)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("FLAG", "off")
	if envBool("FLAG", true) {
		t.Fatal("expected off to parse as false")
	}
	t.Setenv("FLAG", "maybe")
	if !envBool("FLAG", true) {
		t.Fatal("expected default for unrecognised value")
	}
}

func TestLoadReadsSessionAndSeatSettings(t *testing.T) {
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "cafeteria")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STAFF_PASSWORD_HASH", "$2a$10$hash")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("SEAT_POOL_SIZE", "40")
	t.Setenv("SEAT_PRICE", "2.50")

	c := Load()
	if c.SessionTTL != 5*time.Minute || c.SeatPoolSize != 40 {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.SeatPrice.String() != "2.5" {
		t.Fatalf("unexpected seat price %s", c.SeatPrice)
	}
	if c.PaymentMode != "amqp" || c.Port != "8080" {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestPositiveInt(t *testing.T) {
	if n, err := positiveInt("", 20); err != nil || n != 20 {
		t.Fatalf("expected default, got %d %v", n, err)
	}
	if n, err := positiveInt("12", 20); err != nil || n != 12 {
		t.Fatalf("expected 12, got %d %v", n, err)
	}
	for _, bad := range []string{"0", "-5", "twenty"} {
		if _, err := positiveInt(bad, 20); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}
