package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Adriano-luizello/Profeta-sub001/internal/config"
	"github.com/Adriano-luizello/Profeta-sub001/internal/supplychain"
)

func TestBuildSupplyChainKey(t *testing.T) {
	day := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	p := supplychain.DefaultParams()

	key := buildSupplyChainKey("a1", p, day)
	if !strings.HasPrefix(key, analysisKeyPrefix("a1")) {
		t.Fatalf("key %q must start with the analysis prefix", key)
	}
	if !strings.HasSuffix(key, ":2026-03-15") {
		t.Fatalf("key %q must end with the calendar day", key)
	}

	if buildSupplyChainKey("a1", p, day) != key {
		t.Fatalf("key must be deterministic")
	}

	changed := p
	changed.MOQ = 50
	if buildSupplyChainKey("a1", changed, day) == key {
		t.Fatalf("changing the policy must change the key")
	}
	if buildSupplyChainKey("a1", p, day.AddDate(0, 0, 1)) == key {
		t.Fatalf("changing the day must change the key")
	}
	if strings.HasPrefix(buildSupplyChainKey("a10", p, day), analysisKeyPrefix("a1")) {
		t.Fatalf("prefix of a1 must not match a10")
	}
}

func TestNoopCacheWhenDisabled(t *testing.T) {
	c, err := NewSupplyChainCache(config.CacheConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	if err := c.SetMetrics(ctx, "a1", supplychain.DefaultParams(), time.Now(), []supplychain.Metrics{{ProductID: "p"}}); err != nil {
		t.Fatalf("noop set failed: %v", err)
	}
	if _, ok, err := c.GetMetrics(ctx, "a1", supplychain.DefaultParams(), time.Now()); ok || err != nil {
		t.Fatalf("noop cache must always miss, got ok=%v err=%v", ok, err)
	}
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.DB != 2 {
		t.Fatalf("unexpected options: %+v", opts)
	}

	opts, err = redisOptions(config.CacheConfig{RedisURL: "redis://:secret@example.com:6379/1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "example.com:6379" || opts.Password != "secret" || opts.DB != 1 {
		t.Fatalf("unexpected options from url: %+v", opts)
	}

	if _, err := redisOptions(config.CacheConfig{RedisURL: "://bad"}); err == nil {
		t.Fatalf("expected invalid url error")
	}
}

func TestMetricsTTL(t *testing.T) {
	cases := []struct {
		seconds  int
		expected time.Duration
	}{
		{0, defaultMetricsTTL},
		{-5, defaultMetricsTTL},
		{90, 90 * time.Second},
	}
	for _, tc := range cases {
		if got := metricsTTL(config.CacheConfig{SupplyChainTTLSeconds: tc.seconds}); got != tc.expected {
			t.Fatalf("ttl %d seconds: expected %s, got %s", tc.seconds, tc.expected, got)
		}
	}
}
