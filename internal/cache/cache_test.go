// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, sourceKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestSourceCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	sc := NewSourceCache(client, 1*time.Minute)

	ctx := context.Background()
	location := "https://example.com/pbs.csv"

	// Miss.
	if text, ok := sc.Get(ctx, location); ok || text != "" {
		t.Errorf("Get() = %q, %v, want miss", text, ok)
	}

	csv := "Category,Time\nAny%,1:23:45\n"
	sc.Set(ctx, location, csv)

	// Hit.
	text, ok := sc.Get(ctx, location)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if text != csv {
		t.Errorf("text mismatch: got %q, want %q", text, csv)
	}

	ttl, err := client.TTL(ctx, LocationKey(location)).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %v, want within (0, 1m]", ttl)
	}
}

func TestSourceCacheInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	sc := NewSourceCache(client, 1*time.Minute)

	ctx := context.Background()

	sc.Set(ctx, "s3://sheets/a.csv", "a")
	if _, ok := sc.Get(ctx, "s3://sheets/a.csv"); !ok {
		t.Fatal("expected cache hit before invalidation")
	}

	sc.Invalidate(ctx, "s3://sheets/a.csv")

	if _, ok := sc.Get(ctx, "s3://sheets/a.csv"); ok {
		t.Error("expected cache miss after invalidation")
	}
}

func TestSourceCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	sc := NewSourceCache(client, 1*time.Minute)

	ctx := context.Background()

	locations := []string{"https://a.example/1.csv", "https://a.example/2.csv", "s3://b/3.csv"}
	for _, l := range locations {
		sc.Set(ctx, l, l)
	}

	sc.InvalidateAll(ctx)

	for _, l := range locations {
		if _, ok := sc.Get(ctx, l); ok {
			t.Errorf("expected miss for %q after InvalidateAll", l)
		}
	}
}

func TestNewSourceCacheDefaultTTL(t *testing.T) {
	// TTL = 0 should use default. No connection is made.
	sc := NewSourceCache(redis.NewClient(&redis.Options{Addr: "localhost:0"}), 0)
	if sc.ttl != DefaultSourceTTL {
		t.Errorf("expected DefaultSourceTTL (%v), got %v", DefaultSourceTTL, sc.ttl)
	}
}

func TestLocationKey(t *testing.T) {
	a := LocationKey("https://example.com/a.csv")
	b := LocationKey("https://example.com/b.csv")

	if !strings.HasPrefix(a, sourceKeyPrefix) {
		t.Errorf("LocationKey() = %q, want prefix %q", a, sourceKeyPrefix)
	}
	if a == b {
		t.Error("different locations share a key")
	}
	if a != LocationKey("https://example.com/a.csv") {
		t.Error("LocationKey() is not stable")
	}
	if len(a) != len(sourceKeyPrefix)+64 {
		t.Errorf("len(LocationKey()) = %d, want %d", len(a), len(sourceKeyPrefix)+64)
	}
}
