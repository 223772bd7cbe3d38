// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// source.go caches the raw CSV text of remote sheets in Valkey, keyed by
// location. Errors are logged and treated as misses; the cache never fails
// a load.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// sourceKeyPrefix is the Valkey key prefix for cached sheets.
	sourceKeyPrefix = "source:"

	// DefaultSourceTTL is how long a fetched sheet stays cached.
	DefaultSourceTTL = 5 * time.Minute
)

// SourceCache stores fetched sheet text in Valkey.
type SourceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSourceCache creates a source cache backed by the given Valkey client.
func NewSourceCache(client *redis.Client, ttl time.Duration) *SourceCache {
	if ttl == 0 {
		ttl = DefaultSourceTTL
	}
	return &SourceCache{client: client, ttl: ttl}
}

// Get returns the cached text for a location.
func (sc *SourceCache) Get(ctx context.Context, location string) (string, bool) {
	val, err := sc.client.Get(ctx, LocationKey(location)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		slog.Warn("source cache get error", "location", location, "error", err)
		return "", false
	}
	slog.Debug("source cache hit", "location", location)
	return val, true
}

// Set stores the text fetched from a location with the configured TTL.
func (sc *SourceCache) Set(ctx context.Context, location, text string) {
	if err := sc.client.Set(ctx, LocationKey(location), text, sc.ttl).Err(); err != nil {
		slog.Warn("source cache set error", "location", location, "error", err)
	}
}

// Invalidate removes a single location from the cache.
func (sc *SourceCache) Invalidate(ctx context.Context, location string) {
	if err := sc.client.Del(ctx, LocationKey(location)).Err(); err != nil {
		slog.Warn("source cache invalidate error", "location", location, "error", err)
	}
	slog.Debug("source cache invalidated", "location", location)
}

// InvalidateAll removes every cached sheet by scanning for the prefix.
func (sc *SourceCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := sc.client.Scan(ctx, cursor, sourceKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("source cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := sc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("source cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("source cache fully cleared", "deleted", deleted)
	}
}

// LocationKey returns the Valkey key for a location. Locations are hashed
// so long URLs with query strings make bounded keys.
func LocationKey(location string) string {
	sum := sha256.Sum256([]byte(location))
	return sourceKeyPrefix + hex.EncodeToString(sum[:])
}
