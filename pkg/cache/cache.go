// Package cache provides byte-level caching for coloring results, graph
// statistics and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//
// Keys come from a [Keyer], so every backend shares the same key layout:
//
//	key := keyer.ColoringKey(graphHash, cache.ColoringKeyOpts{Algorithm: "dsatur", MaxColors: 4})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    // decode cached assignment
//	}
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with hit == false and a nil error; an error means the
// backend itself failed. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per entry kind.
const (
	ColoringTTL = 7 * 24 * time.Hour
	StatsTTL    = 30 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// NullCache never stores anything. It stands in for a cache when caching is
// disabled by --no-cache or backend = "none".
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
