package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	fcerrors "github.com/franzenjb/fourcolor/pkg/errors"
)

var (
	// ErrUnavailable is returned when Redis cannot be reached.
	ErrUnavailable = errors.New("cache backend unavailable")

	errMiss = errors.New("cache miss")
)

// Commands are retried this many times on network failures, starting at
// redisRetryDelay and doubling.
const redisAttempts = 3

var redisRetryDelay = 100 * time.Millisecond

// RedisCache stores entries in Redis. Keys are prefixed so one database can
// hold other data.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// DefaultRedisPrefix is prepended to every key when no prefix is given.
const DefaultRedisPrefix = "fourcolor:"

// NewRedisCache creates a cache on an existing client.
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

// NewRedisCacheFromURL parses a redis:// URL and creates a cache. No
// connection is made until the first command.
func NewRedisCacheFromURL(url, prefix string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisCache(redis.NewClient(opts), prefix), nil
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get retrieves a value. A missing key is a miss, not an error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.retry(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, c.key(key)).Bytes()
		return classify(err)
	})
	if errors.Is(err, errMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value with an optional TTL.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.retry(ctx, func() error {
		return classify(c.client.Set(ctx, c.key(key), data, ttl).Err())
	})
}

// Delete removes a value. Deleting a missing key is not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

func (c *RedisCache) retry(ctx context.Context, fn func() error) error {
	return fcerrors.Retry(ctx, redisAttempts, redisRetryDelay, fn)
}

// classify maps redis.Nil to a miss and marks network failures as
// transient.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return errMiss
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fcerrors.Transient(fmt.Errorf("%w: %w", ErrUnavailable, err))
	}
	return err
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
