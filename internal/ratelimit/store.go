package ratelimit

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore is the key-value counter backing the rate limiter.
// Implementations must treat a missing or expired key as zero.
type CounterStore interface {
	// Get returns the current counter value for key, or 0 when absent.
	Get(ctx context.Context, key string) (int64, error)
	// Put writes value under key with the given TTL. The TTL restarts on
	// every write, so a counter that expires resets to zero automatically.
	Put(ctx context.Context, key string, value int64, ttl time.Duration) error
}

// RedisStore implements CounterStore on a Redis connection.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance at redisURL.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if opt.TLSConfig != nil {
		opt.TLSConfig = opt.TLSConfig.Clone()
		opt.TLSConfig.MinVersion = tls.VersionTLS12
	}

	return &RedisStore{client: redis.NewClient(opt)}, nil
}

// NewRedisStoreFromClient wraps an existing client. Used by tests.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping checks connectivity for readiness probes.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, key string) (int64, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		// A corrupt counter behaves like an expired one.
		return 0, nil
	}
	return count, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value int64, ttl time.Duration) error {
	return s.client.Set(ctx, key, strconv.FormatInt(value, 10), ttl).Err()
}
