package storage

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultCacheTTL = time.Hour

// ParseCache caches serialized parse results in redis, keyed by the
// content digest of the normalized text plus the requested method.
// Parsing is a pure function of its input, so a cache hit is always valid
// for the lifetime of the taxonomy.
type ParseCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewParseCache connects to redis and instruments the client for tracing.
func NewParseCache(ctx context.Context, address, password string, db int, ttl time.Duration, logger zerolog.Logger) (*ParseCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("instrumenting redis client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", address, err)
	}

	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ParseCache{client: client, ttl: ttl, logger: logger}, nil
}

// CacheKey derives the cache key for one (text, method) pair.
func CacheKey(text, method string) string {
	digest := sha256.Sum256([]byte(text))
	return fmt.Sprintf("cache:parse:%s:%x", method, digest)
}

// Get returns the cached payload for the key, reporting whether it was
// present. A missing key is not an error.
func (c *ParseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache key %s: %w", key, err)
	}
	return payload, true, nil
}

// Set stores the payload under the key with the configured TTL.
func (c *ParseCache) Set(ctx context.Context, key string, payload []byte) error {
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing cache key %s: %w", key, err)
	}
	c.logger.Debug().Str("key", key).Int("bytes", len(payload)).Msg("cached parse result")
	return nil
}

// Close releases the redis connection.
func (c *ParseCache) Close() error {
	return c.client.Close()
}
