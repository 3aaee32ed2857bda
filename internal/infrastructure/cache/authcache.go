package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quotakeeper/quotakeeper/internal/shared/constants"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

// AuthSnapshot is what the auth middleware remembers about a token's owner.
type AuthSnapshot struct {
	UserID     uint   `json:"user_id"`
	ExternalID int64  `json:"external_id"`
	Username   string `json:"username"`
	Plan       string `json:"plan"`
}

// AuthCache caches resolved identities under the raw authorization token.
type AuthCache interface {
	// Get returns nil, nil on a cache miss.
	Get(ctx context.Context, authKey string) (*AuthSnapshot, error)
	Set(ctx context.Context, authKey string, snapshot *AuthSnapshot) error
	// Invalidate deletes the entry. Deleting a missing entry is not an error.
	Invalidate(ctx context.Context, authKey string) error
}

const defaultAuthCacheTTL = time.Hour

// RedisAuthCache implements AuthCache with one JSON string per token.
type RedisAuthCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

// NewRedisAuthCache creates a Redis-backed auth cache. A non-positive ttl
// falls back to one hour.
func NewRedisAuthCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisAuthCache {
	if ttl <= 0 {
		ttl = defaultAuthCacheTTL
	}
	return &RedisAuthCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// AuthCacheKey returns the Redis key for an authorization token.
func AuthCacheKey(authKey string) string {
	return constants.CacheKeyPrefixAuth + authKey
}

func (c *RedisAuthCache) Get(ctx context.Context, authKey string) (*AuthSnapshot, error) {
	raw, err := c.client.Get(ctx, AuthCacheKey(authKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get auth entry from cache: %w", err)
	}

	var snapshot AuthSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		// A corrupt entry behaves like a miss and gets refilled.
		c.logger.Warnw("discarding malformed auth cache entry", "error", err)
		return nil, nil
	}
	return &snapshot, nil
}

func (c *RedisAuthCache) Set(ctx context.Context, authKey string, snapshot *AuthSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("auth snapshot is required")
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode auth snapshot: %w", err)
	}
	if err := c.client.Set(ctx, AuthCacheKey(authKey), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set auth entry in cache: %w", err)
	}
	return nil
}

func (c *RedisAuthCache) Invalidate(ctx context.Context, authKey string) error {
	if err := c.client.Del(ctx, AuthCacheKey(authKey)).Err(); err != nil {
		return fmt.Errorf("failed to delete auth entry from cache: %w", err)
	}
	c.logger.Debugw("auth cache entry invalidated")
	return nil
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
