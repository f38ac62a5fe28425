package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/pushp314/coursehub-backend/internal/config"
	"github.com/pushp314/coursehub-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is absent or the cache is disabled.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a JSON cache and token blacklist on Redis. A nil *Cache or one whose
// server was unreachable at startup behaves as an always-empty cache.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis. Connection failures are logged and yield a disabled cache.
func NewCache(ctx context.Context, cfg *config.Config) *Cache {
	if cfg.RedisAddr == "" {
		logger.Warn().Msg("REDIS_ADDR not set, caching and token revocation disabled")
		return &Cache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis, caching and token revocation disabled")
		_ = client.Close()
		return &Cache{}
	}

	logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
	return &Cache{client: client}
}

// NewCacheWithClient wraps an existing client.
func NewCacheWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrCacheMiss
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

const blacklistPrefix = "blacklist:"

// BlacklistToken revokes a token id until it would have expired anyway.
func (c *Cache) BlacklistToken(ctx context.Context, jti string, expiresAt time.Time) error {
	if !c.Enabled() || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsTokenBlacklisted fails open when Redis is unavailable.
func (c *Cache) IsTokenBlacklisted(ctx context.Context, jti string) bool {
	if !c.Enabled() || jti == "" {
		return false
	}
	n, err := c.client.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		logger.Warn().Err(err).Msg("Token blacklist lookup failed")
		return false
	}
	return n > 0
}

func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
