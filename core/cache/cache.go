package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"campus-events/core/config"
	"campus-events/core/constants"
	"campus-events/core/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache wraps the Redis client used for token revocation and the short-lived
// registration counters surfaced on event cards.
type Cache struct {
	client *redis.Client
}

func NewCache(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis initialized successfully", "addr", cfg.Addr, "db", cfg.DB)
	return &Cache{client: client}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// ===================== Token blacklist =====================

func (c *Cache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	key := constants.RedisKeyTokenBlacklist + token
	return c.client.Set(ctx, key, "1", ttl).Err()
}

func (c *Cache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := constants.RedisKeyTokenBlacklist + token
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ===================== Password reset tokens =====================

// SetPasswordResetToken stores a one-shot reset token mapped to the account
// it unlocks. The TTL bounds the reset window.
func (c *Cache) SetPasswordResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	key := constants.RedisKeyPasswordReset + token
	return c.client.Set(ctx, key, userID.String(), ttl).Err()
}

// ConsumePasswordResetToken atomically fetches and deletes a reset token so
// it cannot be replayed. The second return value reports whether the token
// was present.
func (c *Cache) ConsumePasswordResetToken(ctx context.Context, token string) (uuid.UUID, bool, error) {
	key := constants.RedisKeyPasswordReset + token
	val, err := c.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, err
	}
	return userID, true, nil
}

// ===================== Registration counters =====================

// GetRegistrationCount returns the cached counter for an event. The second
// return value reports a cache hit; a miss means the caller must fall back to
// the database and repopulate via SetRegistrationCount.
func (c *Cache) GetRegistrationCount(ctx context.Context, eventID string) (int, bool, error) {
	key := constants.RedisKeyRegistrationCount + eventID
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

func (c *Cache) SetRegistrationCount(ctx context.Context, eventID string, count int) error {
	key := constants.RedisKeyRegistrationCount + eventID
	return c.client.Set(ctx, key, count, constants.RegistrationCountTTL).Err()
}

// InvalidateRegistrationCount drops the cached counter after a successful
// register/cancel so the next read reflects the database.
func (c *Cache) InvalidateRegistrationCount(ctx context.Context, eventID string) error {
	key := constants.RedisKeyRegistrationCount + eventID
	return c.client.Del(ctx, key).Err()
}
