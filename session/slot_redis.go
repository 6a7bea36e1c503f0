package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSlot persists the token under one Redis key so several client
// processes (a kiosk and its helper daemon, say) share one sign-in.
type RedisSlot struct {
	redis redis.UniversalClient
	key   string
	ttl   time.Duration
}

// NewRedisSlot creates a slot at "<prefix>:token:<profile>". A zero ttl keeps
// the key until it is cleared.
func NewRedisSlot(client redis.UniversalClient, prefix, profile string, ttl time.Duration) *RedisSlot {
	if prefix == "" {
		prefix = "storerate"
	}
	if profile == "" {
		profile = "default"
	}
	return &RedisSlot{
		redis: client,
		key:   prefix + ":token:" + profile,
		ttl:   ttl,
	}
}

// Key returns the Redis key backing the slot.
func (r *RedisSlot) Key() string {
	return r.key
}

func (r *RedisSlot) Load(ctx context.Context) (string, error) {
	token, err := r.redis.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrEmptySlot
		}
		return "", fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	if token == "" {
		return "", ErrEmptySlot
	}
	return token, nil
}

func (r *RedisSlot) Save(ctx context.Context, token string) error {
	if err := r.redis.Set(ctx, r.key, token, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	return nil
}

// Clear deletes the key. Deleting a missing key is not an error.
func (r *RedisSlot) Clear(ctx context.Context) error {
	if err := r.redis.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (r *RedisSlot) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	return time.Since(start), nil
}
