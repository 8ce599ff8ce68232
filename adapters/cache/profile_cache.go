package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/honors-hub/internal/domain/profile"
)

// RedisProfileCache keeps profiles as JSON under profile:<id>.
type RedisProfileCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisProfileCache{client: client, prefix: "profile:", ttl: ttl}
}

func (c *RedisProfileCache) key(id string) string {
	return c.prefix + id
}

func (c *RedisProfileCache) Get(ctx context.Context, id string) (*profile.Profile, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cached profile: %w", err)
	}

	var p profile.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal cached profile: %w", err)
	}
	return &p, nil
}

func (c *RedisProfileCache) Set(ctx context.Context, p *profile.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := c.client.Set(ctx, c.key(p.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache profile: %w", err)
	}
	return nil
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("invalidate cached profile: %w", err)
	}
	return nil
}
