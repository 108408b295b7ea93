package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RosterCache adapts the redis client to the directory's cache surface.
type RosterCache struct {
	client *redis.Client
}

// NewRosterCache wraps the shared redis connection.
func NewRosterCache(r *Redis) *RosterCache {
	if r == nil || r.Client == nil {
		return nil
	}
	return &RosterCache{client: r.Client}
}

// Get returns the cached value, or (nil, nil) on a miss.
func (c *RosterCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set stores the value with a TTL.
func (c *RosterCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}
