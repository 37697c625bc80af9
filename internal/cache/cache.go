// Package cache is a thin read-through cache over Redis for single
// entity lookups. A nil client disables caching, which is how the unit
// tests run.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const entityTTL = time.Hour

type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get unmarshals the cached value into dest and reports whether there
// was a usable hit. Cache errors are treated as misses.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

// Set stores the value best-effort; a failed write never fails the
// request.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.SetEX(ctx, key, raw, entityTTL)
}

func (c *Cache) Del(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, keys...)
}
