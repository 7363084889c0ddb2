package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps computed per-form analytics payloads in redis with a fixed
// TTL. It is optional: handlers recompute on a miss, and a nil *Cache is a
// valid always-miss cache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{client: client, ttl: ttl}
}

func summaryKey(formID int64) string      { return fmt.Sprintf("form:%d:analytics:summary", formID) }
func distributionKey(formID int64) string { return fmt.Sprintf("form:%d:analytics:distribution", formID) }

func (c *Cache) GetSummary(ctx context.Context, formID int64) (*Summary, error) {
	var s Summary
	ok, err := c.get(ctx, summaryKey(formID), &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (c *Cache) SetSummary(ctx context.Context, formID int64, s Summary) error {
	return c.set(ctx, summaryKey(formID), s)
}

func (c *Cache) GetDistribution(ctx context.Context, formID int64) (*Distribution, error) {
	var d Distribution
	ok, err := c.get(ctx, distributionKey(formID), &d)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

func (c *Cache) SetDistribution(ctx context.Context, formID int64, d Distribution) error {
	return c.set(ctx, distributionKey(formID), d)
}

// Invalidate drops the cached views of one form, called after a new
// submission is finalized.
func (c *Cache) Invalidate(ctx context.Context, formID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, summaryKey(formID), distributionKey(formID)).Err()
}

func (c *Cache) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) set(ctx context.Context, key string, v interface{}) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
