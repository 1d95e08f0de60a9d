package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache errors
var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrCacheMiss         = errors.New("cache miss")
)

// Dashboard responses change on every submission, so the TTL stays short.
const (
	DashboardTTL = 2 * time.Minute
)

// DashboardCache stores rendered dashboard responses in Redis. A nil client
// degrades to a no-op so the service runs without Redis.
type DashboardCache struct {
	client *redis.Client
	prefix string
}

func NewDashboardCache(client *redis.Client) *DashboardCache {
	return &DashboardCache{
		client: client,
		prefix: "dashboard:",
	}
}

func (c *DashboardCache) key(key string) string {
	return c.prefix + key
}

// LabKey builds the cache key for a lab dashboard.
func LabKey(labID uint) string {
	return fmt.Sprintf("lab:%d", labID)
}

// ProjectsKey is the cache key for the global project dashboard.
const ProjectsKey = "projects:global"

// Get loads a cached value into dest.
func (c *DashboardCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrCacheNotAvailable
	}

	data, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}

	return nil
}

// Set stores a value with the given TTL. Without a client this is a no-op.
func (c *DashboardCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

// Invalidate removes the given keys.
func (c *DashboardCache) Invalidate(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}

	cacheKeys := make([]string, len(keys))
	for i, key := range keys {
		cacheKeys[i] = c.key(key)
	}

	return c.client.Del(ctx, cacheKeys...).Err()
}

// InvalidateLab drops the lab dashboard and the global project dashboard,
// which both change when a lab's projects or stars change.
func (c *DashboardCache) InvalidateLab(ctx context.Context, labID uint) error {
	return c.Invalidate(ctx, LabKey(labID), ProjectsKey)
}
