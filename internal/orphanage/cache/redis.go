package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/happymap/happymap/backend/go-services/internal/orphanage"
)

const listKey = "orphanages:list"

// ListCache keeps the rendered GET /orphanages payload in Redis under a
// single key with a short TTL. A create invalidates it so new listings show
// up on the next read.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ListCache{client: client, ttl: ttl}
}

// Get returns the cached listing, or (nil, nil) on a miss.
func (c *ListCache) Get(ctx context.Context) ([]orphanage.ListView, error) {
	b, err := c.client.Get(ctx, listKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var views []orphanage.ListView
	if err := json.Unmarshal(b, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *ListCache) Set(ctx context.Context, views []orphanage.ListView) error {
	b, err := json.Marshal(views)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listKey, b, c.ttl).Err()
}

func (c *ListCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, listKey).Err()
}
