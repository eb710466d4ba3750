// Package redis backs the notification dedup cache. SETNX with a TTL gives
// the mark-and-check in one round trip, shared across instances.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type DedupCache struct {
	client *redis.Client
}

func NewDedupCache(addr, password string, db int) (*DedupCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &DedupCache{client: client}, nil
}

// Seen marks the key and reports whether it was already marked. The first
// caller gets false and owns the event.
func (c *DedupCache) Seen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, "dedup:"+key, 1, ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (c *DedupCache) Close() error {
	return c.client.Close()
}
