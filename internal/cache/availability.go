package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// AvailabilityCache caches rendered room availability payloads.
type AvailabilityCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration)
	Invalidate(ctx context.Context, key string)
}

// SlotsKey builds the cache key for a room's slots on a given day.
func SlotsKey(roomID int, day string) string {
	return fmt.Sprintf("rooms:%d:slots:%s", roomID, day)
}

// NewAvailabilityCache connects to redis, or returns a noop cache when the
// address is empty or the server is unreachable.
func NewAvailabilityCache(addr string) AvailabilityCache {
	if addr == "" {
		log.Printf("redis disabled, using noop cache: empty redis addr")
		return noopCache{}
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis disabled, using noop cache: %v", err)
		_ = client.Close()
		return noopCache{}
	}

	log.Printf("redis connected addr=%s", addr)
	return &redisCache{client: client}
}

type redisCache struct {
	client *redis.Client
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("redis get failed key=%s: %v", key, err)
		}
		return nil, false
	}
	return payload, true
}

func (c *redisCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Printf("redis set failed key=%s: %v", key, err)
	}
}

func (c *redisCache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Printf("redis del failed key=%s: %v", key, err)
	}
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (noopCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {}

func (noopCache) Invalidate(ctx context.Context, key string) {}
