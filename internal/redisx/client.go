package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// OrderCache stores order lookup bodies.
type OrderCache struct {
	RDB *redis.Client
	TTL time.Duration
}

// Get returns the cached body, or ok=false on a miss.
func (c *OrderCache) Get(ctx context.Context, orderID string) (body []byte, ok bool, err error) {
	b, err := c.RDB.Get(ctx, fmt.Sprintf(KeyOrderInfo, orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *OrderCache) Set(ctx context.Context, orderID string, body []byte) error {
	ttl := c.TTL
	if ttl <= 0 {
		ttl = TTLOrderInfo
	}
	return c.RDB.Set(ctx, fmt.Sprintf(KeyOrderInfo, orderID), body, ttl).Err()
}

// Dedup marks event ids as processed for a service.
type Dedup struct {
	RDB     *redis.Client
	Service string
}

// First reports whether id is seen for the first time.
func (d *Dedup) First(ctx context.Context, id string) (bool, error) {
	return d.RDB.SetNX(ctx, fmt.Sprintf(KeyDedup, d.Service, id), "1", TTLDedup).Result()
}
