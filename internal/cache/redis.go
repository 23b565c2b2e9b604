package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements shared caching over a Redis instance, for runs that
// span several machines or survive process restarts.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache(addr string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get retrieves a value from Redis
func (c *RedisCache) Get(key string) ([]byte, bool) {
	val, err := c.client.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores a value in Redis with the given TTL
func (c *RedisCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	return c.client.Set(context.Background(), key, value, ttl).Err()
}

// Delete removes a value from Redis
func (c *RedisCache) Delete(key string) error {
	err := c.client.Del(context.Background(), key).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// Clear removes all keys in the configured namespace
func (c *RedisCache) Clear() error {
	ctx := context.Background()
	iter := c.client.Scan(ctx, 0, "concordia:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close releases the client connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
