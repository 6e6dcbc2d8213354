package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCorrupted is returned when a stored value cannot be decompressed.
var ErrCorrupted = errors.New("cache value corrupted")

// Cache stores binary values in Redis, zstd-compressed.
type Cache struct {
	client *redis.Client
	codec  *codec
}

func NewCache(client *redis.Client) (*Cache, error) {
	cd, err := newCodec()
	if err != nil {
		return nil, err
	}
	return &Cache{client: client, codec: cd}, nil
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	c, err := NewCache(client)
	if err != nil {
		client.Close()
		return nil, err
	}
	return c, nil
}

// Get returns the value under key. A missing key is reported as ok=false
// with a nil error.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	data, err := c.codec.decode(raw)
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return data, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, c.codec.encode(value), ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	c.codec.close()
	return c.client.Close()
}
