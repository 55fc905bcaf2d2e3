package cache

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis with native key expiry.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache connects to the Redis server at addr ("host:port" or a
// redis:// URL) and checks the connection with PING.
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewRedisCacheFromClient(client), nil
}

// NewRedisCacheFromClient wraps an existing client. Keys are stored under
// the "geodome:" namespace.
func NewRedisCacheFromClient(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client, prefix: "geodome:"}
}

// Get implements [Cache].
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, c.prefix+key).Bytes()
		return classify(err)
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set implements [Cache].
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		return classify(c.client.Set(ctx, c.prefix+key, data, ttl).Err())
	})
}

// Delete implements [Cache].
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

// Close closes the client.
func (c *RedisCache) Close() error { return c.client.Close() }

// classify marks connection failures as retryable.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Retryable(err)
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
