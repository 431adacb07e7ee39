package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "pokedex:papi:"

// RedisCache is an optional shared layer so several instances can reuse each other's responses.
type RedisCache struct {
	client  redis.UniversalClient
	ttl     time.Duration
	timeout time.Duration
}

func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, timeout: 3 * time.Second}
}

// DialRedis connects and pings, failing fast when the server is unreachable.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	slog.Info("redis connected", slog.String("addr", addr), slog.Int("db", db))
	return client, nil
}

func (c *RedisCache) Set(endpoint string, value any) error {
	slog.Debug("writing to redis cache", slog.String("endpoint", endpoint))
	bytes, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	return c.client.Set(ctx, redisKeyPrefix+endpoint, bytes, c.ttl).Err()
}

func (c *RedisCache) Get(endpoint string, value any) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	bytes, err := c.client.Get(ctx, redisKeyPrefix+endpoint).Bytes()
	if errors.Is(err, redis.Nil) {
		slog.Debug("not found in redis cache", slog.String("endpoint", endpoint))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	slog.Debug("found in redis cache", slog.String("endpoint", endpoint))
	return true, json.Unmarshal(bytes, value)
}
