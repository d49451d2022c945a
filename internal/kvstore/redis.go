package kvstore

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

const defaultRedisNamespace = "slideloop:state"

// RedisBackend stores items as fields of one redis hash.
type RedisBackend struct {
	rdb *goredis.Client
	key string
}

// OpenRedis connects to redisURL and verifies the connection with a ping.
// Items live in the hash named namespace.
func OpenRedis(ctx context.Context, redisURL, namespace string) (*RedisBackend, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if namespace == "" {
		namespace = defaultRedisNamespace
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisBackend{rdb: rdb, key: namespace}, nil
}

func (r *RedisBackend) Name() string { return "redis" }

func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.rdb.HGet(ctx, r.key, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("hget %q: %w", key, err)
	}
	return value, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.HSet(ctx, r.key, key, value).Err(); err != nil {
		return fmt.Errorf("hset %q: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := r.rdb.HDel(ctx, r.key, key).Err(); err != nil {
		return fmt.Errorf("hdel %q: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("del %q: %w", r.key, err)
	}
	return nil
}

func (r *RedisBackend) Close() error {
	return r.rdb.Close()
}
