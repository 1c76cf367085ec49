package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

type CacheRepo struct {
	client *goredis.Client
	prefix string
}

func NewCacheRepo(client *goredis.Client, prefix string) *CacheRepo {
	return &CacheRepo{client: client, prefix: prefix}
}

func (r *CacheRepo) GetJSON(ctx context.Context, key string, target any) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("get cache key: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode cache value: %w", err)
	}
	return nil
}

// SetJSON overwrites the value. ttl <= 0 keeps it until overwritten.
func (r *CacheRepo) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set cache key: %w", err)
	}
	return nil
}

func (r *CacheRepo) Delete(ctx context.Context, key string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete cache key: %w", err)
	}
	return nil
}
