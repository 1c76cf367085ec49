package cachestore

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/petnest/petnest/internal/repo/redis"
)

const redisPrefix = "petnest:console:"

// RedisStore shares console state between consoles.
type RedisStore struct {
	client *goredis.Client
	cache  *redrepo.CacheRepo
}

func NewRedis(client *goredis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		cache:  redrepo.NewCacheRepo(client, redisPrefix),
	}
}

// OpenRedis connects and pings before returning the store.
func OpenRedis(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redrepo.NewClient(addr, password, db)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedis(client), nil
}

func (s *RedisStore) GetJSON(ctx context.Context, key string, target any) error {
	err := s.cache.GetJSON(ctx, key, target)
	if errors.Is(err, redrepo.ErrCacheMiss) {
		return ErrMiss
	}
	return err
}

func (s *RedisStore) SetJSON(ctx context.Context, key string, value any) error {
	return s.cache.SetJSON(ctx, key, value, 0)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, key)
}

func (s *RedisStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
