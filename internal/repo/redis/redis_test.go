package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestRateRepoWindowExpires(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := NewRateRepo(client)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		count, ttl, err := repo.IncrementWindow(ctx, "rate:test", time.Minute)
		if err != nil {
			t.Fatalf("increment #%d: %v", i, err)
		}
		if count != i {
			t.Fatalf("unexpected count: got %d want %d", count, i)
		}
		if ttl <= 0 || ttl > time.Minute {
			t.Fatalf("unexpected ttl: %s", ttl)
		}
	}

	mr.FastForward(61 * time.Second)

	count, _, err := repo.WindowState(ctx, "rate:test")
	if err != nil {
		t.Fatalf("window state: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected expired window, got %d", count)
	}
}

func TestCacheRepoRoundTripAndOverwrite(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := NewCacheRepo(client, "petnest:")
	ctx := context.Background()

	type entry struct {
		Value int `json:"value"`
	}

	var got entry
	if err := repo.GetJSON(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}

	if err := repo.SetJSON(ctx, "k", entry{Value: 1}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.SetJSON(ctx, "k", entry{Value: 2}, 0); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := repo.GetJSON(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Value != 2 {
		t.Fatalf("expected last write to win, got %d", got.Value)
	}
	if !mr.Exists("petnest:k") {
		t.Fatalf("expected prefixed key in redis")
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
