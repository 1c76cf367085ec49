package rate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// Limiter is a fixed-window limiter keyed by scope and subject, e.g.
// ("ad_request", client IP).
type Limiter struct {
	store  WindowStore
	limit  int
	window time.Duration
}

func NewLimiter(store WindowStore, limit int, window time.Duration) *Limiter {
	if limit < 0 {
		limit = 0
	}
	if window <= 0 {
		window = 10 * time.Minute
	}

	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

// Allow records one hit. A zero limit disables limiting.
func (l *Limiter) Allow(ctx context.Context, scope, subject string) (int64, bool, error) {
	if l == nil || l.limit == 0 {
		return 0, true, nil
	}
	if strings.TrimSpace(scope) == "" || strings.TrimSpace(subject) == "" {
		return 0, false, fmt.Errorf("invalid rate subject")
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}

	count, ttl, err := l.store.IncrementWindow(ctx, windowKey(scope, subject), l.window)
	if err != nil {
		return 0, false, err
	}
	if count > int64(l.limit) {
		return ceilSeconds(ttl), false, nil
	}
	return 0, true, nil
}

func (l *Limiter) RetryAfter(ctx context.Context, scope, subject string) (int64, error) {
	if l == nil || l.limit == 0 {
		return 0, nil
	}
	if l.store == nil {
		return 0, fmt.Errorf("rate limiter store is nil")
	}

	count, ttl, err := l.store.WindowState(ctx, windowKey(scope, subject))
	if err != nil {
		return 0, err
	}
	if count >= int64(l.limit) {
		return ceilSeconds(ttl), nil
	}
	return 0, nil
}

func windowKey(scope, subject string) string {
	return "rate:" + scope + ":" + strings.ToLower(strings.TrimSpace(subject))
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 1
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	return sec
}
