// Package cachestore persists console state such as the dashboard snapshot
// and the session token. Writes overwrite; the last writer wins.
package cachestore

import (
	"context"
	"errors"
)

var ErrMiss = errors.New("cache miss")

type Store interface {
	GetJSON(ctx context.Context, key string, target any) error
	SetJSON(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Close() error
}
