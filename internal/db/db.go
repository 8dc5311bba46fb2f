// Package db defines the key-value storage contract shared by the Redis
// and in-memory drivers.
package db

import (
	"context"
	"fmt"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces they need.
type Store interface {
	Pinger
	KVStore
	HashStore
	ListStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// HashStore provides hash-based counter operations.
type HashStore interface {
	// HIncrBy adds delta to a hash field and returns the new value.
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key, field, value string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	// Scan returns every key matching a glob pattern.
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// ListStore provides append-only lists.
type ListStore interface {
	// RPush appends value and returns the new list length.
	RPush(ctx context.Context, key string, value []byte) (int64, error)
	// LRange returns elements start..stop inclusive; negative indices count
	// from the end, as in Redis.
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
}

// WaitForReady polls p until it answers or timeout expires.
func WaitForReady(ctx context.Context, p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if p.Ping(ctx) == nil {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := p.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
