// Package feedcache keeps the last good content snapshot in the KV store so
// the service can start with content when the feed is unreachable.
package feedcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/techish-thoughts/blogsearch/internal/db"
	"github.com/techish-thoughts/blogsearch/internal/domain"
	"github.com/techish-thoughts/blogsearch/internal/domain/content"
)

// SnapshotKey is where the snapshot lives.
const SnapshotKey = domain.KeyPrefix + "feed:snapshot"

// store is the consumer interface for the snapshot cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Repo implements feed.SnapshotCache.
type Repo struct {
	store store
	ttl   time.Duration
	now   func() time.Time
}

// New creates a snapshot cache. ttl <= 0 keeps the snapshot until overwritten.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl, now: time.Now}
}

// Save overwrites the snapshot.
func (r *Repo) Save(ctx context.Context, set content.Set) error {
	data, err := json.Marshal(toRow(set, r.now().UTC()))
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.store.SetWithTTL(ctx, SnapshotKey, data, r.ttl); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the cached snapshot; ok is false when none is stored.
func (r *Repo) Load(ctx context.Context) (content.Set, bool, error) {
	data, err := r.store.Get(ctx, SnapshotKey)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return content.Set{}, false, nil
		}
		return content.Set{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	var row snapshotRow
	if err := json.Unmarshal(data, &row); err != nil {
		return content.Set{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return fromRow(row), true, nil
}
