// Package memory is an in-process db.Store used when no Redis address is
// configured and in tests.
package memory

import (
	"context"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/techish-thoughts/blogsearch/internal/db"
)

type entry struct {
	value   []byte
	expires time.Time // zero means no expiry
}

// Store keeps strings, hashes and lists in maps guarded by one mutex.
type Store struct {
	mu     sync.Mutex
	kv     map[string]entry
	hashes map[string]map[string]string
	lists  map[string][][]byte
	now    func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		kv:     make(map[string]entry),
		hashes: make(map[string]map[string]string),
		lists:  make(map[string][][]byte),
		now:    time.Now,
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout)
}

// Get returns a copy of the stored value.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.kv[key]
	if !ok || s.expired(e) {
		delete(s.kv, key)
		return nil, db.ErrKeyNotFound
	}
	return slices.Clone(e.value), nil
}

// Set stores value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores value; a ttl under one second means no expiry, as in the Redis driver.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: slices.Clone(value)}
	if ttl >= time.Second {
		e.expires = s.now().Add(ttl)
	}
	s.kv[key] = e
	delete(s.hashes, key)
	delete(s.lists, key)
	return nil
}

// Del removes key of any type.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.kv, key)
	delete(s.hashes, key)
	delete(s.lists, key)
	return nil
}

// HIncrBy adds delta to an integer hash field.
func (s *Store) HIncrBy(_ context.Context, key, field string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string)
		s.hashes[key] = h
	}
	var cur int64
	if raw, ok := h[field]; ok {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, &db.Error{Op: db.OpHIncrBy, Err: err}
		}
		cur = n
	}
	cur += delta
	h[field] = strconv.FormatInt(cur, 10)
	return cur, nil
}

// HSet writes one hash field.
func (s *Store) HSet(_ context.Context, key, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string)
		s.hashes[key] = h
	}
	h[field] = value
	return nil
}

// HGetAll returns a copy of the hash; a missing key yields an empty map.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyHash(key), nil
}

// HGetAllMulti returns one map per key, in order.
func (s *Store) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = s.copyHash(k)
	}
	return out, nil
}

// Scan returns keys of either type matching a glob pattern, sorted.
func (s *Store) Scan(_ context.Context, pattern string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Redis globs let * cross '/', path.Match does not; post ids carry slashes.
	glob := strings.ReplaceAll(pattern, "/", "\x00")
	var keys []string
	match := func(k string) error {
		ok, err := path.Match(glob, strings.ReplaceAll(k, "/", "\x00"))
		if err != nil {
			return &db.Error{Op: db.OpScan, Err: err}
		}
		if ok {
			keys = append(keys, k)
		}
		return nil
	}
	for k, e := range s.kv {
		if s.expired(e) {
			continue
		}
		if err := match(k); err != nil {
			return nil, err
		}
	}
	for k := range s.hashes {
		if err := match(k); err != nil {
			return nil, err
		}
	}
	for k := range s.lists {
		if err := match(k); err != nil {
			return nil, err
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// RPush appends a copy of value and returns the new length.
func (s *Store) RPush(_ context.Context, key string, value []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists[key] = append(s.lists[key], slices.Clone(value))
	return int64(len(s.lists[key])), nil
}

// LRange returns copies of elements start..stop inclusive with Redis index rules.
func (s *Store) LRange(_ context.Context, key string, start, stop int64) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.lists[key]
	n := int64(len(l))
	if start < 0 {
		start = max(n+start, 0)
	}
	if stop < 0 {
		stop = n + stop
	}
	stop = min(stop, n-1)

	out := [][]byte{}
	for i := start; i <= stop; i++ {
		out = append(out, slices.Clone(l[i]))
	}
	return out, nil
}

func (s *Store) copyHash(key string) map[string]string {
	out := make(map[string]string, len(s.hashes[key]))
	for f, v := range s.hashes[key] {
		out[f] = v
	}
	return out
}

func (s *Store) expired(e entry) bool {
	return !e.expires.IsZero() && !s.now().Before(e.expires)
}

var _ db.Store = (*Store)(nil)
