package redis

import (
	"context"

	"github.com/techish-thoughts/blogsearch/internal/db"
)

// RPush appends value to a list and returns its new length.
func (s *Store) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	cmd := s.b().Rpush().Key(key).Element(string(value)).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpRPush, Err: err}
	}
	return n, nil
}

// LRange returns a slice of a list. A missing key yields no elements.
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	cmd := s.b().Lrange().Key(key).Start(start).Stop(stop).Build()
	vals, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out, nil
}
