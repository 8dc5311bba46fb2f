package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/techish-thoughts/blogsearch/internal/db"
)

func TestGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	value := []byte("hello")
	if err := s.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'j' // stored copy must not change

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("Get = %q, want hello", got)
	}
}

func TestSetWithTTL_Expires(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if err := s.SetWithTTL(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	now = now.Add(time.Minute)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestSetWithTTL_SubSecondNeverExpires(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	_ = s.SetWithTTL(ctx, "k", []byte("v"), 500*time.Millisecond)
	now = now.Add(time.Hour)
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestDel(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_ = s.Set(ctx, "k", []byte("v"))
	_, _ = s.HIncrBy(ctx, "h", "f", 1)

	_ = s.Del(ctx, "k")
	_ = s.Del(ctx, "h")

	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("k still present: %v", err)
	}
	if h, _ := s.HGetAll(ctx, "h"); len(h) != 0 {
		t.Errorf("h still present: %v", h)
	}
}

func TestHIncrBy(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tests := []struct {
		delta int64
		want  int64
	}{
		{1, 1},
		{1, 2},
		{-3, -1},
	}
	for _, tt := range tests {
		got, err := s.HIncrBy(ctx, "post:1", "likes", tt.delta)
		if err != nil {
			t.Fatalf("HIncrBy: %v", err)
		}
		if got != tt.want {
			t.Errorf("HIncrBy(%d) = %d, want %d", tt.delta, got, tt.want)
		}
	}

	h, _ := s.HGetAll(ctx, "post:1")
	if h["likes"] != "-1" {
		t.Errorf("likes = %q, want -1", h["likes"])
	}
}

func TestHGetAllMulti(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, _ = s.HIncrBy(ctx, "a", "likes", 2)
	_, _ = s.HIncrBy(ctx, "b", "shares", 5)

	got, err := s.HGetAllMulti(ctx, []string{"a", "missing", "b"})
	if err != nil {
		t.Fatalf("HGetAllMulti: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0]["likes"] != "2" || len(got[1]) != 0 || got[2]["shares"] != "5" {
		t.Errorf("unexpected results: %v", got)
	}

	if got, _ := s.HGetAllMulti(ctx, nil); got != nil {
		t.Errorf("expected nil for no keys, got %v", got)
	}
}

func TestScan(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_ = s.Set(ctx, "blogsearch:feed:snapshot", []byte("{}"))
	_, _ = s.HIncrBy(ctx, "blogsearch:post:b", "likes", 1)
	_, _ = s.HIncrBy(ctx, "blogsearch:post:a", "likes", 1)
	_, _ = s.HIncrBy(ctx, "blogsearch:post:posts/react-18", "likes", 1)
	_, _ = s.HIncrBy(ctx, "other:post:c", "likes", 1)

	keys, err := s.Scan(ctx, "blogsearch:post:*")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{"blogsearch:post:a", "blogsearch:post:b", "blogsearch:post:posts/react-18"}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] || keys[2] != want[2] {
		t.Errorf("Scan = %v, want %v", keys, want)
	}

	if _, err := s.Scan(ctx, "["); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestLists(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for i, v := range []string{"a", "b", "c"} {
		n, err := s.RPush(ctx, "l", []byte(v))
		if err != nil || n != int64(i+1) {
			t.Fatalf("RPush(%s) = %d, %v", v, n, err)
		}
	}
	if err := s.HSet(ctx, "h", "f", "1"); err != nil {
		t.Fatalf("HSet: %v", err)
	}

	tests := []struct {
		start, stop int64
		want        string
	}{
		{0, -1, "abc"},
		{1, 1, "b"},
		{-2, -1, "bc"},
		{2, 10, "c"},
		{5, 10, ""},
	}
	for _, tt := range tests {
		got, err := s.LRange(ctx, "l", tt.start, tt.stop)
		if err != nil {
			t.Fatalf("LRange: %v", err)
		}
		var joined string
		for _, v := range got {
			joined += string(v)
		}
		if joined != tt.want {
			t.Errorf("LRange(%d, %d) = %q, want %q", tt.start, tt.stop, joined, tt.want)
		}
	}

	if got, _ := s.LRange(ctx, "missing", 0, -1); got == nil || len(got) != 0 {
		t.Errorf("missing list = %#v, want empty", got)
	}
	if keys, _ := s.Scan(ctx, "*"); len(keys) != 2 {
		t.Errorf("Scan = %v, want hash and list", keys)
	}
	if err := s.Del(ctx, "l"); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.LRange(ctx, "l", 0, -1); len(got) != 0 {
		t.Errorf("list survived Del: %q", got)
	}
}

func TestConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.HIncrBy(ctx, "k", "n", 1)
		}()
	}
	wg.Wait()

	h, _ := s.HGetAll(ctx, "k")
	if h["n"] != "50" {
		t.Errorf("n = %q, want 50", h["n"])
	}
}
