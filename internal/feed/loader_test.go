package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/techish-thoughts/blogsearch/internal/domain"
	"github.com/techish-thoughts/blogsearch/internal/domain/content"
)

// --- Mocks ---

type stubSource struct {
	records []Record
	err     error
}

func (s *stubSource) Fetch(_ context.Context) ([]Record, error) { return s.records, s.err }

type mockCache struct {
	saved   *content.Set
	stored  content.Set
	has     bool
	loadErr error
	saveErr error
}

func (m *mockCache) Save(_ context.Context, set content.Set) error {
	m.saved = &set
	return m.saveErr
}

func (m *mockCache) Load(_ context.Context) (content.Set, bool, error) {
	return m.stored, m.has, m.loadErr
}

// --- Tests ---

func TestLoader_FromSource(t *testing.T) {
	cache := &mockCache{}
	src := &stubSource{records: []Record{
		{Title: "Ok", Date: "2024-01-01", URL: "/ok/"},
		{Title: "", Date: "2024-01-01", URL: "/bad/"},
	}}

	res := NewLoader(src, cache, nil).Load(context.Background())
	if res.Origin != OriginSource {
		t.Errorf("origin = %s", res.Origin)
	}
	if len(res.Set.Articles) != 1 || res.Rejected != 1 {
		t.Errorf("articles = %d, rejected = %d", len(res.Set.Articles), res.Rejected)
	}
	if cache.saved == nil || len(cache.saved.Articles) != 1 {
		t.Error("snapshot not saved")
	}
}

func TestLoader_SaveErrorIgnored(t *testing.T) {
	cache := &mockCache{saveErr: errors.New("redis down")}
	src := &stubSource{records: []Record{{Title: "Ok", Date: "2024-01-01", URL: "/ok/"}}}

	if res := NewLoader(src, cache, nil).Load(context.Background()); res.Origin != OriginSource {
		t.Errorf("origin = %s", res.Origin)
	}
}

func TestLoader_FallsBackToCache(t *testing.T) {
	cached := content.Set{Articles: []content.Article{{ID: "cached"}}}
	cache := &mockCache{stored: cached, has: true}
	src := &stubSource{err: domain.ErrTransport}

	res := NewLoader(src, cache, nil).Load(context.Background())
	if res.Origin != OriginCache {
		t.Fatalf("origin = %s", res.Origin)
	}
	if len(res.Set.Articles) != 1 || res.Set.Articles[0].ID != "cached" {
		t.Errorf("set = %+v", res.Set)
	}
	if cache.saved != nil {
		t.Error("fallback must not overwrite the snapshot")
	}
}

func TestLoader_EmptyWhenNothingCached(t *testing.T) {
	tests := []struct {
		name  string
		cache SnapshotCache
	}{
		{"no cache", nil},
		{"cache miss", &mockCache{}},
		{"cache error", &mockCache{loadErr: errors.New("timeout")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewLoader(&stubSource{err: domain.ErrTransport}, tt.cache, nil).Load(context.Background())
			if res.Origin != OriginEmpty {
				t.Errorf("origin = %s", res.Origin)
			}
			if len(res.Set.Articles) != 0 {
				t.Errorf("expected empty set, got %d articles", len(res.Set.Articles))
			}
		})
	}
}
