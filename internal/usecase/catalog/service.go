// Package catalog keeps the search indices in step with the content feed.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/techish-thoughts/blogsearch/internal/domain"
	"github.com/techish-thoughts/blogsearch/internal/domain/content"
	"github.com/techish-thoughts/blogsearch/internal/feed"
	"github.com/techish-thoughts/blogsearch/internal/usecase/index"
)

// DefaultPopularTags is how many tags PopularTags returns when asked for 0.
const DefaultPopularTags = 10

// Outcome describes one load.
type Outcome struct {
	Origin   feed.Origin
	Rejected int
	Stats    index.Stats
}

// Service loads content into the indexer and remembers the tag list for
// popularity queries.
type Service struct {
	loader  Loader
	indexer Indexer
	logger  *zap.Logger

	mu   sync.RWMutex
	tags []content.Tag
}

// New creates a catalog service.
func New(loader Loader, indexer Indexer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{loader: loader, indexer: indexer, logger: logger}
}

// Reload fetches the feed and rebuilds the indices. The first call builds;
// later calls refresh. When the feed and the snapshot cache both fail, a
// built index is kept as is and the error wraps domain.ErrTransport.
func (s *Service) Reload(ctx context.Context) (Outcome, error) {
	res := s.loader.Load(ctx)
	set := complete(res.Set)

	if !s.indexer.Stats().Ready {
		s.indexer.Build(set.Articles, set.Authors, set.Tags)
		s.setTags(set.Tags)
		return s.outcome(res), nil
	}

	if res.Origin == feed.OriginEmpty {
		s.logger.Warn("keeping current index, no content available")
		return s.outcome(res), fmt.Errorf("reload: %w", domain.ErrTransport)
	}
	// A successful load replaces every collection, empty ones included.
	if err := s.indexer.Refresh(set.Articles, set.Authors, set.Tags); err != nil {
		return Outcome{}, fmt.Errorf("reload: %w", err)
	}
	s.setTags(set.Tags)
	return s.outcome(res), nil
}

// PopularTags returns up to limit tags ordered by article count.
func (s *Service) PopularTags(limit int) []content.Tag {
	if limit <= 0 {
		limit = DefaultPopularTags
	}
	s.mu.RLock()
	tags := content.PopularTags(s.tags)
	s.mu.RUnlock()
	return tags[:min(limit, len(tags))]
}

// complete swaps nil collections for empty ones. Refresh keeps an index
// whose collection is nil, which would leave removed content searchable.
func complete(set content.Set) content.Set {
	if set.Articles == nil {
		set.Articles = []content.Article{}
	}
	if set.Authors == nil {
		set.Authors = []content.Author{}
	}
	if set.Tags == nil {
		set.Tags = []content.Tag{}
	}
	return set
}

func (s *Service) setTags(tags []content.Tag) {
	s.mu.Lock()
	s.tags = tags
	s.mu.Unlock()
}

func (s *Service) outcome(res feed.Result) Outcome {
	out := Outcome{Origin: res.Origin, Rejected: res.Rejected, Stats: s.indexer.Stats()}
	s.logger.Info("catalog reloaded",
		zap.String("origin", string(out.Origin)),
		zap.Int("rejected", out.Rejected),
		zap.Int("articles", out.Stats.ArticlesIndexed),
	)
	return out
}
