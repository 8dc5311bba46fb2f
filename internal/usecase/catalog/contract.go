package catalog

import (
	"context"

	"github.com/techish-thoughts/blogsearch/internal/domain/content"
	"github.com/techish-thoughts/blogsearch/internal/feed"
	"github.com/techish-thoughts/blogsearch/internal/usecase/index"
)

// Loader fetches validated content.
type Loader interface {
	Load(ctx context.Context) feed.Result
}

// Indexer owns the search indices.
type Indexer interface {
	Build(articles []content.Article, authors []content.Author, tags []content.Tag)
	Refresh(articles []content.Article, authors []content.Author, tags []content.Tag) error
	Stats() index.Stats
}
