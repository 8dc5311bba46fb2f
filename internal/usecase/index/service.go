// Package index owns the three in-memory search indices and their lifecycle.
package index

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/techish-thoughts/blogsearch/internal/domain"
	"github.com/techish-thoughts/blogsearch/internal/domain/content"
	"github.com/techish-thoughts/blogsearch/internal/fuzzy"
	"github.com/techish-thoughts/blogsearch/internal/metrics"
)

// Stats reports the size of each index.
type Stats struct {
	ArticlesIndexed int
	AuthorsIndexed  int
	TagsIndexed     int
	Ready           bool
}

// Snapshot is a consistent view of the indices at one point in time.
// A nil field means that index has not been built.
type Snapshot struct {
	Articles *fuzzy.Index[content.Article]
	Authors  *fuzzy.Index[content.Author]
	Tags     *fuzzy.Index[content.Tag]
}

// Ready reports whether all three indices exist.
func (s Snapshot) Ready() bool {
	return s.Articles != nil && s.Authors != nil && s.Tags != nil
}

// Indexer builds and swaps the article, author and tag indices.
// Indices are immutable once built; Build and Refresh replace them wholesale.
type Indexer struct {
	mu     sync.RWMutex
	snap   Snapshot
	logger *zap.Logger
}

// New creates an empty Indexer.
func New(logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{logger: logger}
}

// Build indexes all three collections, replacing any previous indices.
// Draft articles are excluded.
func (ix *Indexer) Build(articles []content.Article, authors []content.Author, tags []content.Tag) {
	snap := Snapshot{
		Articles: newArticleIndex(articles),
		Authors:  newAuthorIndex(authors),
		Tags:     newTagIndex(tags),
	}

	ix.mu.Lock()
	ix.snap = snap
	ix.mu.Unlock()

	ix.observe("build", snap)
}

// Refresh replaces the collections that are non-nil and keeps the others.
// It fails with ErrNotInitialized when Build has not run (or Clear ran since).
func (ix *Indexer) Refresh(articles []content.Article, authors []content.Author, tags []content.Tag) error {
	ix.mu.Lock()
	snap := ix.snap
	if !snap.Ready() {
		ix.mu.Unlock()
		return domain.ErrNotInitialized
	}
	if articles != nil {
		snap.Articles = snap.Articles.WithCollection(content.Published(articles))
	}
	if authors != nil {
		snap.Authors = snap.Authors.WithCollection(authors)
	}
	if tags != nil {
		snap.Tags = snap.Tags.WithCollection(tags)
	}
	ix.snap = snap
	ix.mu.Unlock()

	ix.observe("refresh", snap)
	return nil
}

// Clear drops every index. Later queries fail with ErrNotInitialized.
func (ix *Indexer) Clear() {
	ix.mu.Lock()
	ix.snap = Snapshot{}
	ix.mu.Unlock()

	ix.observe("clear", Snapshot{})
}

// Snapshot returns the current indices.
func (ix *Indexer) Snapshot() Snapshot {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.snap
}

// HasArticle reports whether a published article with id is indexed.
func (ix *Indexer) HasArticle(id string) (bool, error) {
	snap := ix.Snapshot()
	if !snap.Ready() {
		return false, domain.ErrNotInitialized
	}
	return slices.ContainsFunc(snap.Articles.Docs(), func(a content.Article) bool { return a.ID == id }), nil
}

// Stats reports index sizes. Missing indices count as 0.
func (ix *Indexer) Stats() Stats {
	return statsOf(ix.Snapshot())
}

func statsOf(s Snapshot) Stats {
	st := Stats{Ready: s.Ready()}
	if s.Articles != nil {
		st.ArticlesIndexed = s.Articles.Len()
	}
	if s.Authors != nil {
		st.AuthorsIndexed = s.Authors.Len()
	}
	if s.Tags != nil {
		st.TagsIndexed = s.Tags.Len()
	}
	return st
}

func (ix *Indexer) observe(op string, s Snapshot) {
	st := statsOf(s)
	metrics.IndexDocuments.WithLabelValues("articles").Set(float64(st.ArticlesIndexed))
	metrics.IndexDocuments.WithLabelValues("authors").Set(float64(st.AuthorsIndexed))
	metrics.IndexDocuments.WithLabelValues("tags").Set(float64(st.TagsIndexed))

	ix.logger.Info("search index "+op,
		zap.Int("articles", st.ArticlesIndexed),
		zap.Int("authors", st.AuthorsIndexed),
		zap.Int("tags", st.TagsIndexed),
	)
}
