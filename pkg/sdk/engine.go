package blogsearch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/techish-thoughts/blogsearch/internal/domain/content"
	"github.com/techish-thoughts/blogsearch/internal/domain/search/querystring"
	"github.com/techish-thoughts/blogsearch/internal/feed"
	"github.com/techish-thoughts/blogsearch/internal/usecase/catalog"
	"github.com/techish-thoughts/blogsearch/internal/usecase/gateway"
	"github.com/techish-thoughts/blogsearch/internal/usecase/index"
	searchuc "github.com/techish-thoughts/blogsearch/internal/usecase/search"
)

// Engine is an in-process blog search index. It is safe for concurrent use.
type Engine struct {
	indexer *index.Indexer
	search  *searchuc.Service
	feed    catalog.Loader // nil without a feed option
	live    gateway.Config
	obs     *observer

	mu  sync.RWMutex
	cat *catalog.Service
}

// staticLoader serves content handed to Index.
type staticLoader struct {
	set content.Set
}

func (l staticLoader) Load(context.Context) feed.Result {
	return feed.Result{Set: l.set, Origin: feed.OriginSource}
}

// New creates an Engine. It does not load content; call Load or Index.
func New(opts ...Option) (*Engine, error) {
	cfg := &engineConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.feedURL != "" && cfg.feedPath != "" {
		return nil, fmt.Errorf("%w: WithFeedURL and WithFeedFile are mutually exclusive", ErrInvalidArgument)
	}

	lang := language.English
	if cfg.language != "" {
		tag, err := language.Parse(cfg.language)
		if err != nil {
			return nil, fmt.Errorf("%w: language %q: %w", ErrInvalidArgument, cfg.language, err)
		}
		lang = tag
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	// Internal services log through zap; engine-level events go to slog.
	nop := zap.NewNop()
	idx := index.New(nop)

	e := &Engine{
		indexer: idx,
		search: searchuc.New(idx, searchuc.Config{
			DefaultPageSize: cfg.defaultPageSize,
			MaxPageSize:     cfg.maxPageSize,
			SuggestionLimit: cfg.suggestionLimit,
			ExcerptLength:   cfg.excerptLength,
			Language:        lang,
		}),
		live: gateway.Config{Quiet: cfg.debounce, MinLength: cfg.minQueryLength},
		obs:  obs,
	}

	switch {
	case cfg.feedURL != "":
		e.feed = feed.NewLoader(feed.NewHTTPSource(cfg.feedURL, cfg.httpClient), nil, nop)
	case cfg.feedPath != "":
		e.feed = feed.NewLoader(feed.NewFileSource(cfg.feedPath), nil, nop)
	}
	return e, nil
}

// Load fetches the configured feed and (re)builds the indices. When the
// feed fails after a successful load, the previous content keeps serving
// and the error wraps ErrFeedUnavailable.
func (e *Engine) Load(ctx context.Context) (st Stats, err error) {
	defer func(c *call) { c.end(err) }(e.obs.begin(opLoad))

	if e.feed == nil {
		return Stats{}, ErrNoFeed
	}
	return e.reload(ctx, e.feed)
}

// Index replaces the indexed content with the given collections.
func (e *Engine) Index(ctx context.Context, articles []Article, authors []Author, tags []Tag) (st Stats, err error) {
	defer func(c *call) { c.end(err) }(e.obs.begin(opIndex))

	return e.reload(ctx, staticLoader{set: toContent(articles, authors, tags)})
}

func (e *Engine) reload(ctx context.Context, l catalog.Loader) (Stats, error) {
	cat := catalog.New(l, e.indexer, zap.NewNop())
	out, err := cat.Reload(ctx)
	if err != nil {
		return statsFromDomain(e.indexer.Stats()), fmt.Errorf("reload: %w", err)
	}
	e.mu.Lock()
	e.cat = cat
	e.mu.Unlock()
	st := statsFromDomain(out.Stats)
	e.obs.indexed(st)
	return st, nil
}

// Clear drops every index. Searches fail with ErrNotReady until the next
// Load or Index.
func (e *Engine) Clear() {
	e.indexer.Clear()
	e.mu.Lock()
	e.cat = nil
	e.mu.Unlock()
	e.obs.indexed(e.Stats())
}

// Stats reports index sizes and readiness.
func (e *Engine) Stats() Stats {
	return statsFromDomain(e.indexer.Stats())
}

// Search fuzzy-matches query against published articles, then filters,
// sorts and paginates. page is 1-indexed; limit 0 uses the default size.
func (e *Engine) Search(ctx context.Context, query string, f Filters, page, limit int) (p Page, err error) {
	defer func(c *call) { c.found(p.Total).end(err) }(e.obs.begin(opSearch))

	res, err := e.search.SearchArticles(ctx, query, f.toDomain(), page, limit)
	if err != nil {
		return Page{}, fmt.Errorf("search articles: %w", err)
	}
	return pageFromDomain(res), nil
}

// Authors returns authors matching query, best first.
func (e *Engine) Authors(ctx context.Context, query string) (out []Author, err error) {
	defer func(c *call) { c.found(len(out)).end(err) }(e.obs.begin(opAuthors))

	res, err := e.search.SearchAuthors(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search authors: %w", err)
	}
	return authorsFromDomain(res), nil
}

// Tags returns tags matching query, best first.
func (e *Engine) Tags(ctx context.Context, query string) (out []Tag, err error) {
	defer func(c *call) { c.found(len(out)).end(err) }(e.obs.begin(opTags))

	res, err := e.search.SearchTags(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search tags: %w", err)
	}
	return tagsFromDomain(res), nil
}

// Suggest returns up to limit display strings per entity type.
func (e *Engine) Suggest(ctx context.Context, query string, limit int) (s Suggestions, err error) {
	defer func(c *call) { c.found(len(s.Articles) + len(s.Authors) + len(s.Tags)).end(err) }(e.obs.begin(opSuggest))

	res, err := e.search.Suggestions(ctx, query, limit)
	if err != nil {
		return Suggestions{}, err //nolint:wrapcheck // already wrapped by the search service
	}
	return Suggestions{Articles: res.Articles, Authors: res.Authors, Tags: res.Tags}, nil
}

// PopularTags returns up to limit tags by article count, most used first.
func (e *Engine) PopularTags(limit int) []Tag {
	e.mu.RLock()
	cat := e.cat
	e.mu.RUnlock()
	if cat == nil {
		return []Tag{}
	}
	return tagsFromDomain(cat.PopularTags(limit))
}

// EncodeQuery serializes a query and its filters as a URL query string.
func EncodeQuery(query string, f Filters) string {
	return querystring.Encode(query, f.toDomain())
}

// ParseQuery decodes a query string produced by EncodeQuery. Unknown sort
// values fall back to relevance, best first.
func ParseQuery(raw string) (string, Filters) {
	q, f := querystring.Parse(raw)
	return q, filtersFromDomain(f)
}

// IsNotReady reports whether err means no content has been indexed yet.
func IsNotReady(err error) bool {
	return errors.Is(err, ErrNotReady)
}
