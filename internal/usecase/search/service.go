// Package search runs article, author and tag queries against the current indices.
package search

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/techish-thoughts/blogsearch/internal/domain"
	"github.com/techish-thoughts/blogsearch/internal/domain/content"
	"github.com/techish-thoughts/blogsearch/internal/domain/search/filter"
	"github.com/techish-thoughts/blogsearch/internal/domain/search/request"
	"github.com/techish-thoughts/blogsearch/internal/domain/search/result"
	"github.com/techish-thoughts/blogsearch/internal/logger"
	"github.com/techish-thoughts/blogsearch/internal/metrics"
)

// Defaults applied when Config leaves a field at zero.
const (
	DefaultSuggestionLimit = 5
	DefaultExcerptLength   = 200
)

// Config tunes paging and highlighting.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	SuggestionLimit int
	ExcerptLength   int
	// Language drives title collation. Defaults to English.
	Language language.Tag
}

// Service answers search queries. It holds no index state of its own.
type Service struct {
	idx IndexReader
	cfg Config
}

// New creates a search service over idx.
func New(idx IndexReader, cfg Config) *Service {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = request.DefaultLimit
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = request.MaxLimit
	}
	if cfg.SuggestionLimit <= 0 {
		cfg.SuggestionLimit = DefaultSuggestionLimit
	}
	if cfg.ExcerptLength <= 0 {
		cfg.ExcerptLength = DefaultExcerptLength
	}
	if cfg.Language == language.Und {
		cfg.Language = language.English
	}
	return &Service{idx: idx, cfg: cfg}
}

type hit struct {
	ref int
	res result.Result
}

// SearchArticles fuzzy-matches query against published articles, then
// filters, sorts and paginates. A blank query lists every article with
// score result.NoMatchScore. page is 1-indexed; pages outside the result
// range come back empty.
func (s *Service) SearchArticles(
	ctx context.Context, query string, filters filter.Filters, page, limit int,
) (p result.Page, err error) {
	defer s.observe(ctx, metrics.KindArticles, time.Now(), &err)

	articles := s.idx.Snapshot().Articles
	if articles == nil {
		return result.Page{}, domain.ErrNotInitialized
	}

	req, err := request.New(query, filters, page, limit, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	if err != nil {
		return result.Page{}, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}

	var hits []hit
	if req.IsListing() {
		docs := articles.Docs()
		hits = make([]hit, 0, len(docs))
		for i := range docs {
			hits = append(hits, hit{ref: i, res: result.FromArticle(&docs[i], result.NoMatchScore)})
		}
	} else {
		found := articles.Search(strings.TrimSpace(req.Query()))
		hits = make([]hit, 0, len(found))
		for i := range found {
			r := result.FromArticle(&found[i].Item, found[i].Score)
			r.HighlightedContent = highlight(found[i].Matches, s.cfg.ExcerptLength)
			hits = append(hits, hit{ref: found[i].RefIndex, res: r})
		}
		// Ties in the requested order keep collection order.
		slices.SortFunc(hits, func(a, b hit) int { return a.ref - b.ref })
	}

	f := req.Filters()
	if !f.IsEmpty() {
		hits = slices.DeleteFunc(hits, func(h hit) bool {
			return !f.Matches(h.res.Tags, h.res.Author, h.res.Categories, h.res.PublishedDate)
		})
	}
	s.sort(hits, f)

	return paginate(hits, req.Page(), req.Limit()), nil
}

func (s *Service) sort(hits []hit, f filter.Filters) {
	var cmpFn func(a, b hit) int
	switch f.SortBy {
	case filter.SortDate:
		cmpFn = func(a, b hit) int { return a.res.PublishedDate.Compare(b.res.PublishedDate) }
	case filter.SortTitle:
		col := collate.New(s.cfg.Language, collate.IgnoreCase)
		cmpFn = func(a, b hit) int { return col.CompareString(a.res.Title, b.res.Title) }
	default:
		// Relevance ranks by 1-score so that descending means best first.
		cmpFn = func(a, b hit) int { return cmp.Compare(1-a.res.Score, 1-b.res.Score) }
	}
	if f.SortOrder == filter.OrderDesc {
		asc := cmpFn
		cmpFn = func(a, b hit) int { return -asc(a, b) }
	}
	slices.SortStableFunc(hits, cmpFn)
}

func paginate(hits []hit, page, limit int) result.Page {
	total := len(hits)
	p := result.Page{
		Results:      []result.Result{},
		TotalResults: total,
		TotalPages:   (total + limit - 1) / limit,
		CurrentPage:  page,
	}
	if page < 1 {
		return p
	}
	start := (page - 1) * limit
	if start >= total {
		return p
	}
	end := min(start+limit, total)
	p.Results = make([]result.Result, 0, end-start)
	for _, h := range hits[start:end] {
		p.Results = append(p.Results, h.res)
	}
	return p
}

// SearchAuthors returns authors matching query, best first.
// A blank query returns an empty list.
func (s *Service) SearchAuthors(ctx context.Context, query string) (out []content.Author, err error) {
	defer s.observe(ctx, metrics.KindAuthors, time.Now(), &err)

	authors := s.idx.Snapshot().Authors
	if authors == nil {
		return nil, domain.ErrNotInitialized
	}
	out = []content.Author{}
	for _, r := range authors.Search(strings.TrimSpace(query)) {
		out = append(out, r.Item)
	}
	return out, nil
}

// SearchTags returns tags matching query, best first.
// A blank query returns an empty list.
func (s *Service) SearchTags(ctx context.Context, query string) (out []content.Tag, err error) {
	defer s.observe(ctx, metrics.KindTags, time.Now(), &err)

	tags := s.idx.Snapshot().Tags
	if tags == nil {
		return nil, domain.ErrNotInitialized
	}
	out = []content.Tag{}
	for _, r := range tags.Search(strings.TrimSpace(query)) {
		out = append(out, r.Item)
	}
	return out, nil
}

// Suggestions returns up to limit article titles, author names and tag
// names for query. limit <= 0 uses the configured default. A blank query
// yields three empty lists even when the indices are not built.
func (s *Service) Suggestions(ctx context.Context, query string, limit int) (out result.Suggestions, err error) {
	out = result.Suggestions{Articles: []string{}, Authors: []string{}, Tags: []string{}}
	if strings.TrimSpace(query) == "" {
		return out, nil
	}
	defer s.observe(ctx, metrics.KindSuggestions, time.Now(), &err)

	if limit <= 0 {
		limit = s.cfg.SuggestionLimit
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.SearchArticles(gctx, query, filter.Filters{}, 1, limit)
		if err != nil {
			return err
		}
		for _, r := range page.Results {
			out.Articles = append(out.Articles, r.Title)
		}
		return nil
	})
	g.Go(func() error {
		authors, err := s.SearchAuthors(gctx, query)
		if err != nil {
			return err
		}
		for _, a := range authors[:min(limit, len(authors))] {
			out.Authors = append(out.Authors, a.Name)
		}
		return nil
	})
	g.Go(func() error {
		tags, err := s.SearchTags(gctx, query)
		if err != nil {
			return err
		}
		for _, t := range tags[:min(limit, len(tags))] {
			out.Tags = append(out.Tags, t.Name)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return result.Suggestions{}, fmt.Errorf("suggestions: %w", err)
	}
	return out, nil
}

func (s *Service) observe(ctx context.Context, kind string, start time.Time, errp *error) {
	status := "ok"
	if *errp != nil {
		status = "error"
		logger.FromContext(ctx).Debug("search failed", zap.String("kind", kind), zap.Error(*errp))
	}
	metrics.SearchRequestsTotal.WithLabelValues(kind, status).Inc()
	metrics.SearchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
