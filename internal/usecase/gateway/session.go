package gateway

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/techish-thoughts/blogsearch/internal/domain/search/filter"
	"github.com/techish-thoughts/blogsearch/internal/domain/search/result"
	"github.com/techish-thoughts/blogsearch/internal/metrics"
)

// Searcher runs article queries.
type Searcher interface {
	SearchArticles(
		ctx context.Context, query string, filters filter.Filters, page, limit int,
	) (result.Page, error)
}

// Sink receives what a live search should display.
// Implementations must be safe for concurrent use.
type Sink interface {
	Results(query string, page result.Page)
	Clear()
}

// LiveSession drives one search-as-you-type client: input goes through a
// Gateway, results for superseded queries are dropped and failures show up
// as an empty result set.
type LiveSession struct {
	gw     *Gateway
	search Searcher
	sink   Sink
	ctx    context.Context
	limit  int
	logger *zap.Logger

	mu      sync.Mutex
	filters filter.Filters

	// deliver serializes the staleness check with what reaches the sink,
	// so a clear can never be followed by results it superseded.
	deliver sync.Mutex
}

// NewLiveSession starts a session. ctx bounds every search it issues;
// limit is the page size sent to the searcher (0 uses its default).
func NewLiveSession(
	ctx context.Context, search Searcher, sink Sink, cfg Config, limit int, logger *zap.Logger,
) *LiveSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LiveSession{search: search, sink: sink, ctx: ctx, limit: limit, logger: logger}
	s.gw = New(cfg, s.run, s.clear)
	return s
}

// Update feeds a new query and the filters to apply to it.
func (s *LiveSession) Update(query string, filters filter.Filters) {
	s.mu.Lock()
	s.filters = filters
	s.mu.Unlock()
	s.gw.Update(query)
}

// Close stops pending dispatches.
func (s *LiveSession) Close() { s.gw.Close() }

func (s *LiveSession) run(d Dispatch) {
	s.mu.Lock()
	f := s.filters
	s.mu.Unlock()

	page, err := s.search.SearchArticles(s.ctx, d.Query, f, 1, s.limit)
	if err != nil {
		s.logger.Warn("live search failed", zap.String("query", d.Query), zap.Error(err))
		page = result.Page{Results: []result.Result{}}
	}

	s.deliver.Lock()
	defer s.deliver.Unlock()
	if !s.gw.IsCurrent(d) {
		metrics.GatewayDiscardedTotal.Inc()
		s.logger.Debug("stale live search result dropped",
			zap.String("query", d.Query), zap.Uint64("generation", d.Generation))
		return
	}
	s.sink.Results(d.Query, page)
}

func (s *LiveSession) clear() {
	s.deliver.Lock()
	defer s.deliver.Unlock()
	s.sink.Clear()
}
