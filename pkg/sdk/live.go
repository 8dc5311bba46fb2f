package blogsearch

import (
	"context"

	"github.com/techish-thoughts/blogsearch/internal/domain/search/result"
	"github.com/techish-thoughts/blogsearch/internal/usecase/gateway"
)

// LiveSearch debounces keystroke-level input. Only the newest query's
// results are delivered; results of superseded queries are dropped.
type LiveSearch struct {
	session *gateway.LiveSession
}

type callbackSink struct {
	onResults func(query string, p Page)
	onClear   func()
}

func (s callbackSink) Results(query string, p result.Page) { s.onResults(query, pageFromDomain(p)) }

func (s callbackSink) Clear() { s.onClear() }

// Live starts a search-as-you-type session. onResults receives each page
// (empty on failure); onClear runs when input drops below the minimum
// length. Callbacks run on timer goroutines. ctx bounds every search.
func (e *Engine) Live(ctx context.Context, onResults func(query string, p Page), onClear func()) *LiveSearch {
	if onResults == nil {
		onResults = func(string, Page) {}
	}
	if onClear == nil {
		onClear = func() {}
	}
	sink := callbackSink{onResults: onResults, onClear: onClear}
	return &LiveSearch{session: gateway.NewLiveSession(ctx, e.search, sink, e.live, 0, nil)}
}

// Update feeds the current input and filters.
func (l *LiveSearch) Update(query string, f Filters) {
	l.session.Update(query, f.toDomain())
}

// Close cancels pending searches. A search already running may still deliver.
func (l *LiveSearch) Close() {
	l.session.Close()
}
