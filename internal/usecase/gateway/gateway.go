// Package gateway debounces search-as-you-type input so that only the
// latest query reaches the query processor.
package gateway

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/techish-thoughts/blogsearch/internal/metrics"
)

// Defaults for Config fields left at zero.
const (
	DefaultQuiet     = 300 * time.Millisecond
	DefaultMinLength = 3
)

// Config tunes the gateway.
type Config struct {
	// Quiet is how long input must stay unchanged before a dispatch.
	Quiet time.Duration
	// MinLength is the minimum trimmed query length in runes. Shorter
	// queries are never dispatched; they clear the results instead.
	MinLength int
}

// Dispatch is one query released to the processor.
type Dispatch struct {
	Query      string
	Generation uint64
}

// Gateway coalesces query updates. A new update cancels the pending
// dispatch and restarts the quiet timer. Dispatches already running are
// never interrupted; callers check IsCurrent before applying their result.
type Gateway struct {
	cfg      Config
	dispatch func(Dispatch)
	clear    func()

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	closed bool
}

// New creates a gateway. dispatch runs on its own goroutine once the input
// settles; clear runs synchronously inside Update for too-short input.
func New(cfg Config, dispatch func(Dispatch), clear func()) *Gateway {
	if cfg.Quiet <= 0 {
		cfg.Quiet = DefaultQuiet
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultMinLength
	}
	if clear == nil {
		clear = func() {}
	}
	return &Gateway{cfg: cfg, dispatch: dispatch, clear: clear}
}

// Update records a new input value.
func (g *Gateway) Update(query string) {
	q := strings.TrimSpace(query)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.gen++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	if utf8.RuneCountInString(q) < g.cfg.MinLength {
		g.mu.Unlock()
		g.clear()
		return
	}
	gen := g.gen
	g.timer = time.AfterFunc(g.cfg.Quiet, func() { g.fire(gen, q) })
	g.mu.Unlock()
}

func (g *Gateway) fire(gen uint64, q string) {
	g.mu.Lock()
	// A timer that already fired cannot be stopped; drop it if superseded.
	if g.closed || gen != g.gen {
		g.mu.Unlock()
		return
	}
	g.timer = nil
	g.mu.Unlock()

	metrics.GatewayDispatchesTotal.Inc()
	g.dispatch(Dispatch{Query: q, Generation: gen})
}

// IsCurrent reports whether no update arrived since d was released. Every
// Update starts a new generation, even one repeating the same text, because
// callers may change what the query runs against between updates.
func (g *Gateway) IsCurrent(d Dispatch) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.closed && d.Generation == g.gen
}

// Close cancels any pending dispatch. Later updates are ignored.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
