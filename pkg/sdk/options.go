package blogsearch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Engine.
type Option interface {
	apply(*engineConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*engineConfig)

func (f optionFunc) apply(c *engineConfig) { f(c) }

type engineConfig struct {
	feedURL    string
	feedPath   string
	httpClient *http.Client

	defaultPageSize int
	maxPageSize     int
	suggestionLimit int
	excerptLength   int
	language        string

	debounce       time.Duration
	minQueryLength int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithFeedURL loads content from a JSON feed served over HTTP.
func WithFeedURL(url string) Option {
	return optionFunc(func(c *engineConfig) {
		c.feedURL = url
	})
}

// WithFeedFile loads content from a local JSON feed. A .gz or .zst suffix
// selects decompression.
func WithFeedFile(path string) Option {
	return optionFunc(func(c *engineConfig) {
		c.feedPath = path
	})
}

// WithHTTPClient sets the client used by WithFeedURL. Default: 30s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *engineConfig) {
		c.httpClient = hc
	})
}

// WithPageSizes sets the default and maximum article page sizes.
// Defaults: 10 and 100.
func WithPageSizes(defaultSize, maxSize int) Option {
	return optionFunc(func(c *engineConfig) {
		c.defaultPageSize = defaultSize
		c.maxPageSize = maxSize
	})
}

// WithSuggestionLimit sets how many suggestions per entity Suggest returns
// when called with limit 0. Default: 5.
func WithSuggestionLimit(n int) Option {
	return optionFunc(func(c *engineConfig) {
		c.suggestionLimit = n
	})
}

// WithExcerptLength sets the highlighted excerpt length in runes. Default: 200.
func WithExcerptLength(n int) Option {
	return optionFunc(func(c *engineConfig) {
		c.excerptLength = n
	})
}

// WithLanguage sets the BCP 47 tag used to collate titles. Default: "en".
func WithLanguage(tag string) Option {
	return optionFunc(func(c *engineConfig) {
		c.language = tag
	})
}

// WithDebounce sets how long live input must stay unchanged before a search
// runs. Default: 300ms.
func WithDebounce(d time.Duration) Option {
	return optionFunc(func(c *engineConfig) {
		c.debounce = d
	})
}

// WithMinQueryLength sets the shortest live query that is searched.
// Shorter input clears the results. Default: 3.
func WithMinQueryLength(n int) Option {
	return optionFunc(func(c *engineConfig) {
		c.minQueryLength = n
	})
}

// WithLogger enables structured logging for engine operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *engineConfig) {
		c.logger = l
	})
}

// WithPrometheus registers engine metrics (call counts, latency, match
// counts and indexed document gauges) on the given registerer. Engines may
// share a registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *engineConfig) {
		c.metricsReg = reg
	})
}
