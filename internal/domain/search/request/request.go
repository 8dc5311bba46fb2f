package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/techish-thoughts/blogsearch/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length in runes.
	MaxQueryLength = 512
	DefaultLimit   = 10
	MaxLimit       = 100
)

// Request is a validated article search.
type Request struct {
	query   string
	filters filter.Filters
	page    int
	limit   int
}

// New validates and normalizes article search parameters.
// An empty query is valid and lists every published article.
// limit <= 0 falls back to defaultLimit (or DefaultLimit when that is 0) and
// is clamped to maxLimit. page is kept as given: pages outside the result
// range produce an empty slice, not an error.
func New(query string, filters filter.Filters, page, limit, defaultLimit, maxLimit int) (Request, error) {
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if err := filters.Validate(); err != nil {
		return Request{}, err
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return Request{
		query:   query,
		filters: filters.Normalized(),
		page:    page,
		limit:   limit,
	}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// IsListing reports whether the query is blank, meaning "all articles".
func (r *Request) IsListing() bool { return strings.TrimSpace(r.query) == "" }

// Filters returns the normalized filters.
func (r *Request) Filters() filter.Filters { return r.filters }

// Page returns the 1-indexed page number.
func (r *Request) Page() int { return r.page }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }
