package blogsearch

import (
	"errors"

	"github.com/techish-thoughts/blogsearch/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotReady        = domain.ErrNotInitialized
	ErrInvalidArgument = domain.ErrInvalidArgument
	ErrFeedUnavailable = domain.ErrTransport
)

// ErrNoFeed is returned by Load when the engine was built without a feed.
var ErrNoFeed = errors.New("blogsearch: no content feed configured")
