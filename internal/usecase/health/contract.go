package health

import (
	"context"

	"github.com/techish-thoughts/blogsearch/internal/usecase/index"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexStats reports whether the search indices are built.
type IndexStats interface {
	Stats() index.Stats
}
