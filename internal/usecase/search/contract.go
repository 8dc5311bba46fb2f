package search

import "github.com/techish-thoughts/blogsearch/internal/usecase/index"

// IndexReader exposes the current search indices.
type IndexReader interface {
	Snapshot() index.Snapshot
}
