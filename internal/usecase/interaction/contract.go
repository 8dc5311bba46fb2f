package interaction

import (
	"context"

	dominter "github.com/techish-thoughts/blogsearch/internal/domain/interaction"
)

// Recorder persists the shared counters and comments behind an interaction.
type Recorder interface {
	Record(ctx context.Context, postID string, c dominter.Counter, delta int64) (int64, error)
	Counts(ctx context.Context, postID string) (dominter.Counts, error)
	All(ctx context.Context) ([]dominter.PostInteraction, error)
	// AddComment stores c and returns the post's new comment count.
	AddComment(ctx context.Context, c dominter.Comment) (int64, error)
	Comments(ctx context.Context, postID string) ([]dominter.Comment, error)
}

// Posts tells which post ids exist.
type Posts interface {
	HasArticle(id string) (bool, error)
}
