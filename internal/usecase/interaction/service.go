// Package interaction applies likes, shares, comments and bookmarks
// optimistically per viewer and rolls them back when the remote recorder
// rejects them.
package interaction

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/techish-thoughts/blogsearch/internal/domain"
	dominter "github.com/techish-thoughts/blogsearch/internal/domain/interaction"
	"github.com/techish-thoughts/blogsearch/internal/logger"
	"github.com/techish-thoughts/blogsearch/internal/metrics"
)

// Platforms accepted by Share.
var Platforms = []string{"twitter", "facebook", "linkedin", "reddit", "email", "copy"}

// Service keeps one interaction state per viewer in front of the shared
// recorder.
type Service struct {
	viewers  *dominter.Viewers
	recorder Recorder
	posts    Posts
	now      func() time.Time
	newID    func() string
}

// New creates a Service. viewers and posts must not be nil.
func New(viewers *dominter.Viewers, recorder Recorder, posts Posts) *Service {
	return &Service{
		viewers:  viewers,
		recorder: recorder,
		posts:    posts,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Get returns the post as viewerID sees it, counters refreshed from the
// recorder.
func (s *Service) Get(ctx context.Context, viewerID, postID string) (dominter.PostInteraction, error) {
	st, err := s.target(viewerID, postID)
	if err != nil {
		return dominter.PostInteraction{}, err
	}
	c, err := s.recorder.Counts(ctx, postID)
	if err != nil {
		return dominter.PostInteraction{}, fmt.Errorf("get interactions: %w", err)
	}
	return st.Sync(postID, c), nil
}

// ToggleLike likes or unlikes a post. The local state changes first; if the
// recorder fails the change is undone and the error wraps ErrRemoteEffect.
func (s *Service) ToggleLike(ctx context.Context, viewerID, postID string) (dominter.PostInteraction, error) {
	st, err := s.target(viewerID, postID)
	if err != nil {
		return dominter.PostInteraction{}, err
	}
	act, _ := st.Begin(postID, dominter.ToggleLike)
	return s.commit(ctx, st, act, func(ctx context.Context) (int64, error) {
		return s.recorder.Record(ctx, postID, act.Counter, act.Delta)
	})
}

// Share counts one share of a post on platform.
func (s *Service) Share(ctx context.Context, viewerID, postID, platform string) (dominter.PostInteraction, error) {
	st, err := s.target(viewerID, postID)
	if err != nil {
		return dominter.PostInteraction{}, err
	}
	if !slices.Contains(Platforms, platform) {
		return dominter.PostInteraction{}, fmt.Errorf("%w: unknown platform %q", domain.ErrInvalidArgument, platform)
	}
	act, _ := st.Begin(postID, dominter.Share)
	return s.commit(ctx, st, act, func(ctx context.Context) (int64, error) {
		return s.recorder.Record(ctx, postID, act.Counter, act.Delta)
	})
}

// AddComment stores a comment and counts it. An empty author is stored as
// dominter.AnonymousAuthor.
func (s *Service) AddComment(
	ctx context.Context, viewerID, postID, author, content string,
) (dominter.Comment, dominter.PostInteraction, error) {
	st, err := s.target(viewerID, postID)
	if err != nil {
		return dominter.Comment{}, dominter.PostInteraction{}, err
	}
	author, content, ok := dominter.NormalizeComment(author, content)
	if !ok {
		return dominter.Comment{}, dominter.PostInteraction{}, fmt.Errorf(
			"%w: comment must be 1-%d characters, author at most %d",
			domain.ErrInvalidArgument, dominter.MaxCommentLength, dominter.MaxAuthorLength)
	}

	c := dominter.Comment{
		ID:        s.newID(),
		PostID:    postID,
		Author:    author,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	act, _ := st.Begin(postID, dominter.AddComment)
	p, err := s.commit(ctx, st, act, func(ctx context.Context) (int64, error) {
		return s.recorder.AddComment(ctx, c)
	})
	if err != nil {
		return dominter.Comment{}, p, err
	}
	return c, p, nil
}

// Comments lists a post's comments oldest first.
func (s *Service) Comments(ctx context.Context, postID string) ([]dominter.Comment, error) {
	if err := s.checkPost(postID); err != nil {
		return nil, err
	}
	cs, err := s.recorder.Comments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return cs, nil
}

// ToggleBookmark flips viewerID's bookmark on a post. Bookmarks stay with
// the viewer and never reach the recorder.
func (s *Service) ToggleBookmark(_ context.Context, viewerID, postID string) (dominter.PostInteraction, error) {
	st, err := s.target(viewerID, postID)
	if err != nil {
		return dominter.PostInteraction{}, err
	}
	_, p := st.Begin(postID, dominter.ToggleBookmark)
	metrics.InteractionsTotal.WithLabelValues("bookmark", "ok").Inc()
	return p, nil
}

// Bookmarks lists the posts viewerID bookmarked, ordered by id.
func (s *Service) Bookmarks(viewerID string) ([]string, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("%w: empty viewer id", domain.ErrInvalidArgument)
	}
	out := []string{}
	for _, p := range s.viewers.State(viewerID).All() {
		if p.IsBookmarked {
			out = append(out, p.PostID)
		}
	}
	return out, nil
}

// Stats summarizes every recorded post.
func (s *Service) Stats(ctx context.Context) (dominter.Stats, error) {
	posts, err := s.recorder.All(ctx)
	if err != nil {
		return dominter.Stats{}, fmt.Errorf("interaction stats: %w", err)
	}
	return dominter.Summarize(posts, dominter.DefaultPopularLimit), nil
}

func (s *Service) target(viewerID, postID string) (*dominter.State, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("%w: empty viewer id", domain.ErrInvalidArgument)
	}
	if err := s.checkPost(postID); err != nil {
		return nil, err
	}
	return s.viewers.State(viewerID), nil
}

func (s *Service) checkPost(postID string) error {
	if postID == "" {
		return fmt.Errorf("%w: empty post id", domain.ErrInvalidArgument)
	}
	ok, err := s.posts.HasArticle(postID)
	if err != nil {
		return fmt.Errorf("look up post %s: %w", postID, err)
	}
	if !ok {
		return fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
	}
	return nil
}

// commit runs the remote side of act. On success the local counter takes
// the value the recorder reported; on failure act is reverted.
func (s *Service) commit(
	ctx context.Context,
	st *dominter.State,
	act dominter.Action,
	remote func(context.Context) (int64, error),
) (dominter.PostInteraction, error) {
	n, err := remote(ctx)
	if err != nil {
		reverted := st.Revert(act)
		metrics.InteractionsTotal.WithLabelValues(act.Name, "reverted").Inc()
		logger.FromContext(ctx).Warn("interaction reverted",
			zap.String("action", act.Name),
			zap.String("post_id", act.PostID),
			zap.Error(err),
		)
		return reverted, fmt.Errorf("%s %s: %w: %w", act.Name, act.PostID, domain.ErrRemoteEffect, err)
	}
	metrics.InteractionsTotal.WithLabelValues(act.Name, "ok").Inc()
	return st.Settle(act.PostID, act.Counter, n), nil
}
