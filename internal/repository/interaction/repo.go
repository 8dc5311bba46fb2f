// Package interaction persists per-post interaction counters as hashes and
// comments as lists.
package interaction

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/techish-thoughts/blogsearch/internal/domain"
	dominter "github.com/techish-thoughts/blogsearch/internal/domain/interaction"
)

var (
	keyPrefix        = domain.KeyPrefix + "post:"
	commentKeyPrefix = domain.KeyPrefix + "comments:"
)

// store is the consumer interface for interaction counters and comments (ISP).
type store interface {
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key, field, value string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	RPush(ctx context.Context, key string, value []byte) (int64, error)
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
}

// Repo implements usecase/interaction.Recorder.
type Repo struct {
	store store
}

// New creates an interaction repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Record adds delta to one counter and returns the new value.
func (r *Repo) Record(ctx context.Context, postID string, c dominter.Counter, delta int64) (int64, error) {
	n, err := r.store.HIncrBy(ctx, postKey(postID), string(c), delta)
	if err != nil {
		return 0, fmt.Errorf("record %s for %s: %w", c, postID, err)
	}
	return n, nil
}

// Counts returns the counters of one post; an unknown post has zero counts.
func (r *Repo) Counts(ctx context.Context, postID string) (dominter.Counts, error) {
	m, err := r.store.HGetAll(ctx, postKey(postID))
	if err != nil {
		return dominter.Counts{}, fmt.Errorf("get counts for %s: %w", postID, err)
	}
	return countsFromHash(m)
}

// All returns the counters of every post that has any.
func (r *Repo) All(ctx context.Context) ([]dominter.PostInteraction, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	if len(keys) == 0 {
		return []dominter.PostInteraction{}, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get counts: %w", err)
	}

	out := make([]dominter.PostInteraction, 0, len(keys))
	for i, m := range hashes {
		if len(m) == 0 {
			continue // deleted between SCAN and HGETALL
		}
		c, err := countsFromHash(m)
		if err != nil {
			return nil, err
		}
		out = append(out, dominter.PostInteraction{
			PostID:   strings.TrimPrefix(keys[i], keyPrefix),
			Likes:    c.Likes,
			Shares:   c.Shares,
			Comments: c.Comments,
		})
	}
	return out, nil
}

// AddComment appends c to the post's comment list and sets the comment
// counter to the list length, which it returns. A counter write that fails
// is repaired by the next comment.
func (r *Repo) AddComment(ctx context.Context, c dominter.Comment) (int64, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return 0, fmt.Errorf("encode comment: %w", err)
	}
	n, err := r.store.RPush(ctx, commentKey(c.PostID), data)
	if err != nil {
		return 0, fmt.Errorf("store comment for %s: %w", c.PostID, err)
	}
	field := string(dominter.CounterComments)
	if err := r.store.HSet(ctx, postKey(c.PostID), field, strconv.FormatInt(n, 10)); err != nil {
		return 0, fmt.Errorf("count comments for %s: %w", c.PostID, err)
	}
	return n, nil
}

// Comments returns a post's comments oldest first.
func (r *Repo) Comments(ctx context.Context, postID string) ([]dominter.Comment, error) {
	raw, err := r.store.LRange(ctx, commentKey(postID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list comments for %s: %w", postID, err)
	}
	out := make([]dominter.Comment, 0, len(raw))
	for i, data := range raw {
		var c dominter.Comment
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decode comment %d for %s: %w", i, postID, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func postKey(postID string) string { return keyPrefix + postID }

func commentKey(postID string) string { return commentKeyPrefix + postID }

func countsFromHash(m map[string]string) (dominter.Counts, error) {
	var c dominter.Counts
	for field, dst := range map[dominter.Counter]*int64{
		dominter.CounterLikes:    &c.Likes,
		dominter.CounterShares:   &c.Shares,
		dominter.CounterComments: &c.Comments,
	} {
		raw, ok := m[string(field)]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return dominter.Counts{}, fmt.Errorf("invalid %s counter %q: %w", field, raw, err)
		}
		*dst = n
	}
	return c, nil
}
