// Package interaction models likes, shares, comments and bookmarks on posts.
package interaction

import (
	"cmp"
	"slices"
	"sync"
)

// Counter names a persisted per-post counter.
type Counter string

// Persisted counters.
const (
	CounterLikes    Counter = "likes"
	CounterShares   Counter = "shares"
	CounterComments Counter = "comments"
)

// PostInteraction is what one viewer sees for a post.
type PostInteraction struct {
	PostID       string `json:"postId"`
	Likes        int64  `json:"likes"`
	Shares       int64  `json:"shares"`
	Comments     int64  `json:"comments"`
	IsLiked      bool   `json:"isLiked"`
	IsBookmarked bool   `json:"isBookmarked"`
}

// Counts are the shared counters of a post.
type Counts struct {
	Likes    int64
	Shares   int64
	Comments int64
}

// Action is a reversible state transition. Inverse undoes exactly what
// Apply did, so reverting one action never disturbs a later one.
type Action struct {
	Name   string
	PostID string
	// Counter is the shared counter the action moves by Delta; empty for
	// actions that only touch the viewer's own flags.
	Counter Counter
	Delta   int64
	Apply   func(*PostInteraction)
	Inverse func(*PostInteraction)
}

// Planner builds an action from the value it is about to be applied to.
type Planner func(current PostInteraction) Action

// ToggleLike likes an unliked post or unlikes a liked one. The direction is
// fixed when the action is planned.
func ToggleLike(current PostInteraction) Action {
	prior := current.IsLiked
	delta := int64(1)
	if prior {
		delta = -1
	}
	return Action{
		Name:    "like",
		PostID:  current.PostID,
		Counter: CounterLikes,
		Delta:   delta,
		Apply: func(p *PostInteraction) {
			p.IsLiked = !prior
			p.Likes += delta
		},
		Inverse: func(p *PostInteraction) {
			p.IsLiked = prior
			p.Likes -= delta
		},
	}
}

// Share counts one share.
func Share(current PostInteraction) Action {
	return counted("share", current.PostID, CounterShares, func(p *PostInteraction) *int64 { return &p.Shares })
}

// AddComment counts one comment.
func AddComment(current PostInteraction) Action {
	return counted("comment", current.PostID, CounterComments, func(p *PostInteraction) *int64 { return &p.Comments })
}

// ToggleBookmark flips the viewer's bookmark. Bookmarks are private to the
// viewer and move no shared counter.
func ToggleBookmark(current PostInteraction) Action {
	prior := current.IsBookmarked
	return Action{
		Name:    "bookmark",
		PostID:  current.PostID,
		Apply:   func(p *PostInteraction) { p.IsBookmarked = !prior },
		Inverse: func(p *PostInteraction) { p.IsBookmarked = prior },
	}
}

func counted(name, postID string, c Counter, field func(*PostInteraction) *int64) Action {
	return Action{
		Name:    name,
		PostID:  postID,
		Counter: c,
		Delta:   1,
		Apply:   func(p *PostInteraction) { *field(p)++ },
		Inverse: func(p *PostInteraction) { *field(p)-- },
	}
}

// State holds the interactions of one viewer. The zero value is not usable;
// create it with NewState.
type State struct {
	mu    sync.Mutex
	posts map[string]PostInteraction
}

// NewState creates an empty state.
func NewState() *State {
	return &State{posts: make(map[string]PostInteraction)}
}

// Get returns the post's interaction, zero counters if unseen.
func (s *State) Get(postID string) PostInteraction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(postID)
}

// Begin plans an action against the post's current value and applies it in
// one step. It returns the action, for a later Revert, and the new value.
func (s *State) Begin(postID string, plan Planner) (Action, PostInteraction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.get(postID)
	a := plan(p)
	a.Apply(&p)
	s.posts[postID] = p
	return a, p
}

// Revert runs a.Inverse and returns the new value.
func (s *State) Revert(a Action) PostInteraction {
	return s.run(a.PostID, a.Inverse)
}

// Settle replaces one shared counter with the value the recorder reported.
func (s *State) Settle(postID string, c Counter, n int64) PostInteraction {
	return s.run(postID, func(p *PostInteraction) {
		switch c {
		case CounterLikes:
			p.Likes = n
		case CounterShares:
			p.Shares = n
		case CounterComments:
			p.Comments = n
		}
	})
}

// Sync replaces the shared counters of a post, keeping the viewer flags.
func (s *State) Sync(postID string, c Counts) PostInteraction {
	return s.run(postID, func(p *PostInteraction) {
		p.Likes, p.Shares, p.Comments = c.Likes, c.Shares, c.Comments
	})
}

// All returns every known post ordered by id.
func (s *State) All() []PostInteraction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PostInteraction, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b PostInteraction) int { return cmp.Compare(a.PostID, b.PostID) })
	return out
}

func (s *State) run(postID string, fn func(*PostInteraction)) PostInteraction {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.get(postID)
	fn(&p)
	s.posts[postID] = p
	return p
}

func (s *State) get(postID string) PostInteraction {
	if p, ok := s.posts[postID]; ok {
		return p
	}
	return PostInteraction{PostID: postID}
}
