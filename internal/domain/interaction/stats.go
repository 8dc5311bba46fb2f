package interaction

import (
	"cmp"
	"slices"
)

// DefaultPopularLimit is how many posts Summarize lists as popular.
const DefaultPopularLimit = 5

// Stats aggregates interactions across posts.
type Stats struct {
	TotalLikes    int64    `json:"totalLikes"`
	TotalShares   int64    `json:"totalShares"`
	TotalComments int64    `json:"totalComments"`
	PopularPosts  []string `json:"popularPosts"`
	// EngagementRate is the mean of likes+shares+comments per post.
	EngagementRate float64 `json:"engagementRate"`
}

// Summarize computes totals and the top popularLimit posts by
// likes+shares+comments; ties are broken by post id.
func Summarize(posts []PostInteraction, popularLimit int) Stats {
	if popularLimit <= 0 {
		popularLimit = DefaultPopularLimit
	}
	st := Stats{PopularPosts: []string{}}
	if len(posts) == 0 {
		return st
	}

	ranked := slices.Clone(posts)
	for _, p := range ranked {
		st.TotalLikes += p.Likes
		st.TotalShares += p.Shares
		st.TotalComments += p.Comments
	}
	slices.SortFunc(ranked, func(a, b PostInteraction) int {
		if c := cmp.Compare(engagement(b), engagement(a)); c != 0 {
			return c
		}
		return cmp.Compare(a.PostID, b.PostID)
	})
	for _, p := range ranked[:min(popularLimit, len(ranked))] {
		st.PopularPosts = append(st.PopularPosts, p.PostID)
	}
	total := st.TotalLikes + st.TotalShares + st.TotalComments
	st.EngagementRate = float64(total) / float64(len(posts))
	return st
}

func engagement(p PostInteraction) int64 { return p.Likes + p.Shares + p.Comments }
