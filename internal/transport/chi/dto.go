package chi

import (
	"time"

	"github.com/techish-thoughts/blogsearch/internal/domain/content"
	dominter "github.com/techish-thoughts/blogsearch/internal/domain/interaction"
	"github.com/techish-thoughts/blogsearch/internal/domain/search/result"
	"github.com/techish-thoughts/blogsearch/internal/usecase/catalog"
	"github.com/techish-thoughts/blogsearch/internal/usecase/index"
)

// ErrorCode is the machine-readable error kind returned to clients.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeNotFound         ErrorCode = "not_found"
	CodeIndexNotReady    ErrorCode = "index_not_ready"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeRemoteEffect     ErrorCode = "remote_effect_failed"
	CodeFeedUnavailable  ErrorCode = "feed_unavailable"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchResultItem is one article hit.
type SearchResultItem struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Summary            string    `json:"summary,omitempty"`
	Author             string    `json:"author,omitempty"`
	PublishedDate      time.Time `json:"publishedDate"`
	Tags               []string  `json:"tags"`
	Categories         []string  `json:"categories"`
	Permalink          string    `json:"permalink"`
	Score              float64   `json:"score"`
	HighlightedContent string    `json:"highlightedContent,omitempty"`
}

// SearchPageResponse is a page of article hits.
type SearchPageResponse struct {
	Results      []SearchResultItem `json:"results"`
	TotalResults int                `json:"totalResults"`
	TotalPages   int                `json:"totalPages"`
	CurrentPage  int                `json:"currentPage"`
}

// AuthorItem is one author hit.
type AuthorItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

// TagItem is one tag.
type TagItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ArticlesCount int    `json:"articlesCount"`
}

// SuggestionsResponse groups display strings by entity.
type SuggestionsResponse struct {
	Articles []string `json:"articles"`
	Authors  []string `json:"authors"`
	Tags     []string `json:"tags"`
}

// IndexStatsResponse mirrors index.Stats.
type IndexStatsResponse struct {
	ArticlesIndexed int  `json:"articlesIndexed"`
	AuthorsIndexed  int  `json:"authorsIndexed"`
	TagsIndexed     int  `json:"tagsIndexed"`
	Ready           bool `json:"ready"`
}

// RefreshResponse reports a reload.
type RefreshResponse struct {
	Origin   string             `json:"origin"`
	Rejected int                `json:"rejected"`
	Stats    IndexStatsResponse `json:"stats"`
}

// ShareRequest is the body of POST /posts/{id}/share.
type ShareRequest struct {
	Platform string `json:"platform"`
}

// CommentRequest is the body of POST /posts/{id}/comments. An empty author
// posts anonymously.
type CommentRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// CommentResponse answers POST /posts/{id}/comments.
type CommentResponse struct {
	Comment     dominter.Comment         `json:"comment"`
	Interaction dominter.PostInteraction `json:"interaction"`
}

// BookmarksResponse is the body of GET /bookmarks.
type BookmarksResponse struct {
	PostIDs []string `json:"postIds"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
	Commit  string            `json:"commit"`
}

func pageToResponse(p result.Page) SearchPageResponse {
	items := make([]SearchResultItem, len(p.Results))
	for i := range p.Results {
		items[i] = resultToItem(&p.Results[i])
	}
	return SearchPageResponse{
		Results:      items,
		TotalResults: p.TotalResults,
		TotalPages:   p.TotalPages,
		CurrentPage:  p.CurrentPage,
	}
}

func resultToItem(r *result.Result) SearchResultItem {
	return SearchResultItem{
		ID:                 r.ID,
		Title:              r.Title,
		Summary:            r.Summary,
		Author:             r.Author,
		PublishedDate:      r.PublishedDate,
		Tags:               nonNil(r.Tags),
		Categories:         nonNil(r.Categories),
		Permalink:          r.Permalink,
		Score:              r.Score,
		HighlightedContent: r.HighlightedContent,
	}
}

func authorsToItems(as []content.Author) []AuthorItem {
	out := make([]AuthorItem, len(as))
	for i, a := range as {
		out[i] = AuthorItem{ID: a.ID, Name: a.Name, Bio: a.Bio}
	}
	return out
}

func tagsToItems(ts []content.Tag) []TagItem {
	out := make([]TagItem, len(ts))
	for i, t := range ts {
		out[i] = TagItem{ID: t.ID, Name: t.Name, Description: t.Description, ArticlesCount: t.ArticlesCount}
	}
	return out
}

func suggestionsToResponse(s result.Suggestions) SuggestionsResponse {
	return SuggestionsResponse{
		Articles: nonNil(s.Articles),
		Authors:  nonNil(s.Authors),
		Tags:     nonNil(s.Tags),
	}
}

func statsToResponse(s index.Stats) IndexStatsResponse {
	return IndexStatsResponse{
		ArticlesIndexed: s.ArticlesIndexed,
		AuthorsIndexed:  s.AuthorsIndexed,
		TagsIndexed:     s.TagsIndexed,
		Ready:           s.Ready,
	}
}

func outcomeToResponse(o catalog.Outcome) RefreshResponse {
	return RefreshResponse{Origin: string(o.Origin), Rejected: o.Rejected, Stats: statsToResponse(o.Stats)}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
