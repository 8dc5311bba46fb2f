package result

import (
	"time"

	"github.com/techish-thoughts/blogsearch/internal/domain/content"
)

// NoMatchScore is the sentinel score given to every article of an empty-query listing.
const NoMatchScore = 1.0

// Result is a single article search hit.
// Score is 0 for a perfect match and 1 for the worst one.
type Result struct {
	ID                 string
	Title              string
	Summary            string
	Author             string
	PublishedDate      time.Time
	Tags               []string
	Categories         []string
	Permalink          string
	Score              float64
	HighlightedContent string // empty when no body or summary match exists
}

// FromArticle projects an article into a result with the given score.
func FromArticle(a *content.Article, score float64) Result {
	return Result{
		ID:            a.ID,
		Title:         a.Title,
		Summary:       a.Summary,
		Author:        a.Author,
		PublishedDate: a.PublishedDate,
		Tags:          a.Tags,
		Categories:    a.Categories,
		Permalink:     a.Permalink,
		Score:         score,
	}
}

// Page is one slice of a paginated article search.
type Page struct {
	Results      []Result
	TotalResults int
	TotalPages   int
	CurrentPage  int
}

// Suggestions holds display strings per entity type.
type Suggestions struct {
	Articles []string
	Authors  []string
	Tags     []string
}
