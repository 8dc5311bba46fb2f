package blogsearch

import (
	"time"

	"github.com/techish-thoughts/blogsearch/internal/domain/content"
	"github.com/techish-thoughts/blogsearch/internal/domain/search/filter"
	"github.com/techish-thoughts/blogsearch/internal/domain/search/result"
	"github.com/techish-thoughts/blogsearch/internal/usecase/index"
)

// Article is a blog post handed to Index.
type Article struct {
	ID          string
	Slug        string
	Title       string
	Summary     string
	Content     string // plain text body
	Author      string // Author.ID
	Tags        []string
	Categories  []string
	Published   time.Time
	ReadingTime int
	WordCount   int
	Featured    bool
	Draft       bool // drafts are never searchable
	Permalink   string
}

// Author is a blog contributor.
type Author struct {
	ID   string
	Name string
	Bio  string
}

// Tag is a topic label.
type Tag struct {
	ID            string
	Name          string
	Description   string
	ArticlesCount int
}

// SortField orders article results.
type SortField string

// Sort fields.
const (
	SortRelevance SortField = "relevance"
	SortDate      SortField = "date"
	SortTitle     SortField = "title"
)

// SortOrder is the sort direction.
type SortOrder string

// Sort orders.
const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Filters narrows and orders an article search. The zero value matches
// everything, best match first. From and To are inclusive.
type Filters struct {
	Tags       []string
	Authors    []string
	Categories []string
	From       *time.Time
	To         *time.Time
	Sort       SortField
	Order      SortOrder
}

// Hit is one article search result. Score is 0 for a perfect match and 1
// for the worst; a blank query lists every article with score 1.
type Hit struct {
	ID         string
	Title      string
	Summary    string
	Author     string
	Published  time.Time
	Tags       []string
	Categories []string
	Permalink  string
	Score      float64
	// Highlight is an excerpt with matches wrapped in <mark>, or empty.
	Highlight string
}

// Page is one page of article hits.
type Page struct {
	Hits       []Hit
	Total      int
	TotalPages int
	Page       int
}

// Suggestions are display strings per entity type.
type Suggestions struct {
	Articles []string
	Authors  []string
	Tags     []string
}

// Stats describes the current indices.
type Stats struct {
	Articles int
	Authors  int
	Tags     int
	Ready    bool
}

// --- conversions ---

func (f Filters) toDomain() filter.Filters {
	return filter.Filters{
		Tags:       f.Tags,
		Authors:    f.Authors,
		Categories: f.Categories,
		DateFrom:   f.From,
		DateTo:     f.To,
		SortBy:     filter.SortBy(f.Sort),
		SortOrder:  filter.SortOrder(f.Order),
	}
}

func filtersFromDomain(f filter.Filters) Filters {
	return Filters{
		Tags:       f.Tags,
		Authors:    f.Authors,
		Categories: f.Categories,
		From:       f.DateFrom,
		To:         f.DateTo,
		Sort:       SortField(f.SortBy),
		Order:      SortOrder(f.SortOrder),
	}
}

func pageFromDomain(p result.Page) Page {
	hits := make([]Hit, len(p.Results))
	for i := range p.Results {
		r := &p.Results[i]
		hits[i] = Hit{
			ID:         r.ID,
			Title:      r.Title,
			Summary:    r.Summary,
			Author:     r.Author,
			Published:  r.PublishedDate,
			Tags:       r.Tags,
			Categories: r.Categories,
			Permalink:  r.Permalink,
			Score:      r.Score,
			Highlight:  r.HighlightedContent,
		}
	}
	return Page{Hits: hits, Total: p.TotalResults, TotalPages: p.TotalPages, Page: p.CurrentPage}
}

func statsFromDomain(s index.Stats) Stats {
	return Stats{Articles: s.ArticlesIndexed, Authors: s.AuthorsIndexed, Tags: s.TagsIndexed, Ready: s.Ready}
}

func toContent(articles []Article, authors []Author, tags []Tag) content.Set {
	set := content.Set{
		Articles: make([]content.Article, len(articles)),
		Authors:  make([]content.Author, len(authors)),
		Tags:     make([]content.Tag, len(tags)),
	}
	for i := range articles {
		a := &articles[i]
		set.Articles[i] = content.Article{
			ID:            a.ID,
			Slug:          a.Slug,
			Title:         a.Title,
			Summary:       a.Summary,
			PlainContent:  a.Content,
			Author:        a.Author,
			Tags:          a.Tags,
			Categories:    a.Categories,
			PublishedDate: a.Published,
			ReadingTime:   a.ReadingTime,
			WordCount:     a.WordCount,
			Featured:      a.Featured,
			Draft:         a.Draft,
			Permalink:     a.Permalink,
		}
	}
	for i, a := range authors {
		set.Authors[i] = content.Author{ID: a.ID, Name: a.Name, Bio: a.Bio}
	}
	for i, t := range tags {
		set.Tags[i] = content.Tag{ID: t.ID, Name: t.Name, Description: t.Description, ArticlesCount: t.ArticlesCount}
	}
	return set
}

func authorsFromDomain(in []content.Author) []Author {
	out := make([]Author, len(in))
	for i, a := range in {
		out[i] = Author{ID: a.ID, Name: a.Name, Bio: a.Bio}
	}
	return out
}

func tagsFromDomain(in []content.Tag) []Tag {
	out := make([]Tag, len(in))
	for i, t := range in {
		out[i] = Tag{ID: t.ID, Name: t.Name, Description: t.Description, ArticlesCount: t.ArticlesCount}
	}
	return out
}
