// Package content holds the blog entities the search core indexes.
package content

import (
	"slices"
	"time"
)

// Article is a published (or draft) blog post.
type Article struct {
	ID            string
	Slug          string
	Title         string
	Summary       string
	PlainContent  string
	Author        string // Author.ID
	Tags          []string
	Categories    []string
	PublishedDate time.Time
	ReadingTime   int // minutes
	WordCount     int
	Featured      bool
	Draft         bool
	Permalink     string
}

// Author is a blog contributor.
type Author struct {
	ID   string
	Name string
	Bio  string
}

// Tag is a topic label attached to articles.
type Tag struct {
	ID            string
	Name          string
	Description   string
	ArticlesCount int
}

// Set groups the three collections the indexer consumes.
type Set struct {
	Articles []Article
	Authors  []Author
	Tags     []Tag
}

// Published returns the non-draft articles, preserving order.
func Published(articles []Article) []Article {
	out := make([]Article, 0, len(articles))
	for i := range articles {
		if !articles[i].Draft {
			out = append(out, articles[i])
		}
	}
	return out
}

// PopularTags returns a copy of tags ordered by ArticlesCount descending.
// Ties keep their original order.
func PopularTags(tags []Tag) []Tag {
	out := slices.Clone(tags)
	slices.SortStableFunc(out, func(a, b Tag) int {
		return b.ArticlesCount - a.ArticlesCount
	})
	return out
}
