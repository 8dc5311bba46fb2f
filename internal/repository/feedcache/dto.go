package feedcache

import (
	"time"

	"github.com/techish-thoughts/blogsearch/internal/domain/content"
)

// snapshotRow is the JSON form of a content.Set.
type snapshotRow struct {
	SavedAt  time.Time    `json:"savedAt"`
	Articles []articleRow `json:"articles"`
	Authors  []authorRow  `json:"authors"`
	Tags     []tagRow     `json:"tags"`
}

type articleRow struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug,omitempty"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary,omitempty"`
	PlainContent  string    `json:"plainContent,omitempty"`
	Author        string    `json:"author,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Categories    []string  `json:"categories,omitempty"`
	PublishedDate time.Time `json:"publishedDate"`
	ReadingTime   int       `json:"readingTime,omitempty"`
	WordCount     int       `json:"wordCount,omitempty"`
	Featured      bool      `json:"featured,omitempty"`
	Draft         bool      `json:"draft,omitempty"`
	Permalink     string    `json:"permalink"`
}

type authorRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

type tagRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ArticlesCount int    `json:"articlesCount"`
}

func toRow(set content.Set, savedAt time.Time) snapshotRow {
	row := snapshotRow{
		SavedAt:  savedAt,
		Articles: make([]articleRow, len(set.Articles)),
		Authors:  make([]authorRow, len(set.Authors)),
		Tags:     make([]tagRow, len(set.Tags)),
	}
	for i, a := range set.Articles {
		row.Articles[i] = articleRow{
			ID: a.ID, Slug: a.Slug, Title: a.Title, Summary: a.Summary,
			PlainContent: a.PlainContent, Author: a.Author, Tags: a.Tags,
			Categories: a.Categories, PublishedDate: a.PublishedDate,
			ReadingTime: a.ReadingTime, WordCount: a.WordCount,
			Featured: a.Featured, Draft: a.Draft, Permalink: a.Permalink,
		}
	}
	for i, a := range set.Authors {
		row.Authors[i] = authorRow{ID: a.ID, Name: a.Name, Bio: a.Bio}
	}
	for i, t := range set.Tags {
		row.Tags[i] = tagRow{ID: t.ID, Name: t.Name, Description: t.Description, ArticlesCount: t.ArticlesCount}
	}
	return row
}

func fromRow(row snapshotRow) content.Set {
	set := content.Set{
		Articles: make([]content.Article, len(row.Articles)),
		Authors:  make([]content.Author, len(row.Authors)),
		Tags:     make([]content.Tag, len(row.Tags)),
	}
	for i, a := range row.Articles {
		set.Articles[i] = content.Article{
			ID: a.ID, Slug: a.Slug, Title: a.Title, Summary: a.Summary,
			PlainContent: a.PlainContent, Author: a.Author, Tags: a.Tags,
			Categories: a.Categories, PublishedDate: a.PublishedDate,
			ReadingTime: a.ReadingTime, WordCount: a.WordCount,
			Featured: a.Featured, Draft: a.Draft, Permalink: a.Permalink,
		}
	}
	for i, a := range row.Authors {
		set.Authors[i] = content.Author{ID: a.ID, Name: a.Name, Bio: a.Bio}
	}
	for i, t := range row.Tags {
		set.Tags[i] = content.Tag{ID: t.ID, Name: t.Name, Description: t.Description, ArticlesCount: t.ArticlesCount}
	}
	return set
}
