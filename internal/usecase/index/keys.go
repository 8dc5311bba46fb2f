package index

import (
	"github.com/techish-thoughts/blogsearch/internal/domain/content"
	"github.com/techish-thoughts/blogsearch/internal/fuzzy"
)

// Match strictness per index. Lower is stricter.
const (
	ArticleThreshold = 0.3
	AuthorThreshold  = 0.4
	TagThreshold     = 0.2

	// ArticleMinMatch drops single-rune article highlights.
	ArticleMinMatch = 2
)

// Searchable field names, also used as highlight keys.
const (
	FieldTitle        = "title"
	FieldSummary      = "summary"
	FieldPlainContent = "plainContent"
	FieldTags         = "tags"
	FieldAuthor       = "author"
	FieldName         = "name"
	FieldBio          = "bio"
	FieldDescription  = "description"
)

func one(s string) []string { return []string{s} }

var articleKeys = []fuzzy.Key[content.Article]{
	{Name: FieldTitle, Weight: 0.7, Values: func(a *content.Article) []string { return one(a.Title) }},
	{Name: FieldSummary, Weight: 0.3, Values: func(a *content.Article) []string { return one(a.Summary) }},
	{Name: FieldPlainContent, Weight: 0.4, Values: func(a *content.Article) []string { return one(a.PlainContent) }},
	{Name: FieldTags, Weight: 0.2, Values: func(a *content.Article) []string { return a.Tags }},
	{Name: FieldAuthor, Weight: 0.1, Values: func(a *content.Article) []string { return one(a.Author) }},
}

var authorKeys = []fuzzy.Key[content.Author]{
	{Name: FieldName, Weight: 0.8, Values: func(a *content.Author) []string { return one(a.Name) }},
	{Name: FieldBio, Weight: 0.2, Values: func(a *content.Author) []string { return one(a.Bio) }},
}

var tagKeys = []fuzzy.Key[content.Tag]{
	{Name: FieldName, Weight: 0.9, Values: func(t *content.Tag) []string { return one(t.Name) }},
	{Name: FieldDescription, Weight: 0.1, Values: func(t *content.Tag) []string { return one(t.Description) }},
}

func newArticleIndex(articles []content.Article) *fuzzy.Index[content.Article] {
	return fuzzy.NewIndex(content.Published(articles), articleKeys,
		fuzzy.Options{Threshold: ArticleThreshold, MinMatchCharLength: ArticleMinMatch})
}

func newAuthorIndex(authors []content.Author) *fuzzy.Index[content.Author] {
	return fuzzy.NewIndex(authors, authorKeys, fuzzy.Options{Threshold: AuthorThreshold})
}

func newTagIndex(tags []content.Tag) *fuzzy.Index[content.Tag] {
	return fuzzy.NewIndex(tags, tagKeys, fuzzy.Options{Threshold: TagThreshold})
}
