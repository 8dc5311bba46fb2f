package feed

import (
	"net/url"
	"path"
	"slices"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/techish-thoughts/blogsearch/internal/domain"
	"github.com/techish-thoughts/blogsearch/internal/domain/content"
	"github.com/techish-thoughts/blogsearch/internal/metrics"
)

// wordsPerMinute drives the derived reading time.
const wordsPerMinute = 200

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// Validate converts raw records into content. Records that fail validation
// are skipped and reported in the returned errors (each wraps
// domain.ErrInvalidRecord); they never abort the batch. Authors and tags
// are derived from the accepted articles in first-seen order. The returned
// collections are never nil, so an empty feed replaces whatever was indexed.
func Validate(records []Record) (content.Set, []error) {
	set := content.Set{
		Articles: []content.Article{},
		Authors:  []content.Author{},
		Tags:     []content.Tag{},
	}
	var (
		errs    []error
		seenIDs = make(map[string]struct{}, len(records))
		authors = map[string]int{}
		tags    = map[string]int{}
	)

	for i := range records {
		a, bio, err := toArticle(i, &records[i])
		if err == nil {
			if _, dup := seenIDs[a.ID]; dup {
				err = domain.NewRecordError(i, "duplicate id "+a.ID)
			}
		}
		if err != nil {
			errs = append(errs, err)
			metrics.FeedRecordsTotal.WithLabelValues("invalid").Inc()
			continue
		}
		seenIDs[a.ID] = struct{}{}
		metrics.FeedRecordsTotal.WithLabelValues("valid").Inc()

		if a.Author != "" {
			if pos, ok := authors[a.Author]; !ok {
				authors[a.Author] = len(set.Authors)
				set.Authors = append(set.Authors, content.Author{ID: a.Author, Name: authorName(&records[i]), Bio: bio})
			} else if set.Authors[pos].Bio == "" {
				set.Authors[pos].Bio = bio
			}
		}
		for _, t := range a.Tags {
			pos, ok := tags[t]
			if !ok {
				pos = len(set.Tags)
				tags[t] = pos
				set.Tags = append(set.Tags, content.Tag{ID: Slugify(t), Name: t})
			}
			if !a.Draft {
				set.Tags[pos].ArticlesCount++
			}
		}
		set.Articles = append(set.Articles, a)
	}
	return set, errs
}

func toArticle(i int, r *Record) (content.Article, string, error) {
	title := clean(r.Title)
	if title == "" {
		return content.Article{}, "", domain.NewRecordError(i, "missing title")
	}

	rawDate := r.PublishedDate
	if rawDate == "" {
		rawDate = r.Date
	}
	published, ok := parseDate(rawDate)
	if !ok {
		return content.Article{}, "", domain.NewRecordError(i, "unparseable date "+strings.TrimSpace(rawDate))
	}

	link := strings.TrimSpace(r.Permalink)
	if link == "" {
		link = strings.TrimSpace(r.URL)
	}
	if link == "" {
		return content.Article{}, "", domain.NewRecordError(i, "missing permalink")
	}
	linkPath := link
	if u, err := url.Parse(link); err == nil {
		linkPath = u.Path
	}
	linkPath = strings.Trim(linkPath, "/")

	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = linkPath
	}
	if id == "" {
		return content.Article{}, "", domain.NewRecordError(i, "cannot derive id from permalink "+link)
	}
	slug := strings.TrimSpace(r.Slug)
	if slug == "" {
		slug = path.Base(linkPath)
	}

	plain := clean(r.PlainContent)
	if plain == "" {
		plain = clean(r.Content)
	}
	words := r.WordCount
	if words <= 0 {
		words = len(strings.Fields(plain))
	}
	reading := r.ReadingTime
	if reading <= 0 && words > 0 {
		reading = (words + wordsPerMinute - 1) / wordsPerMinute
	}

	var author string
	if name := authorName(r); name != "" {
		author = Slugify(name)
	}

	return content.Article{
		ID:            id,
		Slug:          slug,
		Title:         title,
		Summary:       clean(r.Summary),
		PlainContent:  plain,
		Author:        author,
		Tags:          cleanList(r.Tags),
		Categories:    cleanList(r.Categories),
		PublishedDate: published,
		ReadingTime:   reading,
		WordCount:     words,
		Featured:      r.Featured,
		Draft:         r.Draft,
		Permalink:     link,
	}, clean(r.AuthorBio), nil
}

func authorName(r *Record) string { return clean(r.Author) }

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// clean NFC-normalizes and trims s.
func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = clean(s)
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// Slugify lowercases s and joins its letter and digit runs with hyphens.
func Slugify(s string) string {
	fields := strings.FieldsFunc(cases.Lower(language.Und).String(clean(s)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "-")
}
