package feed

import (
	"errors"
	"testing"
	"time"

	"github.com/techish-thoughts/blogsearch/internal/domain"
)

func TestValidate_AcceptsAndDerives(t *testing.T) {
	records := []Record{
		{
			Title:     "React 18 Concurrent Features",
			Content:   "Concurrent rendering lets React interrupt work.",
			Author:    "Jane Doe",
			AuthorBio: "Frontend engineer",
			Tags:      []string{"react", " javascript ", "react", ""},
			Date:      "2024-03-01T10:00:00Z",
			URL:       "https://blog.example.com/posts/react-18/",
		},
		{
			Title:      "TypeScript Advanced Patterns",
			Summary:    "Mapped and conditional types.",
			Author:     "Jane Doe",
			Tags:       []string{"typescript"},
			Categories: []string{"frontend"},
			Date:       "2024-02-10",
			Permalink:  "/posts/ts-patterns/",
			Draft:      true,
		},
	}

	set, errs := Validate(records)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(set.Articles) != 2 {
		t.Fatalf("articles = %d, want 2", len(set.Articles))
	}

	a := set.Articles[0]
	if a.ID != "posts/react-18" || a.Slug != "react-18" {
		t.Errorf("id/slug = %q/%q", a.ID, a.Slug)
	}
	if a.Author != "jane-doe" {
		t.Errorf("author = %q", a.Author)
	}
	if len(a.Tags) != 2 || a.Tags[0] != "react" || a.Tags[1] != "javascript" {
		t.Errorf("tags = %v", a.Tags)
	}
	if a.PlainContent == "" || a.WordCount != 6 || a.ReadingTime != 1 {
		t.Errorf("derived text fields: %q %d %d", a.PlainContent, a.WordCount, a.ReadingTime)
	}
	if !a.PublishedDate.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", a.PublishedDate)
	}

	if len(set.Authors) != 1 || set.Authors[0].Name != "Jane Doe" || set.Authors[0].Bio != "Frontend engineer" {
		t.Errorf("authors = %+v", set.Authors)
	}

	counts := map[string]int{}
	for _, tg := range set.Tags {
		counts[tg.Name] = tg.ArticlesCount
	}
	if counts["react"] != 1 || counts["javascript"] != 1 {
		t.Errorf("tag counts = %v", counts)
	}
	if c, ok := counts["typescript"]; !ok || c != 0 {
		t.Errorf("draft-only tag should exist with count 0, got %v", counts)
	}
}

func TestValidate_RejectsBadRecords(t *testing.T) {
	records := []Record{
		{Title: "", Date: "2024-01-01", URL: "/a/"},
		{Title: "No date", URL: "/b/"},
		{Title: "Bad date", Date: "yesterday", URL: "/c/"},
		{Title: "No link", Date: "2024-01-01"},
		{Title: "Good", Date: "2024-01-01", URL: "/good/"},
		{Title: "Duplicate", Date: "2024-01-01", URL: "https://x.test/good/"},
		{Title: "Root link", Date: "2024-01-01", URL: "/"},
	}

	set, errs := Validate(records)
	if len(set.Articles) != 1 || set.Articles[0].Title != "Good" {
		t.Fatalf("articles = %+v", set.Articles)
	}
	if len(errs) != 6 {
		t.Fatalf("errors = %d, want 6: %v", len(errs), errs)
	}
	for _, err := range errs {
		if !errors.Is(err, domain.ErrInvalidRecord) {
			t.Errorf("error %v does not wrap ErrInvalidRecord", err)
		}
	}
	var re *domain.RecordError
	if !errors.As(errs[1], &re) || re.Index != 1 {
		t.Errorf("second error = %v", errs[1])
	}
}

func TestValidate_NormalizesNFC(t *testing.T) {
	decomposed := "Cafe\u0301 culture"
	set, errs := Validate([]Record{{Title: decomposed, Date: "2024-01-01", URL: "/cafe/"}})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := set.Articles[0].Title; got != "Caf\u00e9 culture" {
		t.Errorf("title = %q, want composed form", got)
	}
}

func TestValidate_EmptyCollectionsAreNotNil(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
	}{
		{name: "empty feed", records: nil},
		{name: "all rejected", records: []Record{{Title: "", Date: "2024-01-01", URL: "/a/"}}},
		{name: "untagged authorless post", records: []Record{{Title: "T", Date: "2024-01-01", URL: "/t/"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, _ := Validate(tt.records)
			if set.Articles == nil || set.Authors == nil || set.Tags == nil {
				t.Errorf("nil collection in %+v", set)
			}
		})
	}
}

func TestValidate_ExplicitFieldsWin(t *testing.T) {
	set, _ := Validate([]Record{{
		ID: "custom", Slug: "nice-slug", Title: "T", PublishedDate: "2024-01-01", Date: "bogus",
		URL: "/x/", PlainContent: "plain", Content: "<p>html</p>", WordCount: 1000, ReadingTime: 7,
	}})
	a := set.Articles[0]
	if a.ID != "custom" || a.Slug != "nice-slug" || a.PlainContent != "plain" || a.ReadingTime != 7 || a.WordCount != 1000 {
		t.Errorf("article = %+v", a)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Jane Doe", "jane-doe"},
		{"  \u00c9mile  Zola ", "\u00e9mile-zola"},
		{"C++ & Go", "c-go"},
		{"already-a-slug", "already-a-slug"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
