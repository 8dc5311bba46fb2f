package fuzzy

import (
	"testing"
)

type doc struct {
	title string
	body  string
	tags  []string
}

func docKeys() []Key[doc] {
	return []Key[doc]{
		{Name: "title", Weight: 0.7, Values: func(d *doc) []string { return []string{d.title} }},
		{Name: "body", Weight: 0.4, Values: func(d *doc) []string { return []string{d.body} }},
		{Name: "tags", Weight: 0.2, Values: func(d *doc) []string { return d.tags }},
	}
}

func sampleDocs() []doc {
	return []doc{
		{title: "React 18 Concurrent Features", tags: []string{"react", "javascript"}},
		{title: "TypeScript Advanced Patterns", tags: []string{"typescript"}},
		{title: "Go Generics", body: "Type parameters arrived in Go 1.18.", tags: []string{"go"}},
	}
}

func TestSearch_ExactTitle(t *testing.T) {
	idx := NewIndex(sampleDocs(), docKeys(), Options{Threshold: 0.3, MinMatchCharLength: 2})

	res := idx.Search("typescript")
	if len(res) != 1 {
		t.Fatalf("expected 1 result, got %d", len(res))
	}
	if res[0].RefIndex != 1 {
		t.Errorf("expected doc 1, got %d", res[0].RefIndex)
	}
	if res[0].Score >= 0.01 {
		t.Errorf("exact match should score near 0, got %f", res[0].Score)
	}
}

func TestSearch_TypoTolerance(t *testing.T) {
	idx := NewIndex(sampleDocs(), docKeys(), Options{Threshold: 0.3})

	res := idx.Search("typscript")
	if len(res) != 1 || res[0].RefIndex != 1 {
		t.Fatalf("expected doc 1 for typo query, got %+v", res)
	}
	if res[0].Score == 0 {
		t.Error("typo match should not score as exact")
	}
}

func TestSearch_ThresholdRejects(t *testing.T) {
	idx := NewIndex(sampleDocs(), docKeys(), Options{Threshold: 0})

	if res := idx.Search("typscript"); len(res) != 0 {
		t.Fatalf("threshold 0 should reject typos, got %d results", len(res))
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	idx := NewIndex(sampleDocs(), docKeys(), Options{Threshold: 0.3})

	res := idx.Search("GENERICS")
	if len(res) != 1 || res[0].RefIndex != 2 {
		t.Fatalf("expected doc 2, got %+v", res)
	}
	m := res[0].Matches[0]
	if m.Key != "title" {
		t.Errorf("expected title match, got %s", m.Key)
	}
	if len(m.Spans) != 1 || m.Spans[0] != (Span{Start: 3, End: 10}) {
		t.Errorf("unexpected spans: %+v", m.Spans)
	}
}

func TestSearch_BlankPattern(t *testing.T) {
	idx := NewIndex(sampleDocs(), docKeys(), Options{Threshold: 0.3})

	for _, q := range []string{"", "   "} {
		if res := idx.Search(q); len(res) != 0 {
			t.Errorf("Search(%q) returned %d results", q, len(res))
		}
	}
}

func TestSearch_MinMatchCharLength(t *testing.T) {
	idx := NewIndex(sampleDocs(), docKeys(), Options{Threshold: 0.3, MinMatchCharLength: 2})

	if res := idx.Search("o"); len(res) != 0 {
		t.Fatalf("single rune spans should be dropped, got %d results", len(res))
	}
}

func TestSearch_MoreFieldsRankHigher(t *testing.T) {
	docs := []doc{
		{title: "Notes", body: "a long post mentioning golang once"},
		{title: "Golang tips", body: "golang everywhere", tags: []string{"golang"}},
	}
	idx := NewIndex(docs, docKeys(), Options{Threshold: 0.3})

	res := idx.Search("golang")
	if len(res) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res))
	}
	if res[0].RefIndex != 1 {
		t.Errorf("document matching title, body and tags should rank first, got %d", res[0].RefIndex)
	}
	if res[0].Score > res[1].Score {
		t.Errorf("results not sorted: %f > %f", res[0].Score, res[1].Score)
	}
}

func TestSearch_TiesKeepCollectionOrder(t *testing.T) {
	docs := []doc{{title: "same"}, {title: "same"}, {title: "same"}}
	idx := NewIndex(docs, docKeys(), Options{Threshold: 0.3})

	res := idx.Search("same")
	for i, r := range res {
		if r.RefIndex != i {
			t.Errorf("position %d holds doc %d", i, r.RefIndex)
		}
	}
}

func TestSearch_ArrayKeyBestElement(t *testing.T) {
	docs := []doc{{title: "x", tags: []string{"golang", "go"}}}
	idx := NewIndex(docs, docKeys(), Options{Threshold: 0.3})

	res := idx.Search("go")
	if len(res) != 1 {
		t.Fatalf("expected 1 result, got %d", len(res))
	}
	m := res[0].Matches[0]
	if m.Key != "tags" || m.ArrayIndex != 0 || m.Value != "golang" {
		t.Errorf("unexpected match: %+v", m)
	}
}

func TestWithCollection(t *testing.T) {
	idx := NewIndex(sampleDocs(), docKeys(), Options{Threshold: 0.3})
	next := idx.WithCollection(sampleDocs()[:1])

	if idx.Len() != 3 {
		t.Errorf("original index changed: %d", idx.Len())
	}
	if next.Len() != 1 {
		t.Errorf("new index Len() = %d, want 1", next.Len())
	}
	if res := next.Search("typescript"); len(res) != 0 {
		t.Errorf("replaced collection still matches removed doc")
	}
}

func TestFieldNorm(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"one", 1},
		{"two words", 0.707},
		{"a b c d", 0.5},
		{"", 1},
	}
	for _, tt := range tests {
		if got := fieldNorm(tt.in); got != tt.want {
			t.Errorf("fieldNorm(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
