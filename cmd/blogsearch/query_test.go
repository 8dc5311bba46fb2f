package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	blogsearch "github.com/techish-thoughts/blogsearch/pkg/sdk"
)

const feedJSON = `[
  {"id":"react-18","title":"React 18 Concurrent Features","author":"Jane Doe","tags":["react"],
   "plainContent":"Concurrent rendering lets React interrupt work.",
   "publishedDate":"2024-01-02","permalink":"/react-18/"},
  {"id":"go-generics","title":"Go Generics","author":"Joe","tags":["go"],
   "publishedDate":"2024-01-03","permalink":"/go-generics/"}
]`

func writeFeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.json")
	if err := os.WriteFile(path, []byte(feedJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunQuery(t *testing.T) {
	var out bytes.Buffer
	err := runQuery(context.Background(), &out, blogsearch.WithFeedFile(writeFeed(t)), "react", blogsearch.Filters{}, 1, 10)
	if err != nil {
		t.Fatalf("runQuery: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "React 18 Concurrent Features") {
		t.Errorf("output missing hit title:\n%s", got)
	}
	if !strings.Contains(got, "/react-18/") {
		t.Errorf("output missing permalink:\n%s", got)
	}
}

func TestRunQuery_NoResults(t *testing.T) {
	var out bytes.Buffer
	filters := blogsearch.Filters{Tags: []string{"rust"}}
	if err := runQuery(context.Background(), &out, blogsearch.WithFeedFile(writeFeed(t)), "", filters, 1, 10); err != nil {
		t.Fatalf("runQuery: %v", err)
	}
	if !strings.Contains(out.String(), "No matching articles") {
		t.Errorf("output = %s", out.String())
	}
}

func TestFeedOption(t *testing.T) {
	for _, in := range []string{"https://blog.example/index.json", "testdata/index.json"} {
		if opt, err := feedOption("test", in); err != nil || opt == nil {
			t.Errorf("feedOption(%q) = %v, %v", in, opt, err)
		}
	}
}

func TestRenderHighlight(t *testing.T) {
	got := renderHighlight("a <mark>b</mark> c <mark>d")
	if strings.Contains(got, "<mark>b</mark>") {
		t.Errorf("closed mark not rendered: %q", got)
	}
	if !strings.HasSuffix(got, "<mark>d") {
		t.Errorf("unterminated mark must stay as is: %q", got)
	}
}
