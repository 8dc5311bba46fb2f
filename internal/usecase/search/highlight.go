package search

import (
	"strings"

	"github.com/techish-thoughts/blogsearch/internal/fuzzy"
	"github.com/techish-thoughts/blogsearch/internal/usecase/index"
)

// Highlight markers wrapped around matched text.
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

const ellipsis = "..."

// highlight builds an excerpt of the body (or, failing that, the summary)
// around the first match with every matched span wrapped in markers.
// It returns "" when neither field matched.
func highlight(matches []fuzzy.Match, excerptLen int) string {
	var m *fuzzy.Match
	for _, key := range []string{index.FieldPlainContent, index.FieldSummary} {
		for i := range matches {
			if matches[i].Key == key && len(matches[i].Spans) > 0 {
				m = &matches[i]
				break
			}
		}
		if m != nil {
			break
		}
	}
	if m == nil {
		return ""
	}
	return excerpt([]rune(m.Value), m.Spans, excerptLen)
}

// excerpt cuts excerptLen runes of text starting half a window before the
// first span. Spans are clipped to the window.
func excerpt(text []rune, spans []fuzzy.Span, excerptLen int) string {
	start := max(0, spans[0].Start-excerptLen/2)
	end := min(len(text), start+excerptLen)

	var b strings.Builder
	pos := start
	for _, s := range spans {
		if s.End < start || s.Start >= end {
			continue
		}
		from, to := max(s.Start, start), min(s.End+1, end)
		b.WriteString(string(text[pos:from]))
		b.WriteString(MarkOpen)
		b.WriteString(string(text[from:to]))
		b.WriteString(MarkClose)
		pos = to
	}
	b.WriteString(string(text[pos:end]))
	if end < len(text) {
		b.WriteString(ellipsis)
	}
	return b.String()
}
