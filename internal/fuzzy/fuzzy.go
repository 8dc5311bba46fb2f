// Package fuzzy implements typo-tolerant substring matching over weighted document fields.
//
// A field matches a pattern when the pattern occurs in it with at most
// floor(threshold*len(pattern)) edits. The field score is edits/len(pattern),
// so 0 is an exact occurrence. Field scores are combined per document as
//
//	score = Π score_k ^ (weight_k * norm_k)
//
// where weights are normalized to sum to 1 and norm_k = 1/sqrt(tokens in the
// field), which favours matches in short fields such as titles.
package fuzzy

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

// exactScore stands in for 0 so an exact match still contributes its weight.
const exactScore = 2.220446049250313e-16

// Span is an inclusive rune range of a field value that matched the pattern.
type Span struct {
	Start int
	End   int
}

// Len returns the number of runes covered.
func (s Span) Len() int { return s.End - s.Start + 1 }

// Key describes one searchable field of T.
type Key[T any] struct {
	Name   string
	Weight float64
	// Values extracts the field. Scalar fields return a single element.
	Values func(*T) []string
}

// Options tunes match strictness.
type Options struct {
	// Threshold is the maximum edits/len(pattern) ratio accepted (0 = exact only).
	Threshold float64
	// MinMatchCharLength drops matched spans shorter than this; a field with
	// no span left does not match. 0 or 1 keeps every span.
	MinMatchCharLength int
}

// Match reports where a pattern hit one field of a document.
type Match struct {
	Key        string
	Value      string
	ArrayIndex int // position of Value in the key's values
	Score      float64
	Spans      []Span
}

// Result is a scored document.
type Result[T any] struct {
	Item     T
	RefIndex int // position in the indexed collection
	Score    float64
	Matches  []Match
}

type field struct {
	raw   string
	lower []rune
	norm  float64
}

type key[T any] struct {
	name   string
	weight float64
	values func(*T) []string
}

// Index is an immutable searchable collection.
type Index[T any] struct {
	keys   []key[T]
	opts   Options
	docs   []T
	fields [][][]field // doc -> key -> values
}

// NewIndex builds an index over docs. Key weights are normalized to sum to 1;
// a non-positive weight counts as 1.
func NewIndex[T any](docs []T, keys []Key[T], opts Options) *Index[T] {
	total := 0.0
	for _, k := range keys {
		total += positive(k.Weight)
	}
	ks := make([]key[T], len(keys))
	for i, k := range keys {
		ks[i] = key[T]{name: k.Name, weight: positive(k.Weight) / total, values: k.Values}
	}
	idx := &Index[T]{keys: ks, opts: opts}
	idx.load(docs)
	return idx
}

// WithCollection returns a new index with the same keys and options over docs.
func (idx *Index[T]) WithCollection(docs []T) *Index[T] {
	next := &Index[T]{keys: idx.keys, opts: idx.opts}
	next.load(docs)
	return next
}

func (idx *Index[T]) load(docs []T) {
	idx.docs = slices.Clone(docs)
	idx.fields = make([][][]field, len(idx.docs))
	for d := range idx.docs {
		perKey := make([][]field, len(idx.keys))
		for k, ky := range idx.keys {
			vals := ky.values(&idx.docs[d])
			fs := make([]field, 0, len(vals))
			for _, v := range vals {
				if v == "" {
					continue
				}
				fs = append(fs, field{raw: v, lower: lowerRunes(v), norm: fieldNorm(v)})
			}
			perKey[k] = fs
		}
		idx.fields[d] = perKey
	}
}

// Len returns the number of indexed documents.
func (idx *Index[T]) Len() int { return len(idx.docs) }

// Docs returns the indexed documents in collection order. Callers must not modify it.
func (idx *Index[T]) Docs() []T { return idx.docs }

// Search scores every document against pattern and returns the matching
// ones, best first; equal scores keep collection order. A blank pattern
// matches nothing.
func (idx *Index[T]) Search(pattern string) []Result[T] {
	p := lowerRunes(pattern)
	if len(strings.TrimSpace(pattern)) == 0 {
		return nil
	}
	maxErrors := int(math.Floor(idx.opts.Threshold * float64(len(p))))

	var out []Result[T]
	for d := range idx.docs {
		var matches []Match
		total := 1.0
		for k, ky := range idx.keys {
			m, ok := idx.bestValue(p, maxErrors, idx.fields[d][k])
			if !ok {
				continue
			}
			m.Key = ky.name
			s := m.Score
			if s == 0 {
				s = exactScore
			}
			total *= math.Pow(s, ky.weight*idx.fields[d][k][m.ArrayIndex].norm)
			matches = append(matches, m)
		}
		if len(matches) == 0 {
			continue
		}
		out = append(out, Result[T]{Item: idx.docs[d], RefIndex: d, Score: total, Matches: matches})
	}

	slices.SortStableFunc(out, func(a, b Result[T]) int {
		switch {
		case a.Score < b.Score:
			return -1
		case a.Score > b.Score:
			return 1
		}
		return a.RefIndex - b.RefIndex
	})
	return out
}

func (idx *Index[T]) bestValue(p []rune, maxErrors int, values []field) (Match, bool) {
	best := Match{}
	found := false
	for i, f := range values {
		errs, spans, ok := locate(p, f.lower, maxErrors)
		if !ok {
			continue
		}
		spans = idx.keepLongSpans(spans)
		if len(spans) == 0 {
			continue
		}
		score := float64(errs) / float64(len(p))
		if !found || score < best.Score {
			best = Match{Value: f.raw, ArrayIndex: i, Score: score, Spans: spans}
			found = true
		}
	}
	return best, found
}

func (idx *Index[T]) keepLongSpans(spans []Span) []Span {
	if idx.opts.MinMatchCharLength <= 1 {
		return spans
	}
	out := spans[:0]
	for _, s := range spans {
		if s.Len() >= idx.opts.MinMatchCharLength {
			out = append(out, s)
		}
	}
	return out
}

func positive(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}

// fieldNorm is 1/sqrt(token count) rounded to three decimals.
func fieldNorm(s string) float64 {
	n := len(strings.Fields(s))
	if n == 0 {
		n = 1
	}
	return math.Round(1000/math.Sqrt(float64(n))) / 1000
}

// lowerRunes lowercases rune by rune so offsets line up with the original text.
func lowerRunes(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}
