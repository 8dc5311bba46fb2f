// Package querystring converts a search query and its filters to and from a URL query string.
package querystring

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/techish-thoughts/blogsearch/internal/domain/search/filter"
)

// URL keys.
const (
	KeyQuery      = "q"
	KeyTags       = "tags"
	KeyAuthors    = "authors"
	KeyCategories = "categories"
	KeyFrom       = "from"
	KeyTo         = "to"
	KeySort       = "sort"
	KeyOrder      = "order"
)

const dateOnly = "2006-01-02"

// Encode serializes a query and filters. Empty values are omitted.
// Set-valued filters are comma-joined; dates use RFC 3339, or the bare
// date when the bound falls on a day boundary.
func Encode(query string, f filter.Filters) string {
	v := url.Values{}
	if query != "" {
		v.Set(KeyQuery, query)
	}
	if len(f.Tags) > 0 {
		v.Set(KeyTags, strings.Join(f.Tags, ","))
	}
	if len(f.Authors) > 0 {
		v.Set(KeyAuthors, strings.Join(f.Authors, ","))
	}
	if len(f.Categories) > 0 {
		v.Set(KeyCategories, strings.Join(f.Categories, ","))
	}
	if f.DateFrom != nil {
		v.Set(KeyFrom, formatBound(*f.DateFrom, false))
	}
	if f.DateTo != nil {
		v.Set(KeyTo, formatBound(*f.DateTo, true))
	}
	if f.SortBy != "" {
		v.Set(KeySort, string(f.SortBy))
	}
	if f.SortOrder != "" {
		v.Set(KeyOrder, string(f.SortOrder))
	}
	return v.Encode()
}

// Parse decodes a query string produced by Encode (a leading "?" is allowed).
// Missing or unknown sort values default to relevance/desc; unparseable
// dates are ignored. A date-only "to" bound covers the whole day.
func Parse(raw string) (string, filter.Filters) {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return "", filter.Filters{SortBy: filter.SortRelevance, SortOrder: filter.OrderDesc}
	}
	return FromValues(v)
}

// FromValues decodes already-parsed URL values.
func FromValues(v url.Values) (string, filter.Filters) {
	f := filter.Filters{
		Tags:       splitList(v.Get(KeyTags)),
		Authors:    splitList(v.Get(KeyAuthors)),
		Categories: splitList(v.Get(KeyCategories)),
		SortBy:     filter.SortBy(v.Get(KeySort)),
		SortOrder:  filter.SortOrder(v.Get(KeyOrder)),
	}
	if t, ok := ParseDate(v.Get(KeyFrom), false); ok {
		f.DateFrom = &t
	}
	if t, ok := ParseDate(v.Get(KeyTo), true); ok {
		f.DateTo = &t
	}
	if !f.SortBy.IsValid() {
		f.SortBy = filter.SortRelevance
	}
	if !f.SortOrder.IsValid() {
		f.SortOrder = filter.OrderDesc
	}
	return v.Get(KeyQuery), f
}

// Decode is the strict form of FromValues used for client requests: unknown
// sort values, unparseable dates and filters that fail filter.Filters
// validation are reported instead of dropped.
func Decode(v url.Values) (string, filter.Filters, error) {
	from, err := strictDate(v, KeyFrom, false)
	if err != nil {
		return "", filter.Filters{}, err
	}
	to, err := strictDate(v, KeyTo, true)
	if err != nil {
		return "", filter.Filters{}, err
	}
	f, err := filter.New(
		splitList(v.Get(KeyTags)),
		splitList(v.Get(KeyAuthors)),
		splitList(v.Get(KeyCategories)),
		from, to,
		filter.SortBy(strings.TrimSpace(v.Get(KeySort))),
		filter.SortOrder(strings.TrimSpace(v.Get(KeyOrder))),
	)
	if err != nil {
		return "", filter.Filters{}, err //nolint:wrapcheck // filter errors name the parameter
	}
	return v.Get(KeyQuery), f, nil
}

func strictDate(v url.Values, key string, endOfDay bool) (*time.Time, error) {
	raw := v.Get(key)
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, ok := ParseDate(raw, endOfDay)
	if !ok {
		return nil, fmt.Errorf("invalid %s date %q (want YYYY-MM-DD or RFC 3339)", key, raw)
	}
	return &t, nil
}

// ParseDate accepts RFC 3339 or YYYY-MM-DD. With endOfDay set, a bare date
// resolves to the last nanosecond of that day.
func ParseDate(s string, endOfDay bool) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}

func formatBound(t time.Time, endOfDay bool) string {
	t = t.UTC()
	if endOfDay && t.Equal(truncateDay(t).Add(24*time.Hour-time.Nanosecond)) {
		return t.Format(dateOnly)
	}
	if !endOfDay && t.Equal(truncateDay(t)) {
		return t.Format(dateOnly)
	}
	return t.Format(time.RFC3339)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// splitList splits a comma-joined set, trimming items and dropping empty ones.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
