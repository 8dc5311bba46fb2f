package filter

import (
	"fmt"
	"slices"
	"time"
)

// MaxValuesPerSet is the maximum number of values in one inclusion set.
const MaxValuesPerSet = 32

// Filters narrows and orders an article search.
// The zero value matches everything and sorts by relevance, best first.
type Filters struct {
	Tags       []string
	Authors    []string
	Categories []string
	DateFrom   *time.Time
	DateTo     *time.Time
	SortBy     SortBy
	SortOrder  SortOrder
}

// New validates and normalizes filters. Empty sort fields get defaults.
func New(
	tags, authors, categories []string,
	dateFrom, dateTo *time.Time,
	sortBy SortBy, sortOrder SortOrder,
) (Filters, error) {
	f := Filters{
		Tags:       tags,
		Authors:    authors,
		Categories: categories,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
		SortBy:     sortBy,
		SortOrder:  sortOrder,
	}.Normalized()
	if err := f.Validate(); err != nil {
		return Filters{}, err
	}
	return f, nil
}

// Validate checks set sizes, the date range and the sort values. Empty sort
// fields are valid and mean the defaults.
func (f Filters) Validate() error {
	if len(f.Tags) > MaxValuesPerSet {
		return fmt.Errorf("too many tags (max %d)", MaxValuesPerSet)
	}
	if len(f.Authors) > MaxValuesPerSet {
		return fmt.Errorf("too many authors (max %d)", MaxValuesPerSet)
	}
	if len(f.Categories) > MaxValuesPerSet {
		return fmt.Errorf("too many categories (max %d)", MaxValuesPerSet)
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return fmt.Errorf("date range is inverted: from %s is after to %s",
			f.DateFrom.Format(time.RFC3339), f.DateTo.Format(time.RFC3339))
	}
	if f.SortBy != "" && !f.SortBy.IsValid() {
		return fmt.Errorf("invalid sort field: %q", f.SortBy)
	}
	if f.SortOrder != "" && !f.SortOrder.IsValid() {
		return fmt.Errorf("invalid sort order: %q", f.SortOrder)
	}
	return nil
}

// Normalized returns a copy with empty sort fields replaced by the defaults.
func (f Filters) Normalized() Filters {
	if f.SortBy == "" {
		f.SortBy = SortRelevance
	}
	if f.SortOrder == "" {
		f.SortOrder = OrderDesc
	}
	return f
}

// IsEmpty reports whether no inclusion set or date bound is set.
func (f Filters) IsEmpty() bool {
	return len(f.Tags) == 0 && len(f.Authors) == 0 && len(f.Categories) == 0 &&
		f.DateFrom == nil && f.DateTo == nil
}

// Matches reports whether an article with the given attributes passes every set filter.
// Tags and categories must intersect, the author must be listed and the
// publish date must fall inside the inclusive range.
func (f Filters) Matches(tags []string, author string, categories []string, published time.Time) bool {
	if len(f.Tags) > 0 && !intersects(f.Tags, tags) {
		return false
	}
	if len(f.Authors) > 0 && !slices.Contains(f.Authors, author) {
		return false
	}
	if len(f.Categories) > 0 && !intersects(f.Categories, categories) {
		return false
	}
	if f.DateFrom != nil && published.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && published.After(*f.DateTo) {
		return false
	}
	return true
}

func intersects(want, have []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}
