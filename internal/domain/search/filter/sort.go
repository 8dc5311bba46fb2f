package filter

// SortBy is the field results are ordered by.
type SortBy string

// Sort field constants.
const (
	// SortRelevance orders by match quality.
	SortRelevance SortBy = "relevance"
	SortDate      SortBy = "date"
	SortTitle     SortBy = "title"
)

// IsValid checks if the sort field is one of the supported values.
func (s SortBy) IsValid() bool {
	return s == SortRelevance || s == SortDate || s == SortTitle
}

// SortOrder is the direction applied to the sort comparison.
type SortOrder string

// Sort order constants.
const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// IsValid checks if the order is asc or desc.
func (o SortOrder) IsValid() bool {
	return o == OrderAsc || o == OrderDesc
}
