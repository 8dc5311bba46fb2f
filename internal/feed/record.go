// Package feed loads blog content from a JSON feed (the Hugo index.json
// shape) and turns it into validated articles, authors and tags.
package feed

// Record is one untrusted entry of the content feed. Field names follow the
// site generator's index.json; both the short (content, url, date) and the
// long (plainContent, permalink, publishedDate) spellings are accepted.
type Record struct {
	ID            string   `json:"id,omitempty"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug,omitempty"`
	Summary       string   `json:"summary,omitempty"`
	Content       string   `json:"content,omitempty"`
	PlainContent  string   `json:"plainContent,omitempty"`
	Author        string   `json:"author,omitempty"`
	AuthorBio     string   `json:"authorBio,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Date          string   `json:"date,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	URL           string   `json:"url,omitempty"`
	Permalink     string   `json:"permalink,omitempty"`
	ReadingTime   int      `json:"readingTime,omitempty"`
	WordCount     int      `json:"wordCount,omitempty"`
	Featured      bool     `json:"featured,omitempty"`
	Draft         bool     `json:"draft,omitempty"`
}
