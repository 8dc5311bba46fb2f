package interaction

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Comment limits.
const (
	MaxCommentLength = 2000
	MaxAuthorLength  = 80
	AnonymousAuthor  = "Anonymous"
)

// Comment is one reader comment on a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NormalizeComment trims author and content and fills in the anonymous
// author. ok is false when the content is empty or a field is too long.
func NormalizeComment(author, content string) (string, string, bool) {
	author = strings.TrimSpace(author)
	content = strings.TrimSpace(content)
	if author == "" {
		author = AnonymousAuthor
	}
	if content == "" ||
		utf8.RuneCountInString(content) > MaxCommentLength ||
		utf8.RuneCountInString(author) > MaxAuthorLength {
		return "", "", false
	}
	return author, content, true
}
