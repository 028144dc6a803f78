package posts

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sujalbistaa/inkpost/internal/core/users"
)

// Length bounds, counted in characters.
const (
	TitleMinLength   = 5
	TitleMaxLength   = 100
	ContentMinLength = 10
)

// AllowedUpdates lists the fields UpdatePost accepts.
var AllowedUpdates = []string{"title", "content", "tags", "image"}

// PostView is a post with its author, comments and likes resolved.
type PostView struct {
	ID        string          `json:"_id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Tags      []string        `json:"tags"`
	Image     *string         `json:"image,omitempty"`
	Author    *users.Identity `json:"author"`
	Comments  []*CommentView  `json:"comments"`
	Likes     []string        `json:"likes"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// LikedBy reports whether userID is in the post's like set.
func (p *PostView) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CommentView is a comment with its author resolved. Author is nil when the
// account no longer exists.
type CommentView struct {
	ID        string          `json:"_id"`
	Content   string          `json:"content"`
	Author    *users.Identity `json:"author"`
	Post      string          `json:"post"`
	CreatedAt time.Time       `json:"createdAt"`
}

// CreatePostRequest carries the fields of a new post. Tags is comma separated.
type CreatePostRequest struct {
	Title    string
	Content  string
	Tags     string
	Image    *string
	AuthorID string
}

// ParseTags splits a comma separated list, trimming entries and dropping empty ones.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func validatePost(title, content string) error {
	verr := &ValidationError{}

	titleLen := utf8.RuneCountInString(title)
	switch {
	case titleLen == 0:
		verr.Add("title", "Title is required")
	case titleLen < TitleMinLength:
		verr.Add("title", "Title must be at least 5 characters")
	case titleLen > TitleMaxLength:
		verr.Add("title", "Title cannot exceed 100 characters")
	}

	if strings.TrimSpace(content) == "" {
		verr.Add("content", "Content is required")
	} else if utf8.RuneCountInString(content) < ContentMinLength {
		verr.Add("content", "Content must be at least 10 characters")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
