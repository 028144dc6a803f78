package posts

import (
	"context"
	"fmt"

	"github.com/sujalbistaa/inkpost/internal/core/users"
	"github.com/sujalbistaa/inkpost/internal/models"
)

// joinDepth selects how much of a post is resolved on read.
type joinDepth int

const (
	// joinPartial resolves authors and likes; comments are left empty
	joinPartial joinDepth = iota
	// joinFull also resolves comments and their authors
	joinFull
)

// likeReader is the slice of Repository the joiner needs
type likeReader interface {
	LikesFor(ctx context.Context, postIDs []string) (map[string][]string, error)
}

// joiner turns stored posts into views by reading the user, comment and like
// stores. References that do not resolve are left nil, never fabricated.
type joiner struct {
	users    UserReader
	comments CommentReader
	likes    likeReader
}

func (j *joiner) join(ctx context.Context, records []*models.Post, depth joinDepth) ([]*PostView, error) {
	views := make([]*PostView, 0, len(records))
	if len(records) == 0 {
		return views, nil
	}

	postIDs := make([]string, 0, len(records))
	for _, p := range records {
		postIDs = append(postIDs, p.ID)
	}

	likes, err := j.likes.LikesFor(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}

	var comments map[string][]*models.Comment
	if depth == joinFull {
		comments, err = j.comments.ListByPosts(ctx, postIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load comments: %w", err)
		}
	}

	people, err := j.users.GetByIDs(ctx, referencedUsers(records, comments))
	if err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}

	for _, p := range records {
		view := &PostView{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			Tags:      p.Tags,
			Image:     p.Image,
			Author:    users.IdentityOf(people[p.AuthorID]),
			Comments:  []*CommentView{},
			Likes:     likes[p.ID],
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
		if view.Tags == nil {
			view.Tags = []string{}
		}
		if view.Likes == nil {
			view.Likes = []string{}
		}
		for _, c := range comments[p.ID] {
			view.Comments = append(view.Comments, NewCommentView(c, people[c.AuthorID]))
		}
		views = append(views, view)
	}

	return views, nil
}

func referencedUsers(records []*models.Post, comments map[string][]*models.Comment) []string {
	seen := make(map[string]struct{})
	ids := []string{}
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, p := range records {
		add(p.AuthorID)
		for _, c := range comments[p.ID] {
			add(c.AuthorID)
		}
	}
	return ids
}

// NewCommentView builds the view of a single comment.
func NewCommentView(c *models.Comment, author *models.User) *CommentView {
	return &CommentView{
		ID:        c.ID,
		Content:   c.Content,
		Author:    users.IdentityOf(author),
		Post:      c.PostID,
		CreatedAt: c.CreatedAt,
	}
}
