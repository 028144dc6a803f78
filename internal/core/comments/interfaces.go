package comments

import (
	"context"

	"github.com/sujalbistaa/inkpost/internal/core/posts"
	"github.com/sujalbistaa/inkpost/internal/models"
)

// Service defines the business logic interface for comments
type Service interface {
	// CreateComment appends a comment to an existing post
	CreateComment(ctx context.Context, postID, content, authorID string) (*posts.CommentView, error)

	// DeleteComment removes a comment. Allowed for the comment's author and
	// for the author of the post it belongs to.
	DeleteComment(ctx context.Context, commentID, requesterID string) (*models.Comment, error)

	ListForPost(ctx context.Context, postID string) ([]*posts.CommentView, error)
}

// Repository defines the data access interface for comments
type Repository interface {
	// Create inserts the comment and touches the parent post in one
	// transaction. Returns ErrPostNotFound if the post is gone.
	Create(ctx context.Context, comment *models.Comment) error

	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
}

// PostLookup is the slice of the post store comments need
type PostLookup interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
}
