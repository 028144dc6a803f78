package posts

import (
	"context"

	"github.com/sujalbistaa/inkpost/internal/models"
)

// Service defines the business logic interface for posts
type Service interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (*PostView, error)

	// ListPosts returns every post newest first, fully joined where possible
	ListPosts(ctx context.Context) ([]*PostView, error)

	ListByAuthor(ctx context.Context, authorID string) ([]*PostView, error)
	GetPost(ctx context.Context, id string) (*PostView, error)

	// UpdatePost applies a partial update restricted to AllowedUpdates
	UpdatePost(ctx context.Context, id, requesterID string, fields map[string]interface{}) (*PostView, error)

	DeletePost(ctx context.Context, id, requesterID string) error

	// ToggleLike adds the requester to the like set, or removes them if present
	ToggleLike(ctx context.Context, id, requesterID string) (*PostView, error)
}

// Repository defines the data access interface for posts
type Repository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)

	// List returns posts ordered by creation time, newest first
	List(ctx context.Context) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error)

	Update(ctx context.Context, post *models.Post) error

	// Delete removes the post together with its comments and likes
	Delete(ctx context.Context, id string) error

	// ToggleLike flips userID's membership in the like set and reports the new state
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)

	// LikesFor returns the liking user ids of each post
	LikesFor(ctx context.Context, postIDs []string) (map[string][]string, error)
}

// CommentReader resolves the comments of posts, in creation order
type CommentReader interface {
	ListByPosts(ctx context.Context, postIDs []string) (map[string][]*models.Comment, error)
}

// UserReader resolves user ids to records. Unknown ids are absent from the map.
type UserReader interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}
