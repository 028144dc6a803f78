package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sujalbistaa/inkpost/internal/core/comments"
	"github.com/sujalbistaa/inkpost/internal/models"
)

// CommentRepository stores comments with GORM
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts the comment and bumps the parent post's updated_at. The
// post update doubles as the existence check inside the transaction.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", comment.PostID).UpdateColumn("updated_at", time.Now())
		if res.Error != nil {
			return fmt.Errorf("failed to touch post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return comments.ErrPostNotFound
		}

		if err := tx.Create(comment).Error; err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}
		return nil
	})
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, comments.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	return &comment, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return comments.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	var rows []*models.Comment
	if err := r.creationOrder(ctx).Where("post_id = ?", postID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return rows, nil
}

// ListByPosts groups the comments of several posts by post id.
func (r *CommentRepository) ListByPosts(ctx context.Context, postIDs []string) (map[string][]*models.Comment, error) {
	grouped := make(map[string][]*models.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return grouped, nil
	}

	var rows []*models.Comment
	if err := r.creationOrder(ctx).Where("post_id IN ?", postIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	for _, c := range rows {
		grouped[c.PostID] = append(grouped[c.PostID], c)
	}
	return grouped, nil
}

func (r *CommentRepository) creationOrder(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("created_at asc, id asc")
}
