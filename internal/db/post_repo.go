package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sujalbistaa/inkpost/internal/core/posts"
	"github.com/sujalbistaa/inkpost/internal/models"
)

// PostRepository stores posts and their likes with GORM
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, posts.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	var rows []*models.Post
	if err := r.newestFirst(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return rows, nil
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	var rows []*models.Post
	if err := r.newestFirst(ctx).Where("author_id = ?", authorID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return rows, nil
}

func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// Delete removes the post, its comments and its likes in one transaction.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete likes: %w", err)
		}

		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return posts.ErrNotFound
		}
		return nil
	})
}

// ToggleLike removes the like if present, otherwise adds it. Concurrent
// inserts for the same pair collapse into one row.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	liked := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
		if res.Error != nil {
			return fmt.Errorf("failed to remove like: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			like := &models.PostLike{PostID: postID, UserID: userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
				return fmt.Errorf("failed to add like: %w", err)
			}
			liked = true
		}

		touched := tx.Model(&models.Post{}).Where("id = ?", postID).UpdateColumn("updated_at", time.Now())
		if touched.Error != nil {
			return fmt.Errorf("failed to touch post: %w", touched.Error)
		}
		if touched.RowsAffected == 0 {
			return posts.ErrNotFound
		}
		return nil
	})

	return liked, err
}

// LikesFor returns the liking user ids of each post, oldest like first.
func (r *PostRepository) LikesFor(ctx context.Context, postIDs []string) (map[string][]string, error) {
	likes := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return likes, nil
	}

	var rows []models.PostLike
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("created_at asc, user_id asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}

	for _, row := range rows {
		likes[row.PostID] = append(likes[row.PostID], row.UserID)
	}
	return likes, nil
}

func (r *PostRepository) newestFirst(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("created_at desc, id desc")
}
