package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sujalbistaa/inkpost/internal/core/users"
	"github.com/sujalbistaa/inkpost/internal/models"
)

// UserRepository stores accounts with GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return users.ErrUserExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

// GetByIDs returns the users that exist among ids, keyed by id.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	found := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var rows []*models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range rows {
		found[u.ID] = u
	}
	return found, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isDuplicate(err) {
			return users.ErrUserExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}
