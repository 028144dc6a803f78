package users

import (
	"context"

	"github.com/sujalbistaa/inkpost/internal/models"
)

// Service defines account operations behind the /auth endpoints
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*Profile, error)
	ChangePassword(ctx context.Context, id string, req ChangePasswordRequest) error
}

// Repository defines the data access interface for users
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// TokenIssuer signs session tokens for a user id
type TokenIssuer interface {
	Issue(userID string) (string, error)
}
