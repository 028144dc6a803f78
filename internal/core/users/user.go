package users

import (
	"time"

	"github.com/sujalbistaa/inkpost/internal/models"
)

// Identity is the public face of a user embedded in posts and comments.
type Identity struct {
	ID       string  `json:"_id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

// Profile is what a user sees about themselves.
type Profile struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRequest carries a new account's details.
type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=30"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6,max=72"`
	Avatar   *string `json:"avatar" binding:"omitempty,url"`
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest changes username and/or avatar. Nil fields are left alone.
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=30"`
	Avatar   *string `json:"avatar" binding:"omitempty,url"`
}

// ChangePasswordRequest replaces the password after checking the current one.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=72"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

// IdentityOf projects a stored user onto its public identity.
func IdentityOf(u *models.User) *Identity {
	if u == nil {
		return nil
	}
	return &Identity{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// ProfileOf projects a stored user onto its private profile.
func ProfileOf(u *models.User) *Profile {
	if u == nil {
		return nil
	}
	return &Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}
