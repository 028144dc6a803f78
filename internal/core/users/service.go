package users

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sujalbistaa/inkpost/internal/models"
)

const maxPasswordBytes = 72

type userService struct {
	repo       Repository
	tokens     TokenIssuer
	bcryptCost int
}

// NewUserService creates a new user service
func NewUserService(repo Repository, tokens TokenIssuer) Service {
	return &userService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := checkPasswordLength(req.Password); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Avatar:   req.Avatar,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[USER-REGISTER] user=%s username=%s", user.ID, user.Username)
	return s.authResponse(user)
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if !models.IsValidID(id) {
		return nil, ErrUserNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*Profile, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != user.Username {
			existing, err := s.repo.GetByUsername(ctx, username)
			if err == nil && existing.ID != user.ID {
				return nil, ErrUserExists
			}
			if err != nil && !IsNotFound(err) {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			user.Username = username
		}
	}
	if req.Avatar != nil {
		avatar := strings.TrimSpace(*req.Avatar)
		if avatar == "" {
			user.Avatar = nil
		} else {
			user.Avatar = &avatar
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ProfileOf(user), nil
}

func (s *userService) ChangePassword(ctx context.Context, id string, req ChangePasswordRequest) error {
	if err := checkPasswordLength(req.NewPassword); err != nil {
		return err
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)

	return s.repo.Update(ctx, user)
}

func (s *userService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	return nil
}

func (s *userService) authResponse(user *models.User) (*AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResponse{Token: token, User: ProfileOf(user)}, nil
}

// checkPasswordLength enforces bcrypt's input limit, which is in bytes.
func checkPasswordLength(password string) error {
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
