package services

import (
	"context"
	"strings"

	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// UserService handles user profile registration
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a user profile
func (s *UserService) Register(ctx context.Context, user *entities.User) error {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(user.Email)
	if user.Name == "" || user.Email == "" {
		return apperrors.NewValidationError("Name and email are required")
	}
	return s.repo.Create(ctx, user)
}
