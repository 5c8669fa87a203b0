package repositories

import (
	"context"

	"github.com/wecare/healthtracker/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create inserts a user and fills in generated fields
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// GetByEmail retrieves a user by email; returns nil, nil when absent
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// List retrieves all users, newest first
	List(ctx context.Context) ([]*entities.User, error)
}
