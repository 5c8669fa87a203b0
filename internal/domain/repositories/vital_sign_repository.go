package repositories

import (
	"context"

	"github.com/wecare/healthtracker/internal/domain/entities"
)

// DefaultVitalSignLimit is the page size when no limit is requested
const DefaultVitalSignLimit = 50

// VitalSignFilter narrows a vital sign listing. A nil UserID lists all users.
type VitalSignFilter struct {
	UserID *int64
	Limit  int
}

// VitalSignRepository defines the interface for vital sign operations
type VitalSignRepository interface {
	// Create inserts a vital sign record and fills in generated fields
	Create(ctx context.Context, vital *entities.VitalSign) error

	// List retrieves vital signs newest first, capped at filter.Limit
	List(ctx context.Context, filter VitalSignFilter) ([]*entities.VitalSign, error)
}
