package repositories

import (
	"context"

	"github.com/wecare/healthtracker/internal/domain/entities"
)

// MedicationFilter filters medications by equality on the supplied fields
type MedicationFilter struct {
	UserID   *int64
	IsActive *bool
}

// MedicationRepository defines the interface for medication operations
type MedicationRepository interface {
	// Create inserts a medication and fills in generated fields
	Create(ctx context.Context, medication *entities.Medication) error

	// List retrieves medications matching filter, newest first
	List(ctx context.Context, filter MedicationFilter) ([]*entities.Medication, error)
}
