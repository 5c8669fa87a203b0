package repositories

import (
	"context"

	"github.com/wecare/healthtracker/internal/domain/entities"
)

// DefaultConsultationLimit is the page size when no limit is requested
const DefaultConsultationLimit = 20

// ConsultationFilter narrows a consultation listing to one user
type ConsultationFilter struct {
	UserID int64
	Limit  int
}

// ConsultationRepository defines the interface for consultation operations.
// Consultations are append-only: there is no update or delete.
type ConsultationRepository interface {
	// Create inserts a consultation and fills in generated fields
	Create(ctx context.Context, consultation *entities.Consultation) error

	// List retrieves a user's consultations newest first
	List(ctx context.Context, filter ConsultationFilter) ([]*entities.Consultation, error)
}
