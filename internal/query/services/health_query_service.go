package services

import (
	"context"

	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"github.com/wecare/healthtracker/internal/query/loaders"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// HealthQueryService handles read-only listing operations. Concurrent
// identical listings share one repository call through the loaders.
type HealthQueryService struct {
	loaders  *loaders.Loaders
	userRepo repositories.UserRepository
}

// NewHealthQueryService creates a new health query service
func NewHealthQueryService(l *loaders.Loaders, userRepo repositories.UserRepository) *HealthQueryService {
	return &HealthQueryService{
		loaders:  l,
		userRepo: userRepo,
	}
}

// ListVitalSigns returns vital signs newest first
func (s *HealthQueryService) ListVitalSigns(ctx context.Context, filter repositories.VitalSignFilter) ([]*entities.VitalSign, error) {
	return s.loaders.VitalSignLoader.Load(ctx, loaders.VitalSignKeyFor(filter))()
}

// ListMedications returns medications matching the filter, newest first
func (s *HealthQueryService) ListMedications(ctx context.Context, filter repositories.MedicationFilter) ([]*entities.Medication, error) {
	return s.loaders.MedicationLoader.Load(ctx, loaders.MedicationKeyFor(filter))()
}

// ListConsultations returns a user's consultations newest first
func (s *HealthQueryService) ListConsultations(ctx context.Context, filter repositories.ConsultationFilter) ([]*entities.Consultation, error) {
	if filter.UserID <= 0 {
		return nil, apperrors.NewValidationError("User ID is required")
	}
	return s.loaders.ConsultationLoader.Load(ctx, loaders.ConsultationKeyFor(filter))()
}

// GetUserByEmail returns the user with email, or nil when there is none
func (s *HealthQueryService) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

// ListUsers returns every user
func (s *HealthQueryService) ListUsers(ctx context.Context) ([]*entities.User, error) {
	return s.userRepo.List(ctx)
}
