package services

import (
	"context"
	"strings"

	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// MedicationService records medications
type MedicationService struct {
	repo   repositories.MedicationRepository
	writes WriteObserver
}

// NewMedicationService creates a new medication service
func NewMedicationService(repo repositories.MedicationRepository, writes WriteObserver) *MedicationService {
	return &MedicationService{repo: repo, writes: writes}
}

// Add records a new, active medication
func (s *MedicationService) Add(ctx context.Context, medication *entities.Medication) error {
	medication.MedicationName = strings.TrimSpace(medication.MedicationName)
	if medication.UserID <= 0 || medication.MedicationName == "" {
		return apperrors.NewValidationError("User ID and medication name are required")
	}
	medication.IsActive = true
	if err := s.repo.Create(ctx, medication); err != nil {
		return err
	}
	notifyWrite(s.writes, repositories.CollectionMedications, medication.UserID)
	return nil
}
