package services

import (
	"context"

	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"github.com/wecare/healthtracker/internal/infrastructure/observability"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// WriteObserver is told about every committed write to a user's collection
type WriteObserver interface {
	Bump(collection string, userID int64)
}

func notifyWrite(writes WriteObserver, collection string, userID int64) {
	if writes != nil {
		writes.Bump(collection, userID)
	}
}

// VitalSignService records vital sign measurements
type VitalSignService struct {
	repo   repositories.VitalSignRepository
	writes WriteObserver
}

// NewVitalSignService creates a new vital sign service. writes may be nil.
func NewVitalSignService(repo repositories.VitalSignRepository, writes WriteObserver) *VitalSignService {
	return &VitalSignService{repo: repo, writes: writes}
}

// Record appends one measurement set for a user
func (s *VitalSignService) Record(ctx context.Context, vital *entities.VitalSign) error {
	if vital.UserID <= 0 {
		return apperrors.NewValidationError("User ID is required")
	}

	if err := s.repo.Create(ctx, vital); err != nil {
		return err
	}
	notifyWrite(s.writes, repositories.CollectionVitalSigns, vital.UserID)

	observability.LoggerFromContext(ctx).Debug().
		Int64("user_id", vital.UserID).
		Int64("vital_sign_id", vital.ID).
		Msg("Vital signs recorded")
	return nil
}
