package services

import (
	"context"

	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"github.com/wecare/healthtracker/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	contextVitalSignLimit     = 5
	contextMedicalRecordLimit = 10
	contextSymptomLimit       = 3
)

// ContextAggregator assembles the medical context of a consultation from a
// single consistent snapshot of the user's records
type ContextAggregator struct {
	snapshotter repositories.MedicalSnapshotter
}

// NewContextAggregator creates a new context aggregator
func NewContextAggregator(snapshotter repositories.MedicalSnapshotter) *ContextAggregator {
	return &ContextAggregator{snapshotter: snapshotter}
}

// BuildContext reads the user's profile, active medications, recent vitals
// and recent medical records concurrently inside one snapshot. It fails with
// a NotFound error when the user does not exist.
func (a *ContextAggregator) BuildContext(ctx context.Context, userID int64) (*entities.MedicalContext, error) {
	ctx, span := observability.StartSpan(ctx, "ContextAggregator.BuildContext")
	defer span.End()
	observability.SetSpanAttributes(span, attribute.Int64("user.id", userID))

	var (
		user        *entities.User
		medications []*entities.Medication
		vitals      []*entities.VitalSign
		records     []*entities.MedicalRecord
	)

	err := a.snapshotter.WithSnapshot(ctx, func(ctx context.Context, reader repositories.SnapshotReader) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			user, err = reader.User(gctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			medications, err = reader.ActiveMedications(gctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			vitals, err = reader.RecentVitalSigns(gctx, userID, contextVitalSignLimit)
			return err
		})
		g.Go(func() error {
			var err error
			records, err = reader.RecentMedicalRecords(gctx, userID, contextMedicalRecordLimit)
			return err
		})
		return g.Wait()
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	return assembleContext(user, medications, vitals, records), nil
}

func assembleContext(user *entities.User, medications []*entities.Medication, vitals []*entities.VitalSign, records []*entities.MedicalRecord) *entities.MedicalContext {
	mc := &entities.MedicalContext{
		Age:                user.Age,
		Gender:             user.Gender,
		BloodType:          user.BloodType,
		Allergies:          user.Allergies,
		ChronicConditions:  user.ChronicConditions,
		CurrentMedications: make([]string, 0, len(medications)),
		RecentSymptoms:     make([]entities.MedicalRecord, 0, contextSymptomLimit),
	}

	for _, medication := range medications {
		mc.CurrentMedications = append(mc.CurrentMedications, medication.Summary())
	}

	if len(vitals) > 0 {
		mc.RecentVitals = vitals[0]
	}

	for _, record := range records {
		if len(mc.RecentSymptoms) == contextSymptomLimit {
			break
		}
		if record.RecordType == entities.RecordTypeSymptom {
			mc.RecentSymptoms = append(mc.RecentSymptoms, *record)
		}
	}

	return mc
}
