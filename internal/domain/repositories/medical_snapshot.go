package repositories

import (
	"context"

	"github.com/wecare/healthtracker/internal/domain/entities"
)

// SnapshotReader reads one user's records from a single consistent snapshot.
// Implementations must be safe for concurrent use by the goroutines of one
// WithSnapshot callback.
type SnapshotReader interface {
	// User returns the user, or a NotFound error
	User(ctx context.Context, userID int64) (*entities.User, error)

	// ActiveMedications returns medications with is_active = true
	ActiveMedications(ctx context.Context, userID int64) ([]*entities.Medication, error)

	// RecentVitalSigns returns up to limit vital signs, newest first
	RecentVitalSigns(ctx context.Context, userID int64, limit int) ([]*entities.VitalSign, error)

	// RecentMedicalRecords returns up to limit medical records, newest first
	RecentMedicalRecords(ctx context.Context, userID int64, limit int) ([]*entities.MedicalRecord, error)
}

// MedicalSnapshotter opens read-only snapshots of the store. Reads issued
// through the reader never observe a write committed after the snapshot
// began.
type MedicalSnapshotter interface {
	WithSnapshot(ctx context.Context, fn func(ctx context.Context, reader SnapshotReader) error) error
}
