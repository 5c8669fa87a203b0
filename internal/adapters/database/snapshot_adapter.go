package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/doug-martin/goqu/v9"
	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"github.com/wecare/healthtracker/internal/infrastructure/clients/postgres"
	"github.com/wecare/healthtracker/internal/infrastructure/observability"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// SnapshotAdapter implements MedicalSnapshotter on a read-only
// repeatable-read transaction
type SnapshotAdapter struct {
	client *postgres.Client
}

// NewSnapshotAdapter creates a new snapshot adapter
func NewSnapshotAdapter(client *postgres.Client) repositories.MedicalSnapshotter {
	return &SnapshotAdapter{client: client}
}

// WithSnapshot runs fn against a reader bound to one transaction. The
// transaction is always rolled back; it never writes.
func (a *SnapshotAdapter) WithSnapshot(ctx context.Context, fn func(ctx context.Context, reader repositories.SnapshotReader) error) error {
	tx, err := a.client.BeginSnapshot(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin snapshot", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			observability.LoggerFromContext(ctx).Warn().Err(rbErr).Msg("snapshot rollback failed")
		}
	}()

	return fn(ctx, &snapshotReader{tx: tx})
}

// snapshotReader serializes statements: a pq connection runs one statement
// at a time, and each list drains its rows before releasing the lock.
type snapshotReader struct {
	mu sync.Mutex
	tx *sql.Tx
}

func (r *snapshotReader) User(ctx context.Context, userID int64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return getUser(ctx, r.tx, userID)
}

func (r *snapshotReader) ActiveMedications(ctx context.Context, userID int64) ([]*entities.Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	active := true
	return listMedications(ctx, r.tx, repositories.MedicationFilter{UserID: &userID, IsActive: &active})
}

func (r *snapshotReader) RecentVitalSigns(ctx context.Context, userID int64, limit int) ([]*entities.VitalSign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return listVitalSigns(ctx, r.tx, repositories.VitalSignFilter{UserID: &userID, Limit: limit})
}

func (r *snapshotReader) RecentMedicalRecords(ctx context.Context, userID int64, limit int) ([]*entities.MedicalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, args, err := dialect.Select(medicalRecordColumns...).
		From(tableMedicalRecords).
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("date_recorded").Desc(), goqu.I("id").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build medical record query", err)
	}

	rows, err := r.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list medical records", err)
	}
	defer rows.Close()

	records := make([]*entities.MedicalRecord, 0)
	for rows.Next() {
		record, err := scanMedicalRecord(rows)
		if err != nil {
			return nil, apperrors.NewInternalError(fmt.Sprintf("failed to scan medical record for user %d", userID), err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate medical records", err)
	}
	return records, nil
}
