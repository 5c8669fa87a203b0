package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"github.com/wecare/healthtracker/internal/infrastructure/clients/postgres"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// MedicationAdapter implements the MedicationRepository interface
type MedicationAdapter struct {
	client *postgres.Client
}

// NewMedicationAdapter creates a new medication adapter
func NewMedicationAdapter(client *postgres.Client) repositories.MedicationRepository {
	return &MedicationAdapter{client: client}
}

// Create inserts a medication. New medications are always active.
func (a *MedicationAdapter) Create(ctx context.Context, medication *entities.Medication) error {
	record := goqu.Record{
		"user_id":         medication.UserID,
		"medication_name": medication.MedicationName,
		"dosage":          nullableString(medication.Dosage),
		"frequency":       nullableString(medication.Frequency),
		"start_date":      nullableDate(medication.StartDate),
		"end_date":        nullableDate(medication.EndDate),
		"prescribed_by":   nullableString(medication.PrescribedBy),
		"notes":           nullableString(medication.Notes),
		"is_active":       true,
	}

	query, args, err := dialect.Insert(tableMedications).
		Rows(record).
		Returning(medicationColumns...).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	created, err := scanMedication(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		return apperrors.NewInternalError("failed to create medication", err)
	}

	*medication = *created
	return nil
}

// List retrieves medications matching the filter, newest first
func (a *MedicationAdapter) List(ctx context.Context, filter repositories.MedicationFilter) ([]*entities.Medication, error) {
	return listMedications(ctx, a.client.DB(), filter)
}

func listMedications(ctx context.Context, q queryer, filter repositories.MedicationFilter) ([]*entities.Medication, error) {
	ds := dialect.Select(medicationColumns...).From(tableMedications)
	if filter.UserID != nil {
		ds = ds.Where(goqu.Ex{"user_id": *filter.UserID})
	}
	if filter.IsActive != nil {
		ds = ds.Where(goqu.Ex{"is_active": *filter.IsActive})
	}
	ds = ds.Order(goqu.I("created_at").Desc(), goqu.I("id").Desc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list medications", err)
	}
	defer rows.Close()

	medications := make([]*entities.Medication, 0)
	for rows.Next() {
		medication, err := scanMedication(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan medication", err)
		}
		medications = append(medications, medication)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate medications", err)
	}

	return medications, nil
}
