package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"github.com/wecare/healthtracker/internal/infrastructure/clients/postgres"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// VitalSignAdapter implements the VitalSignRepository interface
type VitalSignAdapter struct {
	client *postgres.Client
}

// NewVitalSignAdapter creates a new vital sign adapter
func NewVitalSignAdapter(client *postgres.Client) repositories.VitalSignRepository {
	return &VitalSignAdapter{client: client}
}

// Create inserts a vital sign record. recorded_at is always stamped by the
// database.
func (a *VitalSignAdapter) Create(ctx context.Context, vital *entities.VitalSign) error {
	record := goqu.Record{
		"user_id":                  vital.UserID,
		"blood_pressure_systolic":  nullableInt(vital.BloodPressureSystolic),
		"blood_pressure_diastolic": nullableInt(vital.BloodPressureDiastolic),
		"heart_rate":               nullableInt(vital.HeartRate),
		"temperature":              nullableFloat(vital.Temperature),
		"weight":                   nullableFloat(vital.Weight),
		"height":                   nullableFloat(vital.Height),
		"blood_sugar":              nullableFloat(vital.BloodSugar),
	}

	query, args, err := dialect.Insert(tableVitalSigns).
		Rows(record).
		Returning(vitalSignColumns...).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	created, err := scanVitalSign(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		return apperrors.NewInternalError("failed to create vital signs", err)
	}

	*vital = *created
	return nil
}

// List retrieves vital signs newest first
func (a *VitalSignAdapter) List(ctx context.Context, filter repositories.VitalSignFilter) ([]*entities.VitalSign, error) {
	return listVitalSigns(ctx, a.client.DB(), filter)
}

func listVitalSigns(ctx context.Context, q queryer, filter repositories.VitalSignFilter) ([]*entities.VitalSign, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = repositories.DefaultVitalSignLimit
	}

	ds := dialect.Select(vitalSignColumns...).From(tableVitalSigns)
	if filter.UserID != nil {
		ds = ds.Where(goqu.Ex{"user_id": *filter.UserID})
	}
	ds = ds.Order(goqu.I("recorded_at").Desc(), goqu.I("id").Desc()).Limit(uint(limit))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list vital signs", err)
	}
	defer rows.Close()

	vitals := make([]*entities.VitalSign, 0)
	for rows.Next() {
		vital, err := scanVitalSign(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan vital sign", err)
		}
		vitals = append(vitals, vital)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate vital signs", err)
	}

	return vitals, nil
}
