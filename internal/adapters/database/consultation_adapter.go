package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"github.com/wecare/healthtracker/internal/infrastructure/clients/postgres"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// ConsultationAdapter implements the ConsultationRepository interface
type ConsultationAdapter struct {
	client *postgres.Client
}

// NewConsultationAdapter creates a new consultation adapter
func NewConsultationAdapter(client *postgres.Client) repositories.ConsultationRepository {
	return &ConsultationAdapter{client: client}
}

// Create appends a consultation
func (a *ConsultationAdapter) Create(ctx context.Context, consultation *entities.Consultation) error {
	record := goqu.Record{
		"user_id":           consultation.UserID,
		"symptoms":          consultation.Symptoms,
		"consultation_type": consultation.ConsultationType.String(),
		"prompt":            consultation.Prompt,
		"ai_response":       consultation.AIResponse,
		"confidence_score":  consultation.ConfidenceScore,
	}

	query, args, err := dialect.Insert(tableConsultations).
		Rows(record).
		Returning(consultationColumns...).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	created, err := scanConsultation(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		return apperrors.NewInternalError("failed to create consultation", err)
	}

	*consultation = *created
	return nil
}

// List retrieves a user's consultations newest first
func (a *ConsultationAdapter) List(ctx context.Context, filter repositories.ConsultationFilter) ([]*entities.Consultation, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = repositories.DefaultConsultationLimit
	}

	query, args, err := dialect.Select(consultationColumns...).
		From(tableConsultations).
		Where(goqu.Ex{"user_id": filter.UserID}).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list consultations", err)
	}
	defer rows.Close()

	consultations := make([]*entities.Consultation, 0)
	for rows.Next() {
		consultation, err := scanConsultation(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan consultation", err)
		}
		consultations = append(consultations, consultation)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate consultations", err)
	}

	return consultations, nil
}
