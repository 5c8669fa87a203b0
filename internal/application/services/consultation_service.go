package services

import (
	"context"
	"strings"

	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/providers"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"github.com/wecare/healthtracker/internal/infrastructure/observability"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// MedicalContextBuilder builds the medical context of one user
type MedicalContextBuilder interface {
	BuildContext(ctx context.Context, userID int64) (*entities.MedicalContext, error)
}

// ConsultationService handles AI consultation requests
type ConsultationService struct {
	contextBuilder   MedicalContextBuilder
	generator        providers.ConsultationGenerator
	consultationRepo repositories.ConsultationRepository
	writes           WriteObserver
	metrics          *observability.Metrics
}

// NewConsultationService creates a new consultation service
func NewConsultationService(
	contextBuilder MedicalContextBuilder,
	generator providers.ConsultationGenerator,
	consultationRepo repositories.ConsultationRepository,
	writes WriteObserver,
	metrics *observability.Metrics,
) *ConsultationService {
	return &ConsultationService{
		contextBuilder:   contextBuilder,
		generator:        generator,
		consultationRepo: consultationRepo,
		writes:           writes,
		metrics:          metrics,
	}
}

// RequestConsultation validates the request, aggregates the user's medical
// context, renders the prompt, generates advice and appends the consultation.
// Validation runs before any read and a missing user aborts before any write.
func (s *ConsultationService) RequestConsultation(ctx context.Context, req *entities.ConsultationRequest) (*entities.ConsultationResult, error) {
	ctx, span := observability.StartSpan(ctx, "ConsultationService.RequestConsultation")
	defer span.End()

	symptoms := strings.TrimSpace(req.Symptoms)
	if req.UserID <= 0 || symptoms == "" {
		return nil, apperrors.NewValidationError("User ID and symptoms are required")
	}

	observability.SetSpanAttributes(span,
		attribute.Int64("user.id", req.UserID),
		attribute.String("consultation.type", req.ConsultationType.String()),
	)
	logger := observability.LoggerFromContext(ctx)

	mc, err := s.contextBuilder.BuildContext(ctx, req.UserID)
	if err != nil {
		observability.RecordError(span, err)
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("User not found")
		}
		return nil, err
	}

	prompt := BuildPrompt(symptoms, req.ConsultationType, mc)

	advice, err := s.generator.Generate(ctx, symptoms, prompt)
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewExternalError("failed to generate consultation", err)
	}
	if advice.Degraded {
		logger.Warn().Int64("user_id", req.UserID).Msg("Consultation answered with placeholder response")
	}

	consultation := &entities.Consultation{
		UserID:           req.UserID,
		Symptoms:         symptoms,
		ConsultationType: req.ConsultationType,
		Prompt:           prompt,
		AIResponse:       advice.Response,
		ConfidenceScore:  advice.ConfidenceScore,
	}
	if err := s.consultationRepo.Create(ctx, consultation); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	notifyWrite(s.writes, repositories.CollectionConsultations, consultation.UserID)

	observability.RecordConsultation(ctx, s.metrics, consultation.ConsultationType.String())
	logger.Info().
		Int64("user_id", consultation.UserID).
		Int64("consultation_id", consultation.ID).
		Str("consultation_type", consultation.ConsultationType.String()).
		Msg("Consultation recorded")

	return &entities.ConsultationResult{
		Consultation:   consultation,
		MedicalContext: mc,
	}, nil
}
