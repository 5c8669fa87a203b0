package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wecare/healthtracker/internal/application/services"
	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"github.com/wecare/healthtracker/internal/query/loaders"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// Mocks

type MockContextBuilder struct {
	mock.Mock
}

func (m *MockContextBuilder) BuildContext(ctx context.Context, userID int64) (*entities.MedicalContext, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MedicalContext), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, symptoms, prompt string) (*entities.GeneratedAdvice, error) {
	args := m.Called(ctx, symptoms, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GeneratedAdvice), args.Error(1)
}

type MockConsultationRepository struct {
	mock.Mock
}

func (m *MockConsultationRepository) Create(ctx context.Context, consultation *entities.Consultation) error {
	args := m.Called(ctx, consultation)
	return args.Error(0)
}

func (m *MockConsultationRepository) List(ctx context.Context, filter repositories.ConsultationFilter) ([]*entities.Consultation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Consultation), args.Error(1)
}

func appMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}

// Tests

func TestConsultationService_RequestConsultation(t *testing.T) {
	ctx := context.Background()

	t.Run("persists prompt and advice", func(t *testing.T) {
		builder := new(MockContextBuilder)
		generator := new(MockGenerator)
		repo := new(MockConsultationRepository)
		gens := loaders.NewGenerations()
		service := services.NewConsultationService(builder, generator, repo, gens, nil)

		mc := &entities.MedicalContext{CurrentMedications: []string{}}
		builder.On("BuildContext", mock.Anything, int64(1)).Return(mc, nil)
		generator.On("Generate", mock.Anything, "mild headache", mock.MatchedBy(func(prompt string) bool {
			return strings.Contains(prompt, "Known Conditions: None reported")
		})).Return(&entities.GeneratedAdvice{Response: "Rest and hydrate.", ConfidenceScore: 0.85}, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Consultation) bool {
			return c.UserID == 1 &&
				c.ConsultationType == entities.ConsultationGeneral &&
				c.AIResponse == "Rest and hydrate." &&
				c.ConfidenceScore == 0.85 &&
				strings.Contains(c.Prompt, "general health advice")
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*entities.Consultation).ID = 12
		}).Return(nil)

		result, err := service.RequestConsultation(ctx, &entities.ConsultationRequest{UserID: 1, Symptoms: "  mild headache "})
		require.NoError(t, err)

		assert.Equal(t, int64(12), result.Consultation.ID)
		assert.Same(t, mc, result.MedicalContext)
		assert.Equal(t, uint64(1), gens.Current(repositories.CollectionConsultations, 1))
		builder.AssertExpectations(t)
		generator.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("validation happens before any read", func(t *testing.T) {
		builder := new(MockContextBuilder)
		generator := new(MockGenerator)
		repo := new(MockConsultationRepository)
		service := services.NewConsultationService(builder, generator, repo, nil, nil)

		for _, req := range []*entities.ConsultationRequest{
			{UserID: 0, Symptoms: "cough"},
			{UserID: 1, Symptoms: "   "},
		} {
			_, err := service.RequestConsultation(ctx, req)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, "User ID and symptoms are required", appMessage(err))
		}

		builder.AssertNotCalled(t, "BuildContext", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown user aborts before any write", func(t *testing.T) {
		builder := new(MockContextBuilder)
		generator := new(MockGenerator)
		repo := new(MockConsultationRepository)
		service := services.NewConsultationService(builder, generator, repo, nil, nil)

		builder.On("BuildContext", mock.Anything, int64(404)).Return(nil, apperrors.NewNotFoundError("user with id 404 not found"))

		_, err := service.RequestConsultation(ctx, &entities.ConsultationRequest{UserID: 404, Symptoms: "fever"})
		assert.True(t, apperrors.IsNotFound(err))
		assert.Equal(t, "User not found", appMessage(err))
		generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("persistence failures propagate", func(t *testing.T) {
		builder := new(MockContextBuilder)
		generator := new(MockGenerator)
		repo := new(MockConsultationRepository)
		service := services.NewConsultationService(builder, generator, repo, nil, nil)

		builder.On("BuildContext", mock.Anything, int64(1)).Return(&entities.MedicalContext{}, nil)
		generator.On("Generate", mock.Anything, mock.Anything, mock.Anything).
			Return(&entities.GeneratedAdvice{Response: "ok", ConfidenceScore: 0.5}, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(apperrors.NewInternalError("failed to create consultation", assert.AnError))

		_, err := service.RequestConsultation(ctx, &entities.ConsultationRequest{UserID: 1, Symptoms: "fever", ConsultationType: entities.ConsultationDoctorAdvice})
		assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(err))
	})
}
