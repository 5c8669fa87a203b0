package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"github.com/wecare/healthtracker/internal/query/loaders"
	"github.com/wecare/healthtracker/internal/query/services"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// Mocks

type MockVitalSignRepository struct {
	mock.Mock
}

func (m *MockVitalSignRepository) Create(ctx context.Context, vital *entities.VitalSign) error {
	return m.Called(ctx, vital).Error(0)
}

func (m *MockVitalSignRepository) List(ctx context.Context, filter repositories.VitalSignFilter) ([]*entities.VitalSign, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.VitalSign), args.Error(1)
}

type MockMedicationRepository struct {
	mock.Mock
}

func (m *MockMedicationRepository) Create(ctx context.Context, medication *entities.Medication) error {
	return m.Called(ctx, medication).Error(0)
}

func (m *MockMedicationRepository) List(ctx context.Context, filter repositories.MedicationFilter) ([]*entities.Medication, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Medication), args.Error(1)
}

type MockConsultationRepository struct {
	mock.Mock
}

func (m *MockConsultationRepository) Create(ctx context.Context, consultation *entities.Consultation) error {
	return m.Called(ctx, consultation).Error(0)
}

func (m *MockConsultationRepository) List(ctx context.Context, filter repositories.ConsultationFilter) ([]*entities.Consultation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Consultation), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

type fixture struct {
	vitals        *MockVitalSignRepository
	medications   *MockMedicationRepository
	consultations *MockConsultationRepository
	users         *MockUserRepository
	service       *services.HealthQueryService
}

func newFixture(wait time.Duration) *fixture {
	f := &fixture{
		vitals:        new(MockVitalSignRepository),
		medications:   new(MockMedicationRepository),
		consultations: new(MockConsultationRepository),
		users:         new(MockUserRepository),
	}
	l := loaders.NewLoaders(f.vitals, f.medications, f.consultations, nil, wait)
	f.service = services.NewHealthQueryService(l, f.users)
	return f
}

// Tests

func TestHealthQueryService_ListVitalSigns(t *testing.T) {
	userID := int64(1)

	t.Run("applies the default limit", func(t *testing.T) {
		f := newFixture(time.Millisecond)
		f.vitals.On("List", mock.Anything, repositories.VitalSignFilter{UserID: &userID, Limit: 50}).
			Return([]*entities.VitalSign{{ID: 1, UserID: userID}}, nil).Once()

		vitals, err := f.service.ListVitalSigns(context.Background(), repositories.VitalSignFilter{UserID: &userID})
		require.NoError(t, err)
		assert.Len(t, vitals, 1)
		f.vitals.AssertExpectations(t)
	})

	t.Run("coalesces concurrent identical reads", func(t *testing.T) {
		f := newFixture(50 * time.Millisecond)
		filter := repositories.VitalSignFilter{UserID: &userID, Limit: 30}
		f.vitals.On("List", mock.Anything, filter).
			Return([]*entities.VitalSign{{ID: 7, UserID: userID}}, nil).Once()

		var wg sync.WaitGroup
		results := make([][]*entities.VitalSign, 4)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				vitals, err := f.service.ListVitalSigns(context.Background(), filter)
				assert.NoError(t, err)
				results[i] = vitals
			}(i)
		}
		wg.Wait()

		for _, vitals := range results {
			require.Len(t, vitals, 1)
			assert.Equal(t, int64(7), vitals[0].ID)
		}
		f.vitals.AssertNumberOfCalls(t, "List", 1)
	})

	t.Run("does not memoize between reads", func(t *testing.T) {
		f := newFixture(time.Millisecond)
		filter := repositories.VitalSignFilter{UserID: &userID, Limit: 5}
		f.vitals.On("List", mock.Anything, filter).Return([]*entities.VitalSign{}, nil).Once()
		f.vitals.On("List", mock.Anything, filter).Return([]*entities.VitalSign{{ID: 2}}, nil).Once()

		first, err := f.service.ListVitalSigns(context.Background(), filter)
		require.NoError(t, err)
		second, err := f.service.ListVitalSigns(context.Background(), filter)
		require.NoError(t, err)

		assert.Empty(t, first)
		assert.Len(t, second, 1)
		f.vitals.AssertExpectations(t)
	})
}

func TestHealthQueryService_ListMedications(t *testing.T) {
	f := newFixture(time.Millisecond)
	userID := int64(3)
	active := true
	filter := repositories.MedicationFilter{UserID: &userID, IsActive: &active}

	f.medications.On("List", mock.Anything, filter).Return(nil, assert.AnError).Once()

	_, err := f.service.ListMedications(context.Background(), filter)
	assert.ErrorIs(t, err, assert.AnError)
	f.medications.AssertExpectations(t)
}

func TestHealthQueryService_ListConsultations(t *testing.T) {
	f := newFixture(time.Millisecond)
	f.consultations.On("List", mock.Anything, repositories.ConsultationFilter{UserID: 2, Limit: 20}).
		Return([]*entities.Consultation{{ID: 1, UserID: 2}}, nil).Once()

	consultations, err := f.service.ListConsultations(context.Background(), repositories.ConsultationFilter{UserID: 2, Limit: -1})
	require.NoError(t, err)
	assert.Len(t, consultations, 1)
	f.consultations.AssertExpectations(t)

	_, err = f.service.ListConsultations(context.Background(), repositories.ConsultationFilter{})
	assert.True(t, apperrors.IsValidation(err))
	f.consultations.AssertNumberOfCalls(t, "List", 1)
}

func TestHealthQueryService_GetUserByEmail(t *testing.T) {
	f := newFixture(time.Millisecond)
	f.users.On("GetByEmail", mock.Anything, "none@example.com").Return(nil, nil).Once()

	user, err := f.service.GetUserByEmail(context.Background(), "none@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}
