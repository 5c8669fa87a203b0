package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wecare/healthtracker/internal/api/handlers"
	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

type MockVitalSignReader struct {
	mock.Mock
}

func (m *MockVitalSignReader) ListVitalSigns(ctx context.Context, filter repositories.VitalSignFilter) ([]*entities.VitalSign, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.VitalSign), args.Error(1)
}

type MockVitalSignRecorder struct {
	mock.Mock
}

func (m *MockVitalSignRecorder) Record(ctx context.Context, vital *entities.VitalSign) error {
	return m.Called(ctx, vital).Error(0)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body["error"]
}

func int64Ptr(v int64) *int64 { return &v }

func TestVitalSignHandler_ListVitalSigns(t *testing.T) {
	t.Run("passes user and limit through", func(t *testing.T) {
		reader := new(MockVitalSignReader)
		handler := handlers.NewVitalSignHandler(reader, new(MockVitalSignRecorder))

		hr := 72
		reader.On("ListVitalSigns", mock.Anything, repositories.VitalSignFilter{UserID: int64Ptr(3), Limit: 30}).
			Return([]*entities.VitalSign{{ID: 9, UserID: 3, HeartRate: &hr}}, nil)

		req := httptest.NewRequest("GET", "/api/vital-signs?userId=3&limit=30", nil)
		w := httptest.NewRecorder()
		handler.ListVitalSigns(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var vitals []entities.VitalSign
		require.NoError(t, json.NewDecoder(w.Body).Decode(&vitals))
		require.Len(t, vitals, 1)
		assert.Equal(t, int64(9), vitals[0].ID)
		reader.AssertExpectations(t)
	})

	t.Run("invalid limit falls back to the default", func(t *testing.T) {
		reader := new(MockVitalSignReader)
		handler := handlers.NewVitalSignHandler(reader, new(MockVitalSignRecorder))

		reader.On("ListVitalSigns", mock.Anything, repositories.VitalSignFilter{Limit: 0}).
			Return([]*entities.VitalSign{}, nil)

		req := httptest.NewRequest("GET", "/api/vital-signs?limit=abc", nil)
		w := httptest.NewRecorder()
		handler.ListVitalSigns(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
		reader.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		reader := new(MockVitalSignReader)
		handler := handlers.NewVitalSignHandler(reader, new(MockVitalSignRecorder))

		reader.On("ListVitalSigns", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		req := httptest.NewRequest("GET", "/api/vital-signs?userId=1", nil)
		w := httptest.NewRecorder()
		handler.ListVitalSigns(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to fetch vital signs", decodeError(t, w))
	})

	t.Run("rejects a malformed user id", func(t *testing.T) {
		reader := new(MockVitalSignReader)
		handler := handlers.NewVitalSignHandler(reader, new(MockVitalSignRecorder))

		req := httptest.NewRequest("GET", "/api/vital-signs?userId=me", nil)
		w := httptest.NewRecorder()
		handler.ListVitalSigns(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		reader.AssertNotCalled(t, "ListVitalSigns", mock.Anything, mock.Anything)
	})
}

func TestVitalSignHandler_CreateVitalSign(t *testing.T) {
	t.Run("returns the stored record", func(t *testing.T) {
		recorder := new(MockVitalSignRecorder)
		handler := handlers.NewVitalSignHandler(new(MockVitalSignReader), recorder)

		recorder.On("Record", mock.Anything, mock.MatchedBy(func(v *entities.VitalSign) bool {
			return v.UserID == 1 && *v.BloodPressureSystolic == 120 && v.HeartRate == nil
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*entities.VitalSign).ID = 44
		}).Return(nil)

		body := `{"user_id":1,"blood_pressure_systolic":120,"blood_pressure_diastolic":80}`
		req := httptest.NewRequest("POST", "/api/vital-signs", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		handler.CreateVitalSign(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var vital map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&vital))
		assert.Equal(t, float64(44), vital["id"])
		assert.Nil(t, vital["heart_rate"])
		recorder.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		recorder := new(MockVitalSignRecorder)
		handler := handlers.NewVitalSignHandler(new(MockVitalSignReader), recorder)

		recorder.On("Record", mock.Anything, mock.Anything).Return(apperrors.NewValidationError("User ID is required"))

		req := httptest.NewRequest("POST", "/api/vital-signs", bytes.NewBufferString(`{"heart_rate":70}`))
		w := httptest.NewRecorder()
		handler.CreateVitalSign(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User ID is required", decodeError(t, w))
	})

	t.Run("store failure", func(t *testing.T) {
		recorder := new(MockVitalSignRecorder)
		handler := handlers.NewVitalSignHandler(new(MockVitalSignReader), recorder)

		recorder.On("Record", mock.Anything, mock.Anything).Return(apperrors.NewInternalError("failed to create vital sign", assert.AnError))

		req := httptest.NewRequest("POST", "/api/vital-signs", bytes.NewBufferString(`{"user_id":1}`))
		w := httptest.NewRecorder()
		handler.CreateVitalSign(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to create vital signs", decodeError(t, w))
	})

	t.Run("invalid payload", func(t *testing.T) {
		recorder := new(MockVitalSignRecorder)
		handler := handlers.NewVitalSignHandler(new(MockVitalSignReader), recorder)

		req := httptest.NewRequest("POST", "/api/vital-signs", bytes.NewBufferString("invalid-json"))
		w := httptest.NewRecorder()
		handler.CreateVitalSign(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("client supplied id and timestamp are ignored", func(t *testing.T) {
		recorder := new(MockVitalSignRecorder)
		handler := handlers.NewVitalSignHandler(new(MockVitalSignReader), recorder)

		recorder.On("Record", mock.Anything, mock.MatchedBy(func(v *entities.VitalSign) bool {
			return v.ID == 0 && v.RecordedAt.IsZero() && v.UserID == 2 && *v.HeartRate == 66
		})).Return(nil)

		body := `{"id":9,"user_id":2,"heart_rate":66,"recorded_at":"2020-01-01T00:00:00Z"}`
		req := httptest.NewRequest("POST", "/api/vital-signs", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		handler.CreateVitalSign(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		recorder.AssertExpectations(t)
	})

	t.Run("numbers must be sent as numbers", func(t *testing.T) {
		for _, body := range []string{
			`{"user_id":"1","heart_rate":70}`,
			`{"user_id":1,"heart_rate":72.5}`,
		} {
			recorder := new(MockVitalSignRecorder)
			handler := handlers.NewVitalSignHandler(new(MockVitalSignReader), recorder)

			req := httptest.NewRequest("POST", "/api/vital-signs", bytes.NewBufferString(body))
			w := httptest.NewRecorder()
			handler.CreateVitalSign(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, body)
			assert.Equal(t, "Invalid request payload", decodeError(t, w))
			recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
		}
	})
}
