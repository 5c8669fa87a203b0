package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wecare/healthtracker/internal/api/handlers"
	"github.com/wecare/healthtracker/internal/domain/entities"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserReader) ListUsers(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

type MockUserRegistrar struct {
	mock.Mock
}

func (m *MockUserRegistrar) Register(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func TestUserHandler_GetUsers(t *testing.T) {
	t.Run("unknown email answers null", func(t *testing.T) {
		reader := new(MockUserReader)
		handler := handlers.NewUserHandler(reader, new(MockUserRegistrar))

		reader.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

		req := httptest.NewRequest("GET", "/api/users?email=nobody@example.com", nil)
		w := httptest.NewRecorder()
		handler.GetUsers(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `null`, w.Body.String())
	})

	t.Run("lists every user without an email", func(t *testing.T) {
		reader := new(MockUserReader)
		handler := handlers.NewUserHandler(reader, new(MockUserRegistrar))

		reader.On("ListUsers", mock.Anything).Return([]*entities.User{{ID: 1, Name: "Ada", Email: "ada@example.com"}}, nil)

		req := httptest.NewRequest("GET", "/api/users", nil)
		w := httptest.NewRecorder()
		handler.GetUsers(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"email":"ada@example.com"`)
		reader.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})
}

func TestUserHandler_CreateUser(t *testing.T) {
	registrar := new(MockUserRegistrar)
	handler := handlers.NewUserHandler(new(MockUserReader), registrar)

	registrar.On("Register", mock.Anything, mock.MatchedBy(func(u *entities.User) bool { return u.Email == "" })).
		Return(apperrors.NewValidationError("Name and email are required"))
	registrar.On("Register", mock.Anything, mock.MatchedBy(func(u *entities.User) bool { return u.Email != "" })).
		Return(nil)

	req := httptest.NewRequest("POST", "/api/users", bytes.NewBufferString(`{"name":"Ada"}`))
	w := httptest.NewRecorder()
	handler.CreateUser(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name and email are required", decodeError(t, w))

	req = httptest.NewRequest("POST", "/api/users", bytes.NewBufferString(`{"name":"Ada","email":"ada@example.com","emergency_contact":"Bob 555-0100"}`))
	w = httptest.NewRecorder()
	handler.CreateUser(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"emergency_contact":"Bob 555-0100"`)
}
