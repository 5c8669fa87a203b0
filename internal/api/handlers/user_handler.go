package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wecare/healthtracker/internal/domain/entities"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// UserReader looks users up
type UserReader interface {
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	ListUsers(ctx context.Context) ([]*entities.User, error)
}

// UserRegistrar creates users
type UserRegistrar interface {
	Register(ctx context.Context, user *entities.User) error
}

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	reader    UserReader
	registrar UserRegistrar
}

// NewUserHandler creates a new user handler
func NewUserHandler(reader UserReader, registrar UserRegistrar) *UserHandler {
	return &UserHandler{
		reader:    reader,
		registrar: registrar,
	}
}

// GetUsers handles GET /api/users. With an email it answers the matching
// user or null, otherwise every user.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	if email := strings.TrimSpace(r.URL.Query().Get("email")); email != "" {
		user, err := h.reader.GetUserByEmail(r.Context(), email)
		if err != nil {
			respondWithFailure(w, r, http.StatusInternalServerError, "Failed to fetch users", err)
			return
		}
		respondWithJSON(w, http.StatusOK, user)
		return
	}

	users, err := h.reader.ListUsers(r.Context())
	if err != nil {
		respondWithFailure(w, r, http.StatusInternalServerError, "Failed to fetch users", err)
		return
	}

	respondWithJSON(w, http.StatusOK, users)
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user entities.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	user.ID = 0

	if err := h.registrar.Register(r.Context(), &user); err != nil {
		if apperrors.IsValidation(err) {
			respondWithError(w, http.StatusBadRequest, publicMessage(err))
			return
		}
		respondWithFailure(w, r, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}
