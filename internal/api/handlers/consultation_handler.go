package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// ConsultationReader lists consultations
type ConsultationReader interface {
	ListConsultations(ctx context.Context, filter repositories.ConsultationFilter) ([]*entities.Consultation, error)
}

// ConsultationRequester runs a consultation request end to end
type ConsultationRequester interface {
	RequestConsultation(ctx context.Context, req *entities.ConsultationRequest) (*entities.ConsultationResult, error)
}

// ConsultationHandler handles AI consultation HTTP requests
type ConsultationHandler struct {
	reader    ConsultationReader
	requester ConsultationRequester
}

// NewConsultationHandler creates a new consultation handler
func NewConsultationHandler(reader ConsultationReader, requester ConsultationRequester) *ConsultationHandler {
	return &ConsultationHandler{
		reader:    reader,
		requester: requester,
	}
}

// ListConsultations handles GET /api/ai-consultation
func (h *ConsultationHandler) ListConsultations(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok || userID == nil {
		respondWithError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	consultations, err := h.reader.ListConsultations(r.Context(), repositories.ConsultationFilter{
		UserID: *userID,
		Limit:  queryLimit(r),
	})
	if err != nil {
		if apperrors.IsValidation(err) {
			respondWithError(w, http.StatusBadRequest, publicMessage(err))
			return
		}
		respondWithFailure(w, r, http.StatusInternalServerError, "Failed to fetch consultations", err)
		return
	}

	respondWithJSON(w, http.StatusOK, consultations)
}

// RequestConsultation handles POST /api/ai-consultation
func (h *ConsultationHandler) RequestConsultation(w http.ResponseWriter, r *http.Request) {
	var req entities.ConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := h.requester.RequestConsultation(r.Context(), &req)
	if err != nil {
		switch apperrors.TypeOf(err) {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, publicMessage(err))
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			respondWithFailure(w, r, http.StatusInternalServerError, "Failed to process AI consultation", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
