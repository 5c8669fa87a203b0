package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// MedicationReader lists medications
type MedicationReader interface {
	ListMedications(ctx context.Context, filter repositories.MedicationFilter) ([]*entities.Medication, error)
}

// MedicationWriter adds medications
type MedicationWriter interface {
	Add(ctx context.Context, medication *entities.Medication) error
}

// MedicationHandler handles medication HTTP requests
type MedicationHandler struct {
	reader MedicationReader
	writer MedicationWriter
}

// NewMedicationHandler creates a new medication handler
func NewMedicationHandler(reader MedicationReader, writer MedicationWriter) *MedicationHandler {
	return &MedicationHandler{
		reader: reader,
		writer: writer,
	}
}

// ListMedications handles GET /api/medications
func (h *MedicationHandler) ListMedications(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	filter := repositories.MedicationFilter{UserID: userID}
	if r.URL.Query().Has("isActive") {
		active := r.URL.Query().Get("isActive") == "true"
		filter.IsActive = &active
	}

	medications, err := h.reader.ListMedications(r.Context(), filter)
	if err != nil {
		respondWithFailure(w, r, http.StatusInternalServerError, "Failed to fetch medications", err)
		return
	}

	respondWithJSON(w, http.StatusOK, medications)
}

// CreateMedication handles POST /api/medications
func (h *MedicationHandler) CreateMedication(w http.ResponseWriter, r *http.Request) {
	var medication entities.Medication
	if err := json.NewDecoder(r.Body).Decode(&medication); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	medication.ID = 0

	if err := h.writer.Add(r.Context(), &medication); err != nil {
		if apperrors.IsValidation(err) {
			respondWithError(w, http.StatusBadRequest, publicMessage(err))
			return
		}
		respondWithFailure(w, r, http.StatusInternalServerError, "Failed to create medication", err)
		return
	}

	respondWithJSON(w, http.StatusOK, medication)
}
