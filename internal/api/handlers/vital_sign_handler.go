package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// VitalSignReader lists vital signs
type VitalSignReader interface {
	ListVitalSigns(ctx context.Context, filter repositories.VitalSignFilter) ([]*entities.VitalSign, error)
}

// VitalSignRecorder records vital signs
type VitalSignRecorder interface {
	Record(ctx context.Context, vital *entities.VitalSign) error
}

// VitalSignHandler handles vital sign HTTP requests
type VitalSignHandler struct {
	reader   VitalSignReader
	recorder VitalSignRecorder
}

// NewVitalSignHandler creates a new vital sign handler
func NewVitalSignHandler(reader VitalSignReader, recorder VitalSignRecorder) *VitalSignHandler {
	return &VitalSignHandler{
		reader:   reader,
		recorder: recorder,
	}
}

// ListVitalSigns handles GET /api/vital-signs
func (h *VitalSignHandler) ListVitalSigns(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	vitals, err := h.reader.ListVitalSigns(r.Context(), repositories.VitalSignFilter{
		UserID: userID,
		Limit:  queryLimit(r),
	})
	if err != nil {
		respondWithFailure(w, r, http.StatusInternalServerError, "Failed to fetch vital signs", err)
		return
	}

	respondWithJSON(w, http.StatusOK, vitals)
}

// vitalSignRequest is the accepted body of POST /api/vital-signs. The id and
// recorded_at are assigned by the store.
type vitalSignRequest struct {
	UserID                 int64    `json:"user_id"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic"`
	HeartRate              *int     `json:"heart_rate"`
	Temperature            *float64 `json:"temperature"`
	Weight                 *float64 `json:"weight"`
	Height                 *float64 `json:"height"`
	BloodSugar             *float64 `json:"blood_sugar"`
}

func (req vitalSignRequest) toEntity() entities.VitalSign {
	return entities.VitalSign{
		UserID:                 req.UserID,
		BloodPressureSystolic:  req.BloodPressureSystolic,
		BloodPressureDiastolic: req.BloodPressureDiastolic,
		HeartRate:              req.HeartRate,
		Temperature:            req.Temperature,
		Weight:                 req.Weight,
		Height:                 req.Height,
		BloodSugar:             req.BloodSugar,
	}
}

// CreateVitalSign handles POST /api/vital-signs
func (h *VitalSignHandler) CreateVitalSign(w http.ResponseWriter, r *http.Request) {
	var req vitalSignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	vital := req.toEntity()

	if err := h.recorder.Record(r.Context(), &vital); err != nil {
		if apperrors.IsValidation(err) {
			respondWithError(w, http.StatusBadRequest, publicMessage(err))
			return
		}
		respondWithFailure(w, r, http.StatusInternalServerError, "Failed to create vital signs", err)
		return
	}

	respondWithJSON(w, http.StatusOK, vital)
}
