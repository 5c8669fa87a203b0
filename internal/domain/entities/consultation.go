package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ConsultationType selects the prompt template of a consultation. It is a
// closed set; unrecognized names resolve to ConsultationGeneral.
type ConsultationType int

const (
	ConsultationGeneral ConsultationType = iota
	ConsultationMedicineSuggestion
	ConsultationDoctorAdvice
)

var consultationTypeNames = map[ConsultationType]string{
	ConsultationGeneral:            "general",
	ConsultationMedicineSuggestion: "medicine_suggestion",
	ConsultationDoctorAdvice:       "doctor_advice",
}

// ParseConsultationType maps a wire name to a ConsultationType. Empty and
// unknown names fall back to ConsultationGeneral without error.
func ParseConsultationType(name string) ConsultationType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "medicine_suggestion":
		return ConsultationMedicineSuggestion
	case "doctor_advice":
		return ConsultationDoctorAdvice
	default:
		return ConsultationGeneral
	}
}

// String returns the wire name
func (t ConsultationType) String() string {
	if name, ok := consultationTypeNames[t]; ok {
		return name
	}
	return consultationTypeNames[ConsultationGeneral]
}

// MarshalJSON implements json.Marshaler
func (t ConsultationType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler. Non-string values are rejected;
// unknown names are not.
func (t *ConsultationType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ConsultationGeneral
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("consultation_type must be a string: %w", err)
	}
	*t = ParseConsultationType(name)
	return nil
}

// Value implements driver.Valuer
func (t ConsultationType) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner
func (t *ConsultationType) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*t = ParseConsultationType(v)
	case []byte:
		*t = ParseConsultationType(string(v))
	case nil:
		*t = ConsultationGeneral
	default:
		return fmt.Errorf("cannot scan %T into ConsultationType", src)
	}
	return nil
}

// Consultation is one persisted symptom-to-guidance exchange. Consultations
// are append-only.
type Consultation struct {
	ID               int64            `json:"id" db:"id"`
	UserID           int64            `json:"user_id" db:"user_id"`
	Symptoms         string           `json:"symptoms" db:"symptoms"`
	ConsultationType ConsultationType `json:"consultation_type" db:"consultation_type"`
	Prompt           string           `json:"prompt" db:"prompt"`
	AIResponse       string           `json:"ai_response" db:"ai_response"`
	ConfidenceScore  float64          `json:"confidence_score" db:"confidence_score"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

// ConsultationRequest is the input of a consultation request
type ConsultationRequest struct {
	UserID           int64            `json:"user_id"`
	Symptoms         string           `json:"symptoms"`
	ConsultationType ConsultationType `json:"consultation_type"`
}

// ConsultationResult pairs the persisted consultation with the context used
// to build its prompt
type ConsultationResult struct {
	Consultation   *Consultation   `json:"consultation"`
	MedicalContext *MedicalContext `json:"medicalContext"`
}

// GeneratedAdvice is the output of a consultation generator
type GeneratedAdvice struct {
	Response        string
	ConfidenceScore float64
	// Degraded is set when the upstream generator failed and a placeholder
	// was substituted.
	Degraded bool
}
