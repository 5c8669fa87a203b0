package client

import "time"

// User is a registered user and their health profile
type User struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Age               *int      `json:"age"`
	Gender            *string   `json:"gender"`
	BloodType         *string   `json:"blood_type"`
	Allergies         *string   `json:"allergies"`
	ChronicConditions *string   `json:"chronic_conditions"`
	EmergencyContact  *string   `json:"emergency_contact"`
	CreatedAt         time.Time `json:"created_at"`
}

// UserInput is the body of a user registration
type UserInput struct {
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Age               *int    `json:"age,omitempty"`
	Gender            *string `json:"gender,omitempty"`
	BloodType         *string `json:"blood_type,omitempty"`
	Allergies         *string `json:"allergies,omitempty"`
	ChronicConditions *string `json:"chronic_conditions,omitempty"`
	EmergencyContact  *string `json:"emergency_contact,omitempty"`
}

// VitalSign is one timestamped measurement set
type VitalSign struct {
	ID                     int64     `json:"id"`
	UserID                 int64     `json:"user_id"`
	BloodPressureSystolic  *int      `json:"blood_pressure_systolic"`
	BloodPressureDiastolic *int      `json:"blood_pressure_diastolic"`
	HeartRate              *int      `json:"heart_rate"`
	Temperature            *float64  `json:"temperature"`
	Weight                 *float64  `json:"weight"`
	Height                 *float64  `json:"height"`
	BloodSugar             *float64  `json:"blood_sugar"`
	RecordedAt             time.Time `json:"recorded_at"`
}

// VitalSignInput is the body of a vital sign recording. Unset measurements
// are omitted.
type VitalSignInput struct {
	UserID                 int64    `json:"user_id"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic,omitempty"`
	HeartRate              *int     `json:"heart_rate,omitempty"`
	Temperature            *float64 `json:"temperature,omitempty"`
	Weight                 *float64 `json:"weight,omitempty"`
	Height                 *float64 `json:"height,omitempty"`
	BloodSugar             *float64 `json:"blood_sugar,omitempty"`
}

// Medication is a medication a user takes or has taken. Dates are
// "YYYY-MM-DD".
type Medication struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	MedicationName string    `json:"medication_name"`
	Dosage         *string   `json:"dosage"`
	Frequency      *string   `json:"frequency"`
	StartDate      *string   `json:"start_date"`
	EndDate        *string   `json:"end_date"`
	PrescribedBy   *string   `json:"prescribed_by"`
	Notes          *string   `json:"notes"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// MedicationInput is the body of a new medication
type MedicationInput struct {
	UserID         int64   `json:"user_id"`
	MedicationName string  `json:"medication_name"`
	Dosage         *string `json:"dosage,omitempty"`
	Frequency      *string `json:"frequency,omitempty"`
	StartDate      *string `json:"start_date,omitempty"`
	EndDate        *string `json:"end_date,omitempty"`
	PrescribedBy   *string `json:"prescribed_by,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// Consultation types understood by the server. Anything else is treated as
// ConsultationGeneral.
const (
	ConsultationGeneral            = "general"
	ConsultationMedicineSuggestion = "medicine_suggestion"
	ConsultationDoctorAdvice       = "doctor_advice"
)

// Consultation is one persisted symptom-to-guidance exchange
type Consultation struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Symptoms         string    `json:"symptoms"`
	ConsultationType string    `json:"consultation_type"`
	Prompt           string    `json:"prompt"`
	AIResponse       string    `json:"ai_response"`
	ConfidenceScore  float64   `json:"confidence_score"`
	CreatedAt        time.Time `json:"created_at"`
}

// ConsultationInput is the body of a consultation request
type ConsultationInput struct {
	UserID           int64  `json:"user_id"`
	Symptoms         string `json:"symptoms"`
	ConsultationType string `json:"consultation_type,omitempty"`
}

// MedicalRecord is a medical history entry as embedded in a MedicalContext
type MedicalRecord struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	RecordType   string    `json:"record_type"`
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	DateRecorded time.Time `json:"date_recorded"`
}

// MedicalContext is the health snapshot a consultation prompt was built from
type MedicalContext struct {
	Age                *int            `json:"age"`
	Gender             *string         `json:"gender"`
	BloodType          *string         `json:"bloodType"`
	Allergies          *string         `json:"allergies"`
	ChronicConditions  *string         `json:"chronicConditions"`
	CurrentMedications []string        `json:"currentMedications"`
	RecentVitals       *VitalSign      `json:"recentVitals"`
	RecentSymptoms     []MedicalRecord `json:"recentSymptoms"`
}

// ConsultationResult is the answer to a consultation request
type ConsultationResult struct {
	Consultation   *Consultation   `json:"consultation"`
	MedicalContext *MedicalContext `json:"medicalContext"`
}
