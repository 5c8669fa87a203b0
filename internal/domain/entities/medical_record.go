package entities

import (
	"time"
)

// RecordTypeSymptom marks a medical record that describes a symptom
const RecordTypeSymptom = "symptom"

// MedicalRecord is a free-form entry in a user's medical history. Records are
// read-only to this service.
type MedicalRecord struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	RecordType   string    `json:"record_type" db:"record_type"`
	Title        *string   `json:"title" db:"title"`
	Description  *string   `json:"description" db:"description"`
	DateRecorded time.Time `json:"date_recorded" db:"date_recorded"`
}
