package entities

import (
	"time"
)

// VitalSign is one timestamped measurement set. Records are immutable once
// written and listed newest first.
type VitalSign struct {
	ID                     int64     `json:"id" db:"id"`
	UserID                 int64     `json:"user_id" db:"user_id"`
	BloodPressureSystolic  *int      `json:"blood_pressure_systolic" db:"blood_pressure_systolic"`
	BloodPressureDiastolic *int      `json:"blood_pressure_diastolic" db:"blood_pressure_diastolic"`
	HeartRate              *int      `json:"heart_rate" db:"heart_rate"`
	Temperature            *float64  `json:"temperature" db:"temperature"`
	Weight                 *float64  `json:"weight" db:"weight"`
	Height                 *float64  `json:"height" db:"height"`
	BloodSugar             *float64  `json:"blood_sugar" db:"blood_sugar"`
	RecordedAt             time.Time `json:"recorded_at" db:"recorded_at"`
}
