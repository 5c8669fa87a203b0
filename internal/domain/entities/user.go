package entities

import (
	"time"
)

// User represents a registered user and their health profile
type User struct {
	ID                int64     `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Email             string    `json:"email" db:"email"`
	Age               *int      `json:"age" db:"age"`
	Gender            *string   `json:"gender" db:"gender"`
	BloodType         *string   `json:"blood_type" db:"blood_type"`
	Allergies         *string   `json:"allergies" db:"allergies"`
	ChronicConditions *string   `json:"chronic_conditions" db:"chronic_conditions"`
	EmergencyContact  *string   `json:"emergency_contact" db:"emergency_contact"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}
