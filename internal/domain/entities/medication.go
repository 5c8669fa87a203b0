package entities

import (
	"strings"
	"time"
)

// Medication represents a medication a user takes or has taken
type Medication struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	MedicationName string    `json:"medication_name" db:"medication_name"`
	Dosage         *string   `json:"dosage" db:"dosage"`
	Frequency      *string   `json:"frequency" db:"frequency"`
	StartDate      *Date     `json:"start_date" db:"start_date"`
	EndDate        *Date     `json:"end_date" db:"end_date"`
	PrescribedBy   *string   `json:"prescribed_by" db:"prescribed_by"`
	Notes          *string   `json:"notes" db:"notes"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Summary renders the medication as "<name> <dosage> <frequency>", skipping
// parts that were not recorded.
func (m *Medication) Summary() string {
	parts := []string{m.MedicationName}
	for _, p := range []*string{m.Dosage, m.Frequency} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, " ")
}
