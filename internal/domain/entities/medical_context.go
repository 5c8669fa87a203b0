package entities

// MedicalContext is the per-request snapshot of a user's health data used to
// build a consultation prompt. It is never cached or reused across requests.
// Absent profile fields stay nil; defaults are applied when rendering.
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
