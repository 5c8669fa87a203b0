package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wecare/healthtracker/internal/domain/entities"
)

const (
	informationalDisclaimer = "IMPORTANT: This is for informational purposes only and should not replace professional medical advice."
	emergencyDisclaimer     = "IMPORTANT: This is guidance only. Seek immediate medical attention for emergencies."

	noneReported  = "None reported"
	noMedications = "None"
	noVitals      = "None recorded"
	notSpecified  = "Not specified"
	notAvailable  = "N/A"
)

// BuildPrompt renders the consultation prompt for the given type. The output
// depends only on its inputs.
func BuildPrompt(symptoms string, consultationType entities.ConsultationType, mc *entities.MedicalContext) string {
	if mc == nil {
		mc = &entities.MedicalContext{}
	}

	var b strings.Builder
	switch consultationType {
	case entities.ConsultationMedicineSuggestion:
		fmt.Fprintf(&b, "As a medical AI assistant, provide medicine suggestions for the following symptoms: \"%s\".\n\n", symptoms)
		b.WriteString("Patient Context:\n")
		fmt.Fprintf(&b, "- Age: %s, Gender: %s\n", intOr(mc.Age, notSpecified), stringOr(mc.Gender, notSpecified))
		fmt.Fprintf(&b, "- Blood Type: %s\n", stringOr(mc.BloodType, notSpecified))
		fmt.Fprintf(&b, "- Allergies: %s\n", stringOr(mc.Allergies, noneReported))
		fmt.Fprintf(&b, "- Chronic Conditions: %s\n", stringOr(mc.ChronicConditions, noneReported))
		fmt.Fprintf(&b, "- Current Medications: %s\n\n", medicationList(mc.CurrentMedications))
		b.WriteString("Please provide:\n")
		b.WriteString("1. Possible over-the-counter medications\n")
		b.WriteString("2. Important warnings and contraindications\n")
		b.WriteString("3. When to seek immediate medical attention\n")
		b.WriteString("4. General care recommendations\n\n")
		b.WriteString(informationalDisclaimer)

	case entities.ConsultationDoctorAdvice:
		fmt.Fprintf(&b, "As a medical AI assistant, provide doctor consultation advice for: \"%s\".\n\n", symptoms)
		b.WriteString("Patient Context:\n")
		fmt.Fprintf(&b, "- Age: %s, Gender: %s\n", intOr(mc.Age, notSpecified), stringOr(mc.Gender, notSpecified))
		fmt.Fprintf(&b, "- Medical History: %s\n", stringOr(mc.ChronicConditions, noneReported))
		fmt.Fprintf(&b, "- Current Medications: %s\n", medicationList(mc.CurrentMedications))
		fmt.Fprintf(&b, "- Recent Vitals: %s\n\n", vitalsSummary(mc.RecentVitals))
		b.WriteString("Please advise:\n")
		b.WriteString("1. Urgency level (Low/Medium/High/Emergency)\n")
		b.WriteString("2. Recommended specialist type if needed\n")
		b.WriteString("3. Questions to ask the doctor\n")
		b.WriteString("4. Preparation for the appointment\n")
		b.WriteString("5. Red flag symptoms to watch for\n\n")
		b.WriteString(emergencyDisclaimer)

	default:
		fmt.Fprintf(&b, "As a medical AI assistant, provide general health advice for: \"%s\".\n\n", symptoms)
		b.WriteString("Patient Context:\n")
		fmt.Fprintf(&b, "- Age: %s, Gender: %s\n", intOr(mc.Age, notSpecified), stringOr(mc.Gender, notSpecified))
		fmt.Fprintf(&b, "- Known Conditions: %s\n\n", stringOr(mc.ChronicConditions, noneReported))
		b.WriteString("Please provide general health guidance, lifestyle recommendations, and when to seek medical care.\n\n")
		b.WriteString(informationalDisclaimer)
	}

	return b.String()
}

func stringOr(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}

func intOr(i *int, fallback string) string {
	if i == nil {
		return fallback
	}
	return strconv.Itoa(*i)
}

func medicationList(medications []string) string {
	if len(medications) == 0 {
		return noMedications
	}
	return strings.Join(medications, ", ")
}

// vitalsSummary renders "BP: <sys>/<dia>, HR: <hr>"
func vitalsSummary(v *entities.VitalSign) string {
	if v == nil {
		return noVitals
	}
	return fmt.Sprintf("BP: %s/%s, HR: %s",
		intOr(v.BloodPressureSystolic, notAvailable),
		intOr(v.BloodPressureDiastolic, notAvailable),
		intOr(v.HeartRate, notAvailable),
	)
}
