package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/wecare/healthtracker/internal/domain/entities"
)

// dialect builds interpolated PostgreSQL statements; execution goes through
// a queryer so the same builders serve both pooled and snapshot reads.
var dialect = goqu.Dialect("postgres")

// queryer is satisfied by *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const (
	tableUsers          = "users"
	tableVitalSigns     = "vital_signs"
	tableMedications    = "medications"
	tableMedicalRecords = "medical_records"
	tableConsultations  = "ai_consultations"
)

var userColumns = []interface{}{
	"id", "name", "email", "age", "gender", "blood_type",
	"allergies", "chronic_conditions", "emergency_contact", "created_at",
}

var vitalSignColumns = []interface{}{
	"id", "user_id", "blood_pressure_systolic", "blood_pressure_diastolic",
	"heart_rate", "temperature", "weight", "height", "blood_sugar", "recorded_at",
}

var medicationColumns = []interface{}{
	"id", "user_id", "medication_name", "dosage", "frequency", "start_date",
	"end_date", "prescribed_by", "notes", "is_active", "created_at",
}

var medicalRecordColumns = []interface{}{
	"id", "user_id", "record_type", "title", "description", "date_recorded",
}

var consultationColumns = []interface{}{
	"id", "user_id", "symptoms", "consultation_type", "prompt",
	"ai_response", "confidence_score", "created_at",
}

func scanUser(row rowScanner) (*entities.User, error) {
	user := &entities.User{}
	var age sql.NullInt64
	var gender, bloodType, allergies, chronic, emergency sql.NullString

	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&age,
		&gender,
		&bloodType,
		&allergies,
		&chronic,
		&emergency,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}

	user.Age = intPtr(age)
	user.Gender = stringPtr(gender)
	user.BloodType = stringPtr(bloodType)
	user.Allergies = stringPtr(allergies)
	user.ChronicConditions = stringPtr(chronic)
	user.EmergencyContact = stringPtr(emergency)
	return user, nil
}

func scanVitalSign(row rowScanner) (*entities.VitalSign, error) {
	vital := &entities.VitalSign{}
	var systolic, diastolic, heartRate sql.NullInt64
	var temperature, weight, height, bloodSugar sql.NullFloat64

	if err := row.Scan(
		&vital.ID,
		&vital.UserID,
		&systolic,
		&diastolic,
		&heartRate,
		&temperature,
		&weight,
		&height,
		&bloodSugar,
		&vital.RecordedAt,
	); err != nil {
		return nil, err
	}

	vital.BloodPressureSystolic = intPtr(systolic)
	vital.BloodPressureDiastolic = intPtr(diastolic)
	vital.HeartRate = intPtr(heartRate)
	vital.Temperature = floatPtr(temperature)
	vital.Weight = floatPtr(weight)
	vital.Height = floatPtr(height)
	vital.BloodSugar = floatPtr(bloodSugar)
	return vital, nil
}

func scanMedication(row rowScanner) (*entities.Medication, error) {
	medication := &entities.Medication{}
	var dosage, frequency, prescribedBy, notes sql.NullString
	var startDate, endDate sql.Null[entities.Date]

	if err := row.Scan(
		&medication.ID,
		&medication.UserID,
		&medication.MedicationName,
		&dosage,
		&frequency,
		&startDate,
		&endDate,
		&prescribedBy,
		&notes,
		&medication.IsActive,
		&medication.CreatedAt,
	); err != nil {
		return nil, err
	}

	medication.Dosage = stringPtr(dosage)
	medication.Frequency = stringPtr(frequency)
	medication.PrescribedBy = stringPtr(prescribedBy)
	medication.Notes = stringPtr(notes)
	if startDate.Valid {
		medication.StartDate = &startDate.V
	}
	if endDate.Valid {
		medication.EndDate = &endDate.V
	}
	return medication, nil
}

func scanMedicalRecord(row rowScanner) (*entities.MedicalRecord, error) {
	record := &entities.MedicalRecord{}
	var title, description sql.NullString

	if err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.RecordType,
		&title,
		&description,
		&record.DateRecorded,
	); err != nil {
		return nil, err
	}

	record.Title = stringPtr(title)
	record.Description = stringPtr(description)
	return record, nil
}

func scanConsultation(row rowScanner) (*entities.Consultation, error) {
	consultation := &entities.Consultation{}
	var prompt sql.NullString

	if err := row.Scan(
		&consultation.ID,
		&consultation.UserID,
		&consultation.Symptoms,
		&consultation.ConsultationType,
		&prompt,
		&consultation.AIResponse,
		&consultation.ConfidenceScore,
		&consultation.CreatedAt,
	); err != nil {
		return nil, err
	}

	consultation.Prompt = prompt.String
	return consultation, nil
}

// nullable converts an optional field into a goqu literal: nil pointers
// become SQL NULL.
func nullableString(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func nullableInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func nullableFloat(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func nullableDate(p *entities.Date) interface{} {
	if p == nil {
		return nil
	}
	return p.String()
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
