package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConsultationType(t *testing.T) {
	tests := []struct {
		in   string
		want ConsultationType
	}{
		{"general", ConsultationGeneral},
		{"medicine_suggestion", ConsultationMedicineSuggestion},
		{"doctor_advice", ConsultationDoctorAdvice},
		{" Doctor_Advice ", ConsultationDoctorAdvice},
		{"", ConsultationGeneral},
		{"second_opinion", ConsultationGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseConsultationType(tt.in))
		})
	}
}

func TestConsultationRequest_DecodesTypePermissively(t *testing.T) {
	var req ConsultationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"user_id":1,"symptoms":"cough","consultation_type":"unknown"}`), &req))
	assert.Equal(t, ConsultationGeneral, req.ConsultationType)

	require.NoError(t, json.Unmarshal([]byte(`{"user_id":1,"symptoms":"cough"}`), &req))
	assert.Equal(t, ConsultationGeneral, req.ConsultationType)

	require.NoError(t, json.Unmarshal([]byte(`{"user_id":1,"symptoms":"cough","consultation_type":"doctor_advice"}`), &req))
	assert.Equal(t, ConsultationDoctorAdvice, req.ConsultationType)

	assert.Error(t, json.Unmarshal([]byte(`{"consultation_type":7}`), &req))
}

func TestConsultation_MarshalsTypeAsName(t *testing.T) {
	data, err := json.Marshal(Consultation{ConsultationType: ConsultationMedicineSuggestion})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"consultation_type":"medicine_suggestion"`)
}

func TestConsultationType_Scan(t *testing.T) {
	var ct ConsultationType
	require.NoError(t, ct.Scan([]byte("doctor_advice")))
	assert.Equal(t, ConsultationDoctorAdvice, ct)
	require.NoError(t, ct.Scan(nil))
	assert.Equal(t, ConsultationGeneral, ct)
	assert.Error(t, ct.Scan(42))
}

func TestMedication_Summary(t *testing.T) {
	dosage, frequency := "500mg", "twice daily"
	m := Medication{MedicationName: "Metformin", Dosage: &dosage, Frequency: &frequency}
	assert.Equal(t, "Metformin 500mg twice daily", m.Summary())

	m.Frequency = nil
	assert.Equal(t, "Metformin 500mg", m.Summary())
}

func TestDate_JSONRoundTrip(t *testing.T) {
	var m Medication
	require.NoError(t, json.Unmarshal([]byte(`{"medication_name":"x","start_date":"2024-03-01","end_date":null}`), &m))
	require.NotNil(t, m.StartDate)
	assert.Nil(t, m.EndDate)
	assert.Equal(t, "2024-03-01", m.StartDate.String())

	data, err := json.Marshal(m.StartDate)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01"`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"start_date":"March first"}`), &m))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 6, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-06", d.String())
	require.NoError(t, d.Scan("2023-01-02"))
	assert.Equal(t, "2023-01-02", d.String())
}
