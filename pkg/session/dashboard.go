package session

import (
	"context"
	"fmt"

	"github.com/wecare/healthtracker/pkg/client"
	"golang.org/x/sync/errgroup"
)

// Collection sizes the dashboard reads. They match the dashboard screen, so
// its reads share cache entries with the screen's.
const (
	DashboardVitalsLimit        = 30
	DashboardConsultationsLimit = 10
	TrendSize                   = 10
)

const notAvailable = "N/A"

// Dashboard summarizes a user's recent health data
type Dashboard struct {
	ActiveMedications   int
	LatestBloodPressure string
	LatestHeartRate     string
	ConsultationCount   int
	// Trend holds the most recent vital signs oldest first
	Trend []client.VitalSign
}

// Dashboard reads the user's collections concurrently and summarizes them
func (s *Session) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		vitals        []client.VitalSign
		medications   []client.Medication
		consultations []client.Consultation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vitals, err = s.VitalSigns(gctx, DashboardVitalsLimit)
		return err
	})
	g.Go(func() error {
		active := true
		var err error
		medications, err = s.Medications(gctx, &active)
		return err
	})
	g.Go(func() error {
		var err error
		consultations, err = s.Consultations(gctx, DashboardConsultationsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(vitals, medications, consultations), nil
}

func summarize(vitals []client.VitalSign, medications []client.Medication, consultations []client.Consultation) *Dashboard {
	d := &Dashboard{
		ActiveMedications:   len(medications),
		LatestBloodPressure: notAvailable,
		LatestHeartRate:     notAvailable,
		ConsultationCount:   len(consultations),
	}

	if len(vitals) > 0 {
		latest := vitals[0]
		if latest.BloodPressureSystolic != nil && latest.BloodPressureDiastolic != nil {
			d.LatestBloodPressure = fmt.Sprintf("%d/%d", *latest.BloodPressureSystolic, *latest.BloodPressureDiastolic)
		}
		if latest.HeartRate != nil {
			d.LatestHeartRate = fmt.Sprintf("%d bpm", *latest.HeartRate)
		}
	}

	n := min(len(vitals), TrendSize)
	d.Trend = make([]client.VitalSign, n)
	for i := 0; i < n; i++ {
		d.Trend[i] = vitals[n-1-i]
	}
	return d
}
