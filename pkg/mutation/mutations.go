package mutation

import (
	"context"

	"github.com/wecare/healthtracker/pkg/client"
	"github.com/wecare/healthtracker/pkg/querycache"
)

// VitalSignWriter records vital signs
type VitalSignWriter interface {
	CreateVitalSign(ctx context.Context, in client.VitalSignInput) (*client.VitalSign, error)
}

// MedicationWriter records medications
type MedicationWriter interface {
	CreateMedication(ctx context.Context, in client.MedicationInput) (*client.Medication, error)
}

// ConsultationRequester asks for consultations
type ConsultationRequester interface {
	RequestConsultation(ctx context.Context, in client.ConsultationInput) (*client.ConsultationResult, error)
}

type funcMutation struct {
	kind    querycache.Kind
	userID  int64
	execute func(ctx context.Context) (any, error)
}

func (m funcMutation) Kind() querycache.Kind { return m.kind }
func (m funcMutation) UserID() int64         { return m.userID }

func (m funcMutation) Execute(ctx context.Context) (any, error) {
	return m.execute(ctx)
}

// New wraps execute as a Mutation of kind for the user
func New(kind querycache.Kind, userID int64, execute func(ctx context.Context) (any, error)) Mutation {
	return funcMutation{kind: kind, userID: userID, execute: execute}
}

func submit[T any](ctx context.Context, c *Coordinator, m Mutation) (*T, error) {
	value, err := c.Mutate(ctx, m)
	if err != nil {
		return nil, err
	}
	typed, _ := value.(*T)
	return typed, nil
}

// AddVitalSigns records a measurement set and invalidates the user's vital signs
func AddVitalSigns(ctx context.Context, c *Coordinator, api VitalSignWriter, in client.VitalSignInput) (*client.VitalSign, error) {
	return submit[client.VitalSign](ctx, c, New(querycache.KindVitalSigns, in.UserID, func(ctx context.Context) (any, error) {
		return api.CreateVitalSign(ctx, in)
	}))
}

// AddMedication records a medication and invalidates the user's medications
func AddMedication(ctx context.Context, c *Coordinator, api MedicationWriter, in client.MedicationInput) (*client.Medication, error) {
	return submit[client.Medication](ctx, c, New(querycache.KindMedications, in.UserID, func(ctx context.Context) (any, error) {
		return api.CreateMedication(ctx, in)
	}))
}

// RequestConsultation asks for guidance and invalidates the user's consultations
func RequestConsultation(ctx context.Context, c *Coordinator, api ConsultationRequester, in client.ConsultationInput) (*client.ConsultationResult, error) {
	return submit[client.ConsultationResult](ctx, c, New(querycache.KindConsultations, in.UserID, func(ctx context.Context) (any, error) {
		return api.RequestConsultation(ctx, in)
	}))
}
