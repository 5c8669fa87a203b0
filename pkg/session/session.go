// Package session ties the API client, the query cache and the mutation
// coordinator together for one selected user.
package session

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/wecare/healthtracker/pkg/client"
	"github.com/wecare/healthtracker/pkg/mutation"
	"github.com/wecare/healthtracker/pkg/querycache"
)

// ErrNoUser is returned by writes when no user is selected
var ErrNoUser = errors.New("session: no user selected")

// API is the part of the health API a session reads and writes
type API interface {
	ListVitalSigns(ctx context.Context, userID int64, limit int) ([]client.VitalSign, error)
	ListMedications(ctx context.Context, userID int64, active *bool) ([]client.Medication, error)
	ListConsultations(ctx context.Context, userID int64, limit int) ([]client.Consultation, error)
	mutation.VitalSignWriter
	mutation.MedicationWriter
	mutation.ConsultationRequester
}

// Session reads through the cache and writes through the coordinator on
// behalf of one user. A session without a user reads nothing.
type Session struct {
	api       API
	store     *querycache.Store
	mutations *mutation.Coordinator
	userID    int64
}

// New creates a session for userID. Zero means no user is selected.
func New(api API, store *querycache.Store, mutations *mutation.Coordinator, userID int64) *Session {
	return &Session{
		api:       api,
		store:     store,
		mutations: mutations,
		userID:    userID,
	}
}

// UserID returns the selected user, or zero
func (s *Session) UserID() int64 {
	return s.userID
}

// SwitchUser drops the current user's cached collections and returns a
// session for userID sharing the same cache and coordinator.
func (s *Session) SwitchUser(userID int64) *Session {
	if s.userID != 0 {
		s.store.RemoveUser(s.userID)
	}
	return New(s.api, s.store, s.mutations, userID)
}

// VitalSigns returns the user's vital signs newest first
func (s *Session) VitalSigns(ctx context.Context, limit int) ([]client.VitalSign, error) {
	key := querycache.NewKey(querycache.KindVitalSigns, s.userID, limitParams(limit))
	return querycache.Get(ctx, s.store, key, func(ctx context.Context) ([]client.VitalSign, error) {
		return s.api.ListVitalSigns(ctx, s.userID, limit)
	})
}

// Medications returns the user's medications. A nil active returns all.
func (s *Session) Medications(ctx context.Context, active *bool) ([]client.Medication, error) {
	params := url.Values{}
	if active != nil {
		params.Set("isActive", strconv.FormatBool(*active))
	}
	key := querycache.NewKey(querycache.KindMedications, s.userID, params)
	return querycache.Get(ctx, s.store, key, func(ctx context.Context) ([]client.Medication, error) {
		return s.api.ListMedications(ctx, s.userID, active)
	})
}

// Consultations returns the user's consultations newest first
func (s *Session) Consultations(ctx context.Context, limit int) ([]client.Consultation, error) {
	key := querycache.NewKey(querycache.KindConsultations, s.userID, limitParams(limit))
	return querycache.Get(ctx, s.store, key, func(ctx context.Context) ([]client.Consultation, error) {
		return s.api.ListConsultations(ctx, s.userID, limit)
	})
}

// AddVitalSigns records a measurement set for the user
func (s *Session) AddVitalSigns(ctx context.Context, in client.VitalSignInput) (*client.VitalSign, error) {
	if s.userID == 0 {
		return nil, ErrNoUser
	}
	in.UserID = s.userID
	return mutation.AddVitalSigns(ctx, s.mutations, s.api, in)
}

// AddMedication records a medication for the user
func (s *Session) AddMedication(ctx context.Context, in client.MedicationInput) (*client.Medication, error) {
	if s.userID == 0 {
		return nil, ErrNoUser
	}
	in.UserID = s.userID
	return mutation.AddMedication(ctx, s.mutations, s.api, in)
}

// RequestConsultation asks for guidance on the user's symptoms
func (s *Session) RequestConsultation(ctx context.Context, in client.ConsultationInput) (*client.ConsultationResult, error) {
	if s.userID == 0 {
		return nil, ErrNoUser
	}
	in.UserID = s.userID
	return mutation.RequestConsultation(ctx, s.mutations, s.api, in)
}

func limitParams(limit int) url.Values {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}
