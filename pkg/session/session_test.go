package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wecare/healthtracker/pkg/client"
	"github.com/wecare/healthtracker/pkg/mutation"
	"github.com/wecare/healthtracker/pkg/querycache"
	"github.com/wecare/healthtracker/pkg/session"
)

type fakeAPI struct {
	mu            sync.Mutex
	vitals        map[int64][]client.VitalSign
	medications   []client.Medication
	consultations []client.Consultation
	vitalCalls    map[int64]int
	activeFilters []*bool
	createErr     error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		vitals:     make(map[int64][]client.VitalSign),
		vitalCalls: make(map[int64]int),
	}
}

func (f *fakeAPI) calls(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vitalCalls[userID]
}

func (f *fakeAPI) ListVitalSigns(ctx context.Context, userID int64, limit int) ([]client.VitalSign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vitalCalls[userID]++
	out := f.vitals[userID]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return append([]client.VitalSign(nil), out...), nil
}

func (f *fakeAPI) ListMedications(ctx context.Context, userID int64, active *bool) ([]client.Medication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activeFilters = append(f.activeFilters, active)
	return f.medications, nil
}

func (f *fakeAPI) ListConsultations(ctx context.Context, userID int64, limit int) ([]client.Consultation, error) {
	return f.consultations, nil
}

func (f *fakeAPI) CreateVitalSign(ctx context.Context, in client.VitalSignInput) (*client.VitalSign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	v := client.VitalSign{ID: int64(len(f.vitals[in.UserID]) + 1), UserID: in.UserID, HeartRate: in.HeartRate}
	f.vitals[in.UserID] = append([]client.VitalSign{v}, f.vitals[in.UserID]...)
	return &v, nil
}

func (f *fakeAPI) CreateMedication(ctx context.Context, in client.MedicationInput) (*client.Medication, error) {
	return &client.Medication{ID: 1, UserID: in.UserID, MedicationName: in.MedicationName, IsActive: true}, nil
}

func (f *fakeAPI) RequestConsultation(ctx context.Context, in client.ConsultationInput) (*client.ConsultationResult, error) {
	return &client.ConsultationResult{Consultation: &client.Consultation{ID: 1, UserID: in.UserID, Symptoms: in.Symptoms}}, nil
}

func newSession(t *testing.T, api *fakeAPI, userID int64) (*session.Session, *querycache.Store) {
	t.Helper()
	store := querycache.New(querycache.Options{Logger: zerolog.Nop()})
	coordinator := mutation.NewCoordinator(store, zerolog.Nop())
	t.Cleanup(func() {
		coordinator.Close()
		store.Close()
	})
	return session.New(api, store, coordinator, userID), store
}

func intPtr(v int) *int { return &v }

func vital(id int64, sys, dia, hr *int) client.VitalSign {
	return client.VitalSign{ID: id, BloodPressureSystolic: sys, BloodPressureDiastolic: dia, HeartRate: hr}
}

func TestSession_ReadsWithoutUserAreDisabled(t *testing.T) {
	api := newFakeAPI()
	s, _ := newSession(t, api, 0)

	vitals, err := s.VitalSigns(context.Background(), 30)
	require.NoError(t, err)
	assert.Nil(t, vitals)
	assert.Zero(t, api.calls(0))

	_, err = s.AddVitalSigns(context.Background(), client.VitalSignInput{HeartRate: intPtr(70)})
	assert.ErrorIs(t, err, session.ErrNoUser)
}

func TestSession_WriteRefreshesReads(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.vitals[1] = []client.VitalSign{{ID: 1, UserID: 1, HeartRate: intPtr(60)}}
	s, store := newSession(t, api, 1)

	before, err := s.VitalSigns(ctx, 30)
	require.NoError(t, err)
	require.Len(t, before, 1)

	key := querycache.NewKey(querycache.KindVitalSigns, 1, map[string][]string{"limit": {"30"}})
	events, unsubscribe := store.Subscribe(key)
	defer unsubscribe()

	created, err := s.AddVitalSigns(ctx, client.VitalSignInput{UserID: 99, HeartRate: intPtr(75)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.UserID)

	// the stale copy is served while it refreshes
	stale, err := s.VitalSigns(ctx, 30)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	deadline := time.After(2 * time.Second)
	for updated := false; !updated; {
		select {
		case ev := <-events:
			updated = ev.Type == querycache.Updated
		case <-deadline:
			t.Fatal("vital signs were never refreshed")
		}
	}

	after, err := s.VitalSigns(ctx, 30)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, 75, *after[0].HeartRate)
	assert.Equal(t, 2, api.calls(1))
}

func TestSession_FailedWriteKeepsCache(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.vitals[1] = []client.VitalSign{{ID: 1}}
	s, _ := newSession(t, api, 1)

	_, err := s.VitalSigns(ctx, 30)
	require.NoError(t, err)

	api.createErr = &client.APIError{StatusCode: 500, Message: "Failed to create vital signs"}
	_, err = s.AddVitalSigns(ctx, client.VitalSignInput{HeartRate: intPtr(80)})
	require.Error(t, err)

	_, err = s.VitalSigns(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls(1))
}

func TestSession_SwitchUserDropsPreviousEntries(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	first, _ := newSession(t, api, 1)

	_, err := first.VitalSigns(ctx, 30)
	require.NoError(t, err)

	second := first.SwitchUser(2)
	assert.Equal(t, int64(2), second.UserID())
	_, err = second.VitalSigns(ctx, 30)
	require.NoError(t, err)

	back := second.SwitchUser(1)
	_, err = back.VitalSigns(ctx, 30)
	require.NoError(t, err)

	assert.Equal(t, 2, api.calls(1))
	assert.Equal(t, 1, api.calls(2))
}

func TestSession_Dashboard(t *testing.T) {
	t.Run("summarizes the latest readings", func(t *testing.T) {
		api := newFakeAPI()
		for i := 12; i >= 1; i-- {
			api.vitals[1] = append(api.vitals[1], vital(int64(i), intPtr(110+i), intPtr(70+i), intPtr(60+i)))
		}
		api.medications = []client.Medication{{ID: 1, IsActive: true}, {ID: 2, IsActive: true}}
		api.consultations = []client.Consultation{{ID: 1}, {ID: 2}, {ID: 3}}
		s, _ := newSession(t, api, 1)

		d, err := s.Dashboard(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, d.ActiveMedications)
		assert.Equal(t, "122/82", d.LatestBloodPressure)
		assert.Equal(t, "72 bpm", d.LatestHeartRate)
		assert.Equal(t, 3, d.ConsultationCount)
		require.Len(t, d.Trend, session.TrendSize)
		assert.Equal(t, int64(3), d.Trend[0].ID)
		assert.Equal(t, int64(12), d.Trend[9].ID)

		require.Len(t, api.activeFilters, 1)
		require.NotNil(t, api.activeFilters[0])
		assert.True(t, *api.activeFilters[0])
	})

	t.Run("missing readings are not available", func(t *testing.T) {
		api := newFakeAPI()
		api.vitals[1] = []client.VitalSign{vital(1, intPtr(120), nil, nil)}
		s, _ := newSession(t, api, 1)

		d, err := s.Dashboard(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "N/A", d.LatestBloodPressure)
		assert.Equal(t, "N/A", d.LatestHeartRate)
		assert.Len(t, d.Trend, 1)
	})

	t.Run("empty history", func(t *testing.T) {
		s, _ := newSession(t, newFakeAPI(), 1)

		d, err := s.Dashboard(context.Background())
		require.NoError(t, err)

		assert.Zero(t, d.ActiveMedications)
		assert.Equal(t, "N/A", d.LatestBloodPressure)
		assert.Empty(t, d.Trend)
	})
}
