package querycache_test

import (
	"context"
	"errors"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wecare/healthtracker/pkg/querycache"
)

func newStore(t *testing.T) *querycache.Store {
	t.Helper()
	store := querycache.New(querycache.Options{Logger: zerolog.Nop()})
	t.Cleanup(store.Close)
	return store
}

func vitalsKey(userID int64) querycache.Key {
	return querycache.NewKey(querycache.KindVitalSigns, userID, url.Values{"limit": {"30"}})
}

// gatedFetch blocks until release is closed and reports when it has started
type gatedFetch struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	value   []string
}

func newGatedFetch(value ...string) *gatedFetch {
	return &gatedFetch{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
		value:   value,
	}
}

func (g *gatedFetch) fetch(ctx context.Context) ([]string, error) {
	g.calls.Add(1)
	g.started <- struct{}{}
	select {
	case <-g.release:
		return g.value, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting")
	}
}

func waitEvent(t *testing.T, events <-chan querycache.Event, want querycache.EventType) querycache.Event {
	t.Helper()
	select {
	case ev := <-events:
		require.Equal(t, want, ev.Type)
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s event", want)
		return querycache.Event{}
	}
}

func TestNewKey_NormalizesParams(t *testing.T) {
	a := querycache.NewKey(querycache.KindMedications, 3, url.Values{"isActive": {"true"}, "limit": {"5"}})
	b := querycache.NewKey(querycache.KindMedications, 3, url.Values{"limit": {"5"}, "isActive": {"true"}})

	assert.Equal(t, a, b)
	assert.Equal(t, "medications:3?isActive=true&limit=5", a.String())
}

func TestGet_DisabledWithoutUser(t *testing.T) {
	store := newStore(t)
	var calls int

	got, err := querycache.Get(context.Background(), store, vitalsKey(0), func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"x"}, nil
	})

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, calls)
}

func TestGet_FreshEntryIsServedFromCache(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	var calls int
	fetch := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"v1"}, nil
	}

	first, err := querycache.Get(ctx, store, vitalsKey(1), fetch)
	require.NoError(t, err)
	second, err := querycache.Get(ctx, store, vitalsKey(1), fetch)
	require.NoError(t, err)

	assert.Equal(t, []string{"v1"}, first)
	assert.Equal(t, []string{"v1"}, second)
	assert.Equal(t, 1, calls)
}

func TestGet_ConcurrentReadsShareOneFetch(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	gate := newGatedFetch("shared")

	results := make(chan []string, 2)
	go func() {
		v, _ := querycache.Get(ctx, store, vitalsKey(1), gate.fetch)
		results <- v
	}()
	waitFor(t, gate.started)

	go func() {
		v, _ := querycache.Get(ctx, store, vitalsKey(1), gate.fetch)
		results <- v
	}()
	// give the second reader time to join the flight
	time.Sleep(20 * time.Millisecond)
	close(gate.release)

	assert.Equal(t, []string{"shared"}, <-results)
	assert.Equal(t, []string{"shared"}, <-results)
	assert.Equal(t, int32(1), gate.calls.Load())
}

func TestGet_StaleEntryReturnsImmediatelyAndRefreshes(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	key := vitalsKey(1)

	_, err := querycache.Get(ctx, store, key, func(ctx context.Context) ([]string, error) {
		return []string{"old"}, nil
	})
	require.NoError(t, err)

	events, unsubscribe := store.Subscribe(key)
	defer unsubscribe()

	store.Invalidate(querycache.KindVitalSigns, 1)
	waitEvent(t, events, querycache.Invalidated)

	got, err := querycache.Get(ctx, store, key, func(ctx context.Context) ([]string, error) {
		return []string{"new"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, got)

	waitEvent(t, events, querycache.Updated)

	got, err = querycache.Get(ctx, store, key, func(ctx context.Context) ([]string, error) {
		t.Error("fresh entry must not refetch")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, got)
}

func TestGet_SupersededFetchIsNotApplied(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	key := vitalsKey(1)
	slow := newGatedFetch("before-write")

	slowResult := make(chan []string, 1)
	go func() {
		v, _ := querycache.Get(ctx, store, key, slow.fetch)
		slowResult <- v
	}()
	waitFor(t, slow.started)

	store.Invalidate(querycache.KindVitalSigns, 1)

	got, err := querycache.Get(ctx, store, key, func(ctx context.Context) ([]string, error) {
		return []string{"after-write"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"after-write"}, got)

	close(slow.release)
	assert.Equal(t, []string{"before-write"}, <-slowResult)

	got, err = querycache.Get(ctx, store, key, func(ctx context.Context) ([]string, error) {
		t.Error("fresh entry must not refetch")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"after-write"}, got)
}

func TestInvalidate_CoversAllParamsOfOneUser(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	limit30 := vitalsKey(1)
	limit5 := querycache.NewKey(querycache.KindVitalSigns, 1, url.Values{"limit": {"5"}})
	otherUser := vitalsKey(2)
	meds := querycache.NewKey(querycache.KindMedications, 1, nil)

	fill := func(ctx context.Context) ([]string, error) { return []string{"v"}, nil }
	for _, key := range []querycache.Key{limit30, limit5, otherUser, meds} {
		_, err := querycache.Get(ctx, store, key, fill)
		require.NoError(t, err)
	}

	a, unsubA := store.Subscribe(limit30)
	defer unsubA()
	b, unsubB := store.Subscribe(limit5)
	defer unsubB()
	other, unsubOther := store.Subscribe(otherUser)
	defer unsubOther()
	medEvents, unsubMeds := store.Subscribe(meds)
	defer unsubMeds()

	store.Invalidate(querycache.KindVitalSigns, 1)

	waitEvent(t, a, querycache.Invalidated)
	waitEvent(t, b, querycache.Invalidated)
	assert.Empty(t, other)
	assert.Empty(t, medEvents)
}

func TestRemoveUser_InFlightFetchDoesNotResurrectEntry(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	key := vitalsKey(7)
	slow := newGatedFetch("late")

	events, unsubscribe := store.Subscribe(key)
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		_, _ = querycache.Get(ctx, store, key, slow.fetch)
		close(done)
	}()
	waitFor(t, slow.started)

	store.RemoveUser(7)
	waitEvent(t, events, querycache.Invalidated)

	close(slow.release)
	waitFor(t, done)
	assert.Empty(t, events)

	var calls int
	_, err := querycache.Get(ctx, store, key, func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGet_FetchErrorsAreNotCached(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := querycache.Get(ctx, store, vitalsKey(1), func(ctx context.Context) ([]string, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := querycache.Get(ctx, store, vitalsKey(1), func(ctx context.Context) ([]string, error) {
		return []string{"ok"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, got)
}

func TestGet_CallerCancellationDoesNotCancelFetch(t *testing.T) {
	store := newStore(t)
	key := vitalsKey(1)
	slow := newGatedFetch("kept")
	events, unsubscribe := store.Subscribe(key)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := querycache.Get(ctx, store, key, slow.fetch)
		errs <- err
	}()
	waitFor(t, slow.started)

	cancel()
	assert.ErrorIs(t, <-errs, context.Canceled)

	close(slow.release)
	waitEvent(t, events, querycache.Updated)
}

func TestClose(t *testing.T) {
	store := querycache.New(querycache.Options{})
	events, unsubscribe := store.Subscribe(vitalsKey(1))

	store.Close()
	unsubscribe()

	_, open := <-events
	assert.False(t, open)

	_, err := querycache.Get(context.Background(), store, vitalsKey(1), func(ctx context.Context) ([]string, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, querycache.ErrClosed)
}
