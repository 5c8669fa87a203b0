// Package querycache keeps client-side copies of server collections.
//
// Reads are stale-while-revalidate: a fresh entry is returned as is, a stale
// entry is returned immediately while one background fetch refreshes it, and a
// missing entry is fetched in the foreground. Identical keys share a single
// in-flight fetch. Every fetch is stamped with a sequence number and only the
// latest one issued for an entry may write to it, so a slow response can never
// overwrite a newer one or resurrect a removed entry.
package querycache

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const defaultSubscriberBuffer = 16

// ErrClosed is returned by reads on a closed store
var ErrClosed = errors.New("querycache: store closed")

// Options configures a Store
type Options struct {
	Logger zerolog.Logger
	// SubscriberBuffer is the channel capacity handed to subscribers.
	// Events are dropped for subscribers that fall behind.
	SubscriberBuffer int
}

type entry struct {
	value    any
	hasValue bool
	fresh    bool
	// gen changes on every invalidation so new reads never join a fetch
	// that was started before it.
	gen uint64
	// issued is the sequence number of the newest fetch allowed to write.
	issued uint64
}

// Store holds cached collections. The zero value is not usable; call New.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
	subs    map[Key]map[uint64]chan Event
	seq     uint64
	nextSub uint64
	closed  bool

	group  singleflight.Group
	ctx    context.Context
	cancel context.CancelFunc
	logger zerolog.Logger
	buffer int
}

// New creates an empty store
func New(opts Options) *Store {
	buffer := opts.SubscriberBuffer
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		entries: make(map[Key]*entry),
		subs:    make(map[Key]map[uint64]chan Event),
		ctx:     ctx,
		cancel:  cancel,
		logger:  opts.Logger,
		buffer:  buffer,
	}
}

// Close cancels in-flight fetches and closes every subscriber channel
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	for key, subs := range s.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(s.subs, key)
	}
	s.entries = make(map[Key]*entry)
}

// Get returns the collection stored under key, calling fetch when the entry is
// missing or stale. A key without a user is disabled and yields the zero value.
//
// fetch runs on the store's context, not the caller's: a caller that gives up
// does not cancel a fetch other readers may be sharing.
func Get[T any](ctx context.Context, s *Store, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if key.UserID == 0 {
		return zero, nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return zero, ErrClosed
	}
	e, ok := s.entries[key]
	if !ok {
		e = &entry{gen: s.nextSeqLocked()}
		s.entries[key] = e
	}

	if e.hasValue {
		if cached, ok := e.value.(T); ok {
			if e.fresh {
				s.mu.Unlock()
				recordHit(key.Kind)
				return cached, nil
			}
			s.startFetchLocked(key, e, erase(fetch))
			s.mu.Unlock()
			recordStale(key.Kind)
			return cached, nil
		}
	}

	results := s.startFetchLocked(key, e, erase(fetch))
	s.mu.Unlock()
	recordMiss(key.Kind)

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-results:
		if res.Shared {
			recordCoalesced(key.Kind)
		}
		if res.Err != nil {
			return zero, res.Err
		}
		value, _ := res.Val.(T)
		return value, nil
	}
}

func erase[T any](fetch func(ctx context.Context) (T, error)) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}
}

func (s *Store) nextSeqLocked() uint64 {
	s.seq++
	return s.seq
}

// startFetchLocked joins or starts the fetch for the entry's current
// generation. The caller holds s.mu.
func (s *Store) startFetchLocked(key Key, e *entry, fetch func(ctx context.Context) (any, error)) <-chan singleflight.Result {
	gen := e.gen
	flightKey := key.String() + "@" + strconv.FormatUint(gen, 10)

	return s.group.DoChan(flightKey, func() (any, error) {
		s.mu.Lock()
		seq := s.nextSeqLocked()
		if e.gen == gen {
			e.issued = seq
		}
		s.mu.Unlock()

		value, err := fetch(s.ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		if err != nil {
			s.logger.Debug().Err(err).Str("key", key.String()).Msg("query cache fetch failed")
			return nil, err
		}
		if s.closed || s.entries[key] != e || e.issued != seq {
			recordSuperseded(key.Kind)
			s.logger.Debug().Str("key", key.String()).Uint64("seq", seq).Msg("dropping superseded fetch result")
			return value, nil
		}

		e.value = value
		e.hasValue = true
		e.fresh = true
		s.notifyLocked(key, Updated)
		return value, nil
	})
}

// Invalidate marks every entry of the user's collection stale, whatever its
// parameters, and supersedes fetches already in flight for them.
func (s *Store) Invalidate(kind Kind, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	for key, e := range s.entries {
		if key.Kind != kind || key.UserID != userID {
			continue
		}
		e.fresh = false
		e.gen = s.nextSeqLocked()
		e.issued = s.nextSeqLocked()
		s.notifyLocked(key, Invalidated)
	}

	for key := range s.subs {
		if key.Kind != kind || key.UserID != userID {
			continue
		}
		if _, ok := s.entries[key]; !ok {
			s.notifyLocked(key, Invalidated)
		}
	}
}

// RemoveUser drops every entry that belongs to the user
func (s *Store) RemoveUser(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	for key := range s.entries {
		if key.UserID != userID {
			continue
		}
		delete(s.entries, key)
		s.notifyLocked(key, Invalidated)
	}
}

// Subscribe delivers the key's events until the returned func is called.
// Sends never block; a subscriber whose buffer is full misses events.
func (s *Store) Subscribe(key Key) (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, s.buffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	s.nextSub++
	id := s.nextSub
	if s.subs[key] == nil {
		s.subs[key] = make(map[uint64]chan Event)
	}
	s.subs[key][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			subs, ok := s.subs[key]
			if !ok {
				return
			}
			if c, ok := subs[id]; ok {
				close(c)
				delete(subs, id)
			}
			if len(subs) == 0 {
				delete(s.subs, key)
			}
		})
	}
}

func (s *Store) notifyLocked(key Key, typ EventType) {
	for _, ch := range s.subs[key] {
		select {
		case ch <- Event{Key: key, Type: typ}:
		default:
			s.logger.Debug().Str("key", key.String()).Stringer("event", typ).Msg("subscriber full, event dropped")
		}
	}
}
