package cache

import (
	"context"
	"sync"
	"time"
)

// Caller routes a mutation's network call; the client wires this to the
// per-key FIFO dispatcher. The default runs the call inline.
type Caller func(ctx context.Context, key string, call func(context.Context) error) error

type entry struct {
	value         any
	hasValue      bool
	lastFetchedAt time.Time
	stale         bool

	// generation guards commit order: a fetch may only commit while its
	// generation is still current for the key.
	generation uint64
	cancel     context.CancelFunc // cancels the in-flight fetch, if any
}

// Store is the keyed cache. Values are treated as immutable once stored;
// patches must build new values, never modify a returned one in place.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	caller  Caller
}

// NewStore builds an empty cache.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
		caller: func(ctx context.Context, _ string, call func(context.Context) error) error {
			return call(ctx)
		},
	}
}

// SetCaller installs the mutation call router. Must be set before use.
func (s *Store) SetCaller(c Caller) {
	s.mu.Lock()
	s.caller = c
	s.mu.Unlock()
}

// Cached returns the last committed value for key. fresh is false when the
// entry is missing or has been invalidated since its last fetch.
func (s *Store) Cached(key Key) (value any, ok bool, fresh bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.entries[key.String()]
	if !exists || !e.hasValue {
		return nil, false, false
	}
	return e.value, true, !e.stale
}

// LastFetchedAt reports when key last committed a fetch.
func (s *Store) LastFetchedAt(key Key) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.entries[key.String()]
	if !exists || e.lastFetchedAt.IsZero() {
		return time.Time{}, false
	}
	return e.lastFetchedAt, true
}

// Invalidate marks key stale so the next read re-fetches instead of trusting
// the cached value. Used for derived aggregates the client cannot patch
// correctly (monthly counts, day buckets, summaries).
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, exists := s.entries[key.String()]; exists {
		e.stale = true
	}
}

// InvalidateEntity marks every key of the entity stale.
func (s *Store) InvalidateEntity(entity Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateEntityLocked(entity)
}

// Drop removes key entirely, cancelling any in-flight fetch.
func (s *Store) Drop(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(key.String())
}

// Purge empties the whole cache. Hooked to sign-out.
func (s *Store) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		s.dropLocked(k)
	}
}

func (s *Store) dropLocked(k string) {
	if e, exists := s.entries[k]; exists {
		if e.cancel != nil {
			e.cancel()
		}
		delete(s.entries, k)
	}
}

// Seed stores an authoritative value for key without a fetch, used when a
// mutation already knows the next state (e.g. a freshly created empty
// conversation).
func (s *Store) Seed(key Key, v any) {
	s.mu.Lock()
	s.seedLocked(key, v)
	s.mu.Unlock()
}

func (s *Store) seedLocked(key Key, v any) {
	e := s.ensureLocked(key)
	e.value = v
	e.hasValue = true
	e.stale = false
}

func (s *Store) ensureLocked(key Key) *entry {
	k := key.String()
	e, exists := s.entries[k]
	if !exists {
		e = &entry{}
		s.entries[k] = e
	}
	return e
}
