package cache

import (
	"context"
	"time"
)

// FetchFunc loads the value for one key. It must honour ctx: when a newer
// fetch supersedes this one, ctx is cancelled.
type FetchFunc func(ctx context.Context) (any, error)

// Fetch re-loads key and commits the result, last-writer-wins by issuance
// order: starting a fetch cancels the previous in-flight fetch for the same
// key, and a result only commits while its generation is still current.
//
// On failure the previous cached value (if any) is returned alongside the
// error so a transient failure does not blank the screen. A superseded fetch
// returns ErrSuperseded.
func (s *Store) Fetch(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	s.mu.Lock()
	e := s.ensureLocked(key)
	if e.cancel != nil {
		e.cancel() // supersede the in-flight fetch for this key
	}
	e.generation++
	gen := e.generation
	fctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	s.mu.Unlock()

	fetchesTotal.WithLabelValues(string(key.Entity)).Inc()
	v, err := fn(fctx)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	// The entry may have been dropped (purge) while we were fetching; in
	// that case there is nothing to commit to.
	cur, alive := s.entries[key.String()]
	current := alive && cur == e && e.generation == gen
	if current {
		e.cancel = nil
	}

	if !current {
		commitsDiscardedTotal.WithLabelValues(string(key.Entity)).Inc()
		return nil, ErrSuperseded
	}

	if err != nil {
		// Our own fetch context died but the caller's did not: a newer
		// fetch cancelled us before the generation moved. Treat as
		// superseded rather than a user-visible failure.
		if fctx.Err() != nil && ctx.Err() == nil {
			commitsDiscardedTotal.WithLabelValues(string(key.Entity)).Inc()
			return nil, ErrSuperseded
		}
		fetchFailuresTotal.WithLabelValues(string(key.Entity)).Inc()
		if e.hasValue {
			return e.value, err
		}
		return nil, err
	}

	e.value = v
	e.hasValue = true
	e.stale = false
	e.lastFetchedAt = time.Now()
	return v, nil
}
