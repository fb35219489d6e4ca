package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Mutation describes one optimistic write as a value object, executed
// uniformly by RunMutation: snapshot, apply, call, reconcile-or-rollback.
type Mutation struct {
	// Key is the primary cache key: it orders the network call (FIFO per
	// key) and is always part of the snapshot.
	Key Key

	// Extra lists additional keys the mutation may touch. Only snapshotted
	// keys may be written by Apply and Reconcile.
	Extra []Key

	// Apply patches the touched keys with the locally-synthesized expected
	// next value, before the server has responded. Optional.
	Apply func(tx *Tx)

	// Call issues the network request and returns the server response.
	Call func(ctx context.Context) (any, error)

	// Reconcile folds the server response into the touched keys: replaces
	// temporary ids with server-issued ones, merges server-only fields.
	// It must be idempotent under duplicate delivery. Optional.
	Reconcile func(tx *Tx, resp any)

	// Invalidate and InvalidateEntities mark derived keys stale on success;
	// aggregates the client cannot re-compute are re-fetched, not patched.
	Invalidate         []Key
	InvalidateEntities []Entity

	// Drop removes keys outright on success (e.g. the detail of a deleted
	// entity).
	Drop []Key

	// FailureMessage is the short localized text surfaced to the user when
	// the call fails; the rollback has already happened by then.
	FailureMessage string
}

// Tx gives Apply and Reconcile scoped access to the snapshotted keys.
// Touching any other key is a programming error and panics: a mutation must
// not alter cache state it cannot roll back.
type Tx struct {
	s       *Store
	allowed map[string]Key
}

// Value returns the cached value for one of the touched keys.
func (t *Tx) Value(key Key) (any, bool) {
	t.check(key)
	e, exists := t.s.entries[key.String()]
	if !exists || !e.hasValue {
		return nil, false
	}
	return e.value, true
}

// Set replaces the cached value for one of the touched keys. The value must
// be a fresh construction; never mutate a previously returned one.
func (t *Tx) Set(key Key, v any) {
	t.check(key)
	t.s.seedLocked(key, v)
}

func (t *Tx) check(key Key) {
	if _, ok := t.allowed[key.String()]; !ok {
		panic(fmt.Sprintf("cache: mutation touched undeclared key %q", key.String()))
	}
}

type snapshot struct {
	key      Key
	value    any
	hasValue bool
	existed  bool
	stale    bool
}

// RunMutation executes m: snapshot the touched keys, apply the optimistic
// patch, route the call through the per-key dispatcher, then reconcile and
// invalidate derived keys on success or restore the exact pre-mutation
// snapshot on failure.
func (s *Store) RunMutation(ctx context.Context, m Mutation) (any, error) {
	if m.Call == nil {
		return nil, errors.New("cache: mutation requires Call")
	}
	mutationsTotal.WithLabelValues(string(m.Key.Entity)).Inc()

	touched := make(map[string]Key, 1+len(m.Extra))
	touched[m.Key.String()] = m.Key
	for _, k := range m.Extra {
		touched[k.String()] = k
	}

	s.mu.Lock()
	snaps := make([]snapshot, 0, len(touched))
	for _, k := range touched {
		snaps = append(snaps, s.snapshotLocked(k))
	}
	tx := &Tx{s: s, allowed: touched}
	if m.Apply != nil {
		m.Apply(tx)
	}
	caller := s.caller
	s.mu.Unlock()

	var resp any
	err := caller(ctx, m.Key.String(), func(cctx context.Context) error {
		r, callErr := m.Call(cctx)
		if callErr != nil {
			return callErr
		}
		resp = r
		return nil
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		for _, snap := range snaps {
			s.restoreLocked(snap)
		}
		mutationRollbacksTotal.WithLabelValues(string(m.Key.Entity)).Inc()
		if m.FailureMessage != "" {
			return nil, &UserError{Message: m.FailureMessage, Err: err}
		}
		return nil, err
	}

	if m.Reconcile != nil {
		m.Reconcile(tx, resp)
	}
	for _, k := range m.Invalidate {
		if e, exists := s.entries[k.String()]; exists {
			e.stale = true
		}
	}
	for _, entity := range m.InvalidateEntities {
		s.invalidateEntityLocked(entity)
	}
	for _, k := range m.Drop {
		s.dropLocked(k.String())
	}
	return resp, nil
}

func (s *Store) snapshotLocked(key Key) snapshot {
	e, exists := s.entries[key.String()]
	if !exists {
		return snapshot{key: key}
	}
	return snapshot{key: key, value: e.value, hasValue: e.hasValue, existed: true, stale: e.stale}
}

// restoreLocked puts a touched key back exactly as snapshotted. A key that
// did not exist before the mutation is removed again, not left behind.
func (s *Store) restoreLocked(snap snapshot) {
	k := snap.key.String()
	if !snap.existed {
		if e, exists := s.entries[k]; exists {
			// Keep the entry if a fetch is racing on it, but erase the
			// optimistic value.
			if e.cancel != nil {
				e.value = nil
				e.hasValue = false
				e.stale = false
				return
			}
			delete(s.entries, k)
		}
		return
	}
	e := s.ensureLocked(snap.key)
	e.value = snap.value
	e.hasValue = snap.hasValue
	e.stale = snap.stale
}

func (s *Store) invalidateEntityLocked(entity Entity) {
	prefix := string(entity)
	for k, e := range s.entries {
		if k == prefix || strings.HasPrefix(k, prefix+"/") {
			e.stale = true
		}
	}
}
