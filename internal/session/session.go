// Package session is the single source of truth for the current bearer token
// and its validation state. Every outbound request reads the token from here;
// only SetAuth, ClearAuth and Validate may write it.
package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/heyso/heyso-go/internal/types"
)

// Session is the in-memory auth state. Validated is false exactly until the
// first validation round-trip completes; after that it stays true unless the
// state is explicitly reset.
type Session struct {
	Token     string
	Validated bool
}

// SignedIn reports whether a token is present and validated.
func (s Session) SignedIn() bool { return s.Validated && s.Token != "" }

// Pinger issues the lightweight authenticated validation request and returns
// the HTTP status. A transport failure returns a non-nil error.
type Pinger func(ctx context.Context) (int, error)

// Store holds the session, persists it durably and notifies dependents when
// the session is cleared.
type Store struct {
	mu        sync.RWMutex
	sess      Session
	profile   types.Profile
	attempted bool // bootstrap validation ran (guard, distinct from Validated)
	persist   Persister
	onClear   []func()
}

// NewStore builds a Store seeded from persisted state, if any. The session
// starts unvalidated even when a token was loaded.
func NewStore(p Persister) *Store {
	s := &Store{persist: p}
	rec, err := p.Load()
	if err != nil {
		log.Warn().Err(err).Msg("session: failed to load persisted auth, starting anonymous")
		return s
	}
	if rec != nil {
		s.sess.Token = rec.AccessToken
		s.profile = rec.profileFields()
	}
	return s
}

// Current returns the session state.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess
}

// Token returns the current bearer token, possibly empty.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.Token
}

// Profile returns the signed-in account's profile fields.
func (s *Store) Profile() types.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// OnClear registers a hook invoked after the session is cleared. Dependent
// caches use this to purge themselves.
func (s *Store) OnClear(fn func()) {
	s.mu.Lock()
	s.onClear = append(s.onClear, fn)
	s.mu.Unlock()
}

// SetAuth persists the token and profile and marks the session validated.
func (s *Store) SetAuth(token string, profile types.Profile) error {
	s.mu.Lock()
	s.sess = Session{Token: token, Validated: true}
	s.profile = profile
	s.mu.Unlock()
	return s.persist.Save(recordFor(token, profile))
}

// ClearAuth wipes persisted state, resets to anonymous-validated and fires
// the registered purge hooks.
func (s *Store) ClearAuth() error {
	s.mu.Lock()
	s.sess = Session{Validated: true}
	s.profile = types.Profile{}
	hooks := s.onClear
	s.mu.Unlock()

	err := s.persist.Clear()
	for _, fn := range hooks {
		fn()
	}
	return err
}

// Validate runs the bootstrap validation at most once per process. Later
// calls are no-ops; use Revalidate to force another round trip.
func (s *Store) Validate(ctx context.Context, ping Pinger) error {
	s.mu.Lock()
	if s.attempted {
		s.mu.Unlock()
		return nil
	}
	s.attempted = true
	s.mu.Unlock()
	return s.Revalidate(ctx, ping)
}

// Revalidate confirms the stored token against the server.
//
// No token: validated anonymous, no network call. 2xx keeps the token.
// 401 means the token is definitively dead. Anything else - other statuses,
// transport failure - also clears the token: an ambiguous result must not
// leave a possibly-invalid token active (fail closed, not fail open).
func (s *Store) Revalidate(ctx context.Context, ping Pinger) error {
	s.mu.Lock()
	token := s.sess.Token
	s.mu.Unlock()

	if token == "" {
		s.mu.Lock()
		s.sess = Session{Validated: true}
		s.mu.Unlock()
		return nil
	}

	status, err := ping(ctx)
	switch {
	case err == nil && status >= 200 && status < 300:
		s.mu.Lock()
		s.sess.Validated = true
		s.mu.Unlock()
		return nil
	case err == nil && status == http.StatusUnauthorized:
		log.Info().Msg("session: stored token rejected by server, signing out")
		return s.clearValidated()
	default:
		log.Warn().Err(err).Int("status", status).Msg("session: ambiguous validation result, failing closed")
		return s.clearValidated()
	}
}

func (s *Store) clearValidated() error {
	if err := s.ClearAuth(); err != nil {
		return err
	}
	return nil
}
