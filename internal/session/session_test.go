package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyso/heyso-go/internal/types"
)

func storeWithToken(t *testing.T, token string) *Store {
	t.Helper()
	p := &MemoryPersister{}
	require.NoError(t, p.Save(Record{AccessToken: token, Email: "a@b.c", Nickname: "tester"}))
	return NewStore(p)
}

func pingStatus(status int) Pinger {
	return func(context.Context) (int, error) { return status, nil }
}

func TestNewStore_LoadedTokenStartsUnvalidated(t *testing.T) {
	s := storeWithToken(t, "tok")
	sess := s.Current()
	assert.Equal(t, "tok", sess.Token)
	assert.False(t, sess.Validated)
	assert.False(t, sess.SignedIn(), "a loaded token must not count as signed in before validation")
	assert.Equal(t, "tester", s.Profile().Nickname)
}

func TestRevalidate_NoToken_ValidatedAnonymousWithoutNetwork(t *testing.T) {
	s := NewStore(&MemoryPersister{})
	called := false
	err := s.Revalidate(context.Background(), func(context.Context) (int, error) {
		called = true
		return 200, nil
	})
	require.NoError(t, err)
	assert.False(t, called, "anonymous validation must not hit the network")
	assert.Equal(t, Session{Validated: true}, s.Current())
}

func TestRevalidate_FailClosed(t *testing.T) {
	cases := []struct {
		name      string
		ping      Pinger
		wantToken bool
	}{
		{"2xx keeps token", pingStatus(http.StatusOK), true},
		{"204 keeps token", pingStatus(http.StatusNoContent), true},
		{"401 clears token", pingStatus(http.StatusUnauthorized), false},
		{"500 clears token", pingStatus(http.StatusInternalServerError), false},
		{"403 clears token", pingStatus(http.StatusForbidden), false},
		{"transport error clears token", func(context.Context) (int, error) {
			return 0, errors.New("connection refused")
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := storeWithToken(t, "tok")
			require.NoError(t, s.Revalidate(context.Background(), tc.ping))

			sess := s.Current()
			assert.True(t, sess.Validated, "every outcome resolves validation")
			if tc.wantToken {
				assert.Equal(t, "tok", sess.Token)
				assert.True(t, sess.SignedIn())
			} else {
				assert.Empty(t, sess.Token)
				assert.False(t, sess.SignedIn())
			}
		})
	}
}

func TestValidate_RunsOnce(t *testing.T) {
	s := storeWithToken(t, "tok")
	calls := 0
	ping := func(context.Context) (int, error) {
		calls++
		return 200, nil
	}
	require.NoError(t, s.Validate(context.Background(), ping))
	require.NoError(t, s.Validate(context.Background(), ping))
	assert.Equal(t, 1, calls, "bootstrap validation is one-shot")

	// Revalidate is the explicit escape hatch.
	require.NoError(t, s.Revalidate(context.Background(), ping))
	assert.Equal(t, 2, calls)
}

func TestClearAuth_FiresHooksAndClearsPersistence(t *testing.T) {
	p := &MemoryPersister{}
	require.NoError(t, p.Save(Record{AccessToken: "tok"}))
	s := NewStore(p)

	purged := 0
	s.OnClear(func() { purged++ })

	require.NoError(t, s.ClearAuth())
	assert.Equal(t, 1, purged)
	assert.Equal(t, Session{Validated: true}, s.Current())
	assert.Equal(t, types.Profile{}, s.Profile())

	rec, err := p.Load()
	require.NoError(t, err)
	assert.Nil(t, rec, "persisted record must be gone")
}

func TestSetAuth_PersistsAndValidates(t *testing.T) {
	p := &MemoryPersister{}
	s := NewStore(p)
	require.NoError(t, s.SetAuth("tok", types.Profile{UserID: 9, Email: "x@y.z"}))

	assert.True(t, s.Current().SignedIn())
	rec, err := p.Load()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "tok", rec.AccessToken)
	assert.Equal(t, int64(9), rec.UserID)
}
