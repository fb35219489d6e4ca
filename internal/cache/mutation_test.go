package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedList(t *testing.T, s *Store, key Key, v any) {
	t.Helper()
	_, err := s.Fetch(context.Background(), key, func(context.Context) (any, error) { return v, nil })
	require.NoError(t, err)
}

func TestRunMutation_ApplyThenReconcile(t *testing.T) {
	s := NewStore()
	key := NewKey("list")
	seedList(t, s, key, []string{"b"})

	var seenDuringCall any
	resp, err := s.RunMutation(context.Background(), Mutation{
		Key: key,
		Apply: func(tx *Tx) {
			prev, _ := tx.Value(key)
			tx.Set(key, append([]string{"temp"}, prev.([]string)...))
		},
		Call: func(context.Context) (any, error) {
			seenDuringCall, _, _ = s.Cached(key)
			return "real", nil
		},
		Reconcile: func(tx *Tx, resp any) {
			prev, _ := tx.Value(key)
			list := prev.([]string)
			next := make([]string, len(list))
			for i, v := range list {
				if v == "temp" {
					v = resp.(string)
				}
				next[i] = v
			}
			tx.Set(key, next)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "real", resp)

	assert.Equal(t, []string{"temp", "b"}, seenDuringCall,
		"the optimistic patch is visible while the call is in flight")
	cached, _, fresh := s.Cached(key)
	assert.Equal(t, []string{"real", "b"}, cached)
	assert.True(t, fresh)
}

func TestRunMutation_FailureRestoresExactSnapshot(t *testing.T) {
	s := NewStore()
	key := NewKey("list")
	extra := NewKey("detail", "1")
	seedList(t, s, key, []int{1, 2})
	s.Invalidate(key) // stale flag must survive the round trip too

	boom := errors.New("network down")
	_, err := s.RunMutation(context.Background(), Mutation{
		Key:   key,
		Extra: []Key{extra},
		Apply: func(tx *Tx) {
			tx.Set(key, []int{0, 1, 2})
			tx.Set(extra, "optimistic")
		},
		Call:           func(context.Context) (any, error) { return nil, boom },
		FailureMessage: "failed",
	})
	require.Error(t, err)

	var ue *UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "failed", ue.Message)
	assert.ErrorIs(t, err, boom)

	cached, ok, fresh := s.Cached(key)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, cached)
	assert.False(t, fresh, "the pre-mutation stale flag is restored, not reset")

	_, ok, _ = s.Cached(extra)
	assert.False(t, ok, "a key created by Apply is removed again, not left behind")
}

func TestRunMutation_FailureWithoutMessagePassesErrorThrough(t *testing.T) {
	s := NewStore()
	boom := errors.New("boom")
	_, err := s.RunMutation(context.Background(), Mutation{
		Key:  NewKey("k"),
		Call: func(context.Context) (any, error) { return nil, boom },
	})
	assert.ErrorIs(t, err, boom)
	var ue *UserError
	assert.False(t, errors.As(err, &ue))
}

func TestRunMutation_SuccessInvalidatesAndDrops(t *testing.T) {
	s := NewStore()
	key := NewKey("list")
	monthly := NewKey("monthly", "2025-06")
	daily1 := NewKey("daily", "2025-06-01")
	daily2 := NewKey("daily", "2025-06-02")
	detail := NewKey("detail", "3")

	for _, k := range []Key{key, monthly, daily1, daily2, detail} {
		seedList(t, s, k, "v")
	}

	_, err := s.RunMutation(context.Background(), Mutation{
		Key:                key,
		Call:               func(context.Context) (any, error) { return nil, nil },
		Invalidate:         []Key{monthly},
		InvalidateEntities: []Entity{"daily"},
		Drop:               []Key{detail},
	})
	require.NoError(t, err)

	_, _, fresh := s.Cached(monthly)
	assert.False(t, fresh)
	_, _, fresh = s.Cached(daily1)
	assert.False(t, fresh)
	_, _, fresh = s.Cached(daily2)
	assert.False(t, fresh)
	_, ok, _ := s.Cached(detail)
	assert.False(t, ok, "dropped keys are gone entirely")
	_, _, fresh = s.Cached(key)
	assert.True(t, fresh, "the primary key itself is untouched on success")
}

func TestRunMutation_TouchingUndeclaredKeyPanics(t *testing.T) {
	s := NewStore()
	declared := NewKey("a")
	undeclared := NewKey("b")

	assert.Panics(t, func() {
		_, _ = s.RunMutation(context.Background(), Mutation{
			Key:   declared,
			Apply: func(tx *Tx) { tx.Set(undeclared, "x") },
			Call:  func(context.Context) (any, error) { return nil, nil },
		})
	})
}

func TestRunMutation_RequiresCall(t *testing.T) {
	s := NewStore()
	_, err := s.RunMutation(context.Background(), Mutation{Key: NewKey("k")})
	assert.Error(t, err)
}

func TestRunMutation_CallerRoutesByPrimaryKey(t *testing.T) {
	s := NewStore()
	var routedKey string
	s.SetCaller(func(ctx context.Context, key string, call func(context.Context) error) error {
		routedKey = key
		return call(ctx)
	})

	key := NewKey("detail", "7")
	_, err := s.RunMutation(context.Background(), Mutation{
		Key:  key,
		Call: func(context.Context) (any, error) { return nil, nil },
	})
	require.NoError(t, err)
	assert.Equal(t, key.String(), routedKey)
}

func TestRunMutation_CallerFailureRollsBack(t *testing.T) {
	s := NewStore()
	s.SetCaller(func(context.Context, string, func(context.Context) error) error {
		return errors.New("queue full")
	})

	key := NewKey("list")
	seedList(t, s, key, "before")

	_, err := s.RunMutation(context.Background(), Mutation{
		Key:   key,
		Apply: func(tx *Tx) { tx.Set(key, "after") },
		Call:  func(context.Context) (any, error) { return "never", nil },
	})
	require.Error(t, err)

	cached, _, _ := s.Cached(key)
	assert.Equal(t, "before", cached, "an enqueue failure rolls back like a call failure")
}
