package heyso

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyso/heyso-go/internal/session"
)

func TestNew_PanicsOnEmptyBaseURL(t *testing.T) {
	assert.Panics(t, func() { New("") })
}

func TestNew_PanicsOnBadOption(t *testing.T) {
	assert.Panics(t, func() { New("http://localhost", WithHTTPTimeout(0)) })
	assert.Panics(t, func() { New("http://localhost", WithPersister(nil)) })
	assert.Panics(t, func() { New("http://localhost", WithMutationAttempts(0)) })
}

func TestClose_Idempotent(t *testing.T) {
	c := New("http://localhost", WithPersister(&session.MemoryPersister{}))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestReads_BeforeSignInReturnErrNotSignedIn(t *testing.T) {
	c := New("http://localhost:1", WithPersister(&session.MemoryPersister{}))
	defer func() { _ = c.Close() }()

	ctx := context.Background()
	_, err := c.Diaries(ctx, DefaultPage, DefaultSize)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = c.Conversations(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = c.MyTags(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = c.SaveDiary(ctx, SaveDiaryRequest{Title: "t", DiaryDate: "2025-01-01"})
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestBearerTransport_InjectsTokenAtRequestTime(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := &session.MemoryPersister{}
	c := New(srv.URL, WithPersister(p))
	defer func() { _ = c.Close() }()

	// Anonymous request carries no header at all.
	_, err := c.http.Get(srv.URL + "/x")
	require.NoError(t, err)
	assert.Empty(t, got)

	// After sign-in the same client sends the token; no reconstruction.
	require.NoError(t, c.session.SetAuth("tok-123", Profile{}))
	_, err = c.http.Get(srv.URL + "/x")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", got)

	// And sign-out takes effect immediately.
	require.NoError(t, c.session.ClearAuth())
	_, err = c.http.Get(srv.URL + "/x")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecentFirst_SortsCopyDescendingByID(t *testing.T) {
	in := []Diary{{DiaryID: 1}, {DiaryID: 3}, {DiaryID: 2}}
	out := RecentFirst(in)
	assert.Equal(t, []Diary{{DiaryID: 3}, {DiaryID: 2}, {DiaryID: 1}}, out)
	assert.Equal(t, []Diary{{DiaryID: 1}, {DiaryID: 3}, {DiaryID: 2}}, in, "input slice untouched")
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Empty(t, UserMessage(context.Canceled))
	assert.Equal(t, "boom", UserMessage(&UserError{Message: "boom"}))
}
