package heyso

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/heyso/heyso-go/internal/session"
	"github.com/heyso/heyso-go/internal/types"
)

// fakeBackend is an in-memory rendition of the diary API, just enough
// behavior for end-to-end client scenarios.
type fakeBackend struct {
	mu sync.Mutex

	token   string
	diaries []types.Diary
	nextID  int64

	conversations []types.Conversation
	nextConvID    int64
	nextMsgID     int64

	failAssistant bool // simulate the AI endpoint being down
	validateCode  int  // status for /api/auth/validate, 0 means 200

	monthlyCalls int // how often the monthly aggregate was re-fetched

	srv *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{token: "valid-token", nextID: 1, nextConvID: 1, nextMsgID: 1}

	r := mux.NewRouter()
	r.Use(b.authMiddleware)

	r.HandleFunc("/api/auth/validate", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		code := b.validateCode
		b.mu.Unlock()
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/diary", b.handleListDiaries).Methods(http.MethodGet)
	r.HandleFunc("/api/diary", b.handleCreateDiary).Methods(http.MethodPost)
	r.HandleFunc("/api/diary/monthly", b.handleMonthly).Methods(http.MethodGet)
	r.HandleFunc("/api/diary/mytags", b.handleMyTags).Methods(http.MethodGet)
	r.HandleFunc("/api/diary/{id}", b.handleDiaryDetail).Methods(http.MethodGet)
	r.HandleFunc("/api/diary/{id}/delete", b.handleDeleteDiary).Methods(http.MethodPost)

	r.HandleFunc("/api/aichat/conversations", b.handleListConversations).Methods(http.MethodGet)
	r.HandleFunc("/api/aichat/conversations", b.handleCreateConversation).Methods(http.MethodPost)
	r.HandleFunc("/api/aichat/conversations/{id}", b.handleConversationDetail).Methods(http.MethodGet)
	r.HandleFunc("/api/aichat/conversations/{id}/assistant-reply", b.handleAssistantReply).Methods(http.MethodPost)

	b.srv = httptest.NewServer(r)
	t.Cleanup(b.srv.Close)
	return b
}

// newSignedInClient builds a client whose session already holds the fake
// backend's token, validated against it.
func (b *fakeBackend) newSignedInClient(t *testing.T) *Client {
	t.Helper()
	p := &session.MemoryPersister{}
	require.NoError(t, p.Save(session.Record{AccessToken: b.token, Email: "t@t.t"}))
	c := New(b.srv.URL, WithPersister(p), WithMutationAttempts(1))
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.ValidateAuth(context.Background()))
	require.True(t, c.Session().SignedIn())
	return c
}

func (b *fakeBackend) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		want := "Bearer " + b.token
		b.mu.Unlock()
		if r.Header.Get("Authorization") != want {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *fakeBackend) handleListDiaries(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, types.DiaryListResponse{Diaries: append([]types.Diary(nil), b.diaries...)})
}

func (b *fakeBackend) handleCreateDiary(w http.ResponseWriter, r *http.Request) {
	var req types.SaveDiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.diaries = append([]types.Diary{{
		DiaryID:   id,
		Title:     req.Title,
		ContentMd: req.ContentMd,
		DiaryDate: req.DiaryDate,
		Tags:      req.Tags,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}}, b.diaries...)
	writeJSON(w, types.CreateDiaryResponse{DiaryID: id})
}

func (b *fakeBackend) handleDiaryDetail(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.diaries {
		if d.DiaryID == id {
			writeJSON(w, d)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (b *fakeBackend) handleDeleteDiary(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	next := b.diaries[:0]
	for _, d := range b.diaries {
		if d.DiaryID != id {
			next = append(next, d)
		}
	}
	b.diaries = next
	w.WriteHeader(http.StatusOK)
}

func (b *fakeBackend) handleMonthly(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.monthlyCalls++
	counts := map[string]int{}
	for _, d := range b.diaries {
		if len(d.DiaryDate) >= 7 && d.DiaryDate[:7] == month {
			counts[d.DiaryDate]++
		}
	}
	out := make([]types.MonthlyCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, types.MonthlyCount{DiaryDate: day, DiaryCount: n})
	}
	writeJSON(w, out)
}

func (b *fakeBackend) handleMyTags(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := map[string]struct{}{}
	var tags []string
	for _, d := range b.diaries {
		for _, tag := range d.Tags {
			if _, dup := seen[tag]; !dup {
				seen[tag] = struct{}{}
				tags = append(tags, tag)
			}
		}
	}
	writeJSON(w, types.MyTagsResponse{Tags: tags})
}

func (b *fakeBackend) handleListConversations(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, types.ConversationListResponse{Conversations: append([]types.Conversation(nil), b.conversations...)})
}

func (b *fakeBackend) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req types.CreateConversationRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	defer b.mu.Unlock()
	conv := types.Conversation{ConversationID: b.nextConvID, Title: req.Title, UpdatedAt: time.Now()}
	b.nextConvID++
	b.conversations = append([]types.Conversation{conv}, b.conversations...)
	writeJSON(w, conv)
}

func (b *fakeBackend) handleConversationDetail(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, conv := range b.conversations {
		if conv.ConversationID == id {
			writeJSON(w, types.ConversationDetail{ConversationID: id, Title: conv.Title, Messages: []types.Message{}})
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (b *fakeBackend) handleAssistantReply(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	fail := b.failAssistant
	b.mu.Unlock()
	if fail {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	var req types.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	userID := b.nextMsgID
	assistantID := b.nextMsgID + 1
	b.nextMsgID += 2
	b.mu.Unlock()
	writeJSON(w, types.AssistantReplyResponse{
		UserMessageID:      types.ServerMessageID(userID),
		AssistantMessageID: types.ServerMessageID(assistantID),
		AssistantContent:   "echo: " + req.UserContent,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
