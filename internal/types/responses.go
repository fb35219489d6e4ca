package types

import (
	"encoding/json"
	"time"
)

// ------------------------------
// Response Types
// ------------------------------

// DiaryListResponse wraps the list / daily endpoints response.
type DiaryListResponse struct {
	Diaries []Diary `json:"diaries"`
}

// CreateDiaryResponse tolerates the two shapes the backend has produced:
// {"diaryId": 42} and a bare 42.
type CreateDiaryResponse struct {
	DiaryID int64 `json:"diaryId"`
}

func (r *CreateDiaryResponse) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		r.DiaryID = n
		return nil
	}
	type alias CreateDiaryResponse
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = CreateDiaryResponse(a)
	return nil
}

// MyTagsResponse tolerates {"tags": [...]} and a bare array.
type MyTagsResponse struct {
	Tags []string `json:"tags"`
}

func (r *MyTagsResponse) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		r.Tags = arr
		return nil
	}
	type alias MyTagsResponse
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = MyTagsResponse(a)
	return nil
}

// ConversationListResponse wraps the conversations list endpoint.
type ConversationListResponse struct {
	Conversations []Conversation `json:"conversations"`
}

// ConversationDetail is the cached value for one chat room: the
// conversation header plus its most recent messages.
type ConversationDetail struct {
	ConversationID int64     `json:"conversationId"`
	Title          string    `json:"title,omitempty"`
	Messages       []Message `json:"messages"`
}

// LastServerMessageID returns the id of the newest server-issued message,
// or false when only local messages (or none) are present.
func (d *ConversationDetail) LastServerMessageID() (int64, bool) {
	for i := len(d.Messages) - 1; i >= 0; i-- {
		if n, ok := d.Messages[i].MessageID.Int64(); ok {
			return n, true
		}
	}
	return 0, false
}

// AssistantReplyResponse reconciles the optimistic user message and carries
// the assistant's answer.
type AssistantReplyResponse struct {
	UserMessageID      MessageID `json:"userMessageId"`
	AssistantMessageID MessageID `json:"assistantMessageId"`
	AssistantContent   string    `json:"assistantContent"`
}

// GoogleSignInResponse is the OAuth exchange result.
type GoogleSignInResponse struct {
	AccessToken string `json:"accessToken"`
	Profile
}

// ConversationSummary is an opaque server-side aggregate; the client never
// interprets its fields, only caches and re-fetches it.
type ConversationSummary struct {
	ConversationID int64           `json:"conversationId"`
	Content        json.RawMessage `json:"content,omitempty"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}
