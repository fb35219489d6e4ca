package types

import "time"

// ------------------------------
// Core Domain Entities
// ------------------------------

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAssistant Role = "ASSISTANT"
)

// Diary represents a single journal entry tied to a calendar date.
// The server is authoritative; the client cache holds a read-through copy.
type Diary struct {
	DiaryID   int64     `json:"diaryId"`
	Title     string    `json:"title"`
	ContentMd string    `json:"contentMd"`
	DiaryDate string    `json:"diaryDate"` // YYYY-MM-DD
	Tags      TagList   `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	AuthorID  int64     `json:"authorId,omitempty"`
}

// MonthlyCount is one day's entry count inside a month bucket.
type MonthlyCount struct {
	DiaryDate  string `json:"diaryDate"` // YYYY-MM-DD
	DiaryCount int    `json:"diaryCount"`
}

// Conversation represents an AI chat room.
type Conversation struct {
	ConversationID     int64     `json:"conversationId"`
	Title              string    `json:"title"`
	Model              string    `json:"model,omitempty"`
	SystemMessage      string    `json:"systemMessage,omitempty"`
	Temperature        float64   `json:"temperature,omitempty"`
	MaxContextMessages int       `json:"maxContextMessages,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Message is one chat message. Messages are append-only within a
// conversation; a locally created user message carries a temporary id
// until the server response supplies the authoritative one.
type Message struct {
	MessageID MessageID `json:"messageId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile carries the account fields returned by the OAuth exchange.
type Profile struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	Nickname string `json:"nickname,omitempty"`
	Role     string `json:"role,omitempty"`
}
