package types

// ------------------------------
// Request Types
// ------------------------------

// SaveDiaryRequest creates a new diary when DiaryID is zero and fully
// replaces the existing one otherwise. Partial updates are not supported.
type SaveDiaryRequest struct {
	DiaryID   int64   `json:"diaryId,omitempty"`
	Title     string  `json:"title"`
	ContentMd string  `json:"contentMd"`
	DiaryDate string  `json:"diaryDate"` // YYYY-MM-DD
	Tags      TagList `json:"tags"`
}

// SendMessageRequest asks the backend to store the user message and
// produce an assistant reply in one round trip.
type SendMessageRequest struct {
	UserContent            string    `json:"userContent"`
	UserClientMessageID    MessageID `json:"userClientMessageId"`
	ParentMessageID        *int64    `json:"parentMessageId,omitempty"`
	AssistantContentFormat string    `json:"assistantContentFormat"`
}

// CreateConversationRequest opens a new chat room.
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// RenameConversationRequest changes a chat room's title.
type RenameConversationRequest struct {
	Title string `json:"title"`
}

// GoogleSignInRequest exchanges a Google id token for a bearer token.
type GoogleSignInRequest struct {
	IDToken string `json:"idToken"`
}
