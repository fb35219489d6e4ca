package heyso

import (
	"github.com/heyso/heyso-go/internal/session"
	"github.com/heyso/heyso-go/internal/types"
)

// Public type aliases so SDK consumers can import only the heyso package.

// Domain entities
type (
	Diary        = types.Diary
	TagList      = types.TagList
	MonthlyCount = types.MonthlyCount
	Conversation = types.Conversation
	Message      = types.Message
	MessageID    = types.MessageID
	Role         = types.Role
	Profile      = types.Profile
)

// Requests
type (
	SaveDiaryRequest = types.SaveDiaryRequest
)

// Responses
type (
	ConversationDetail     = types.ConversationDetail
	ConversationSummary    = types.ConversationSummary
	AssistantReplyResponse = types.AssistantReplyResponse
)

// Session state
type (
	Session     = session.Session
	TokenClaims = session.TokenClaims
)

const (
	RoleUser      = types.RoleUser
	RoleAssistant = types.RoleAssistant
)
