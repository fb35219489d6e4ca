package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/heyso/heyso-go/internal/types"
)

// ListConversations retrieves one page of chat rooms.
func ListConversations(ctx context.Context, hc HTTPClient, baseURL string, page, size int) ([]types.Conversation, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	res, err := Do(ctx, hc, baseURL, http.MethodGet, "/api/aichat/conversations", q, nil)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, httpError("list conversations", res)
	}
	var lr types.ConversationListResponse
	if err := res.Decode(&lr); err != nil {
		return nil, err
	}
	return lr.Conversations, nil
}

// ConversationDetail retrieves one chat room with its recent messages.
func ConversationDetail(ctx context.Context, hc HTTPClient, baseURL string, conversationID int64, messageLimit int) (*types.ConversationDetail, error) {
	q := url.Values{}
	q.Set("messageLimit", strconv.Itoa(messageLimit))
	res, err := Do(ctx, hc, baseURL, http.MethodGet, fmt.Sprintf("/api/aichat/conversations/%d", conversationID), q, nil)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, httpError("conversation detail", res)
	}
	var d types.ConversationDetail
	if err := res.Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ConversationSummary retrieves the server-side summary aggregate.
func ConversationSummary(ctx context.Context, hc HTTPClient, baseURL string, conversationID int64) (*types.ConversationSummary, error) {
	res, err := Do(ctx, hc, baseURL, http.MethodGet, fmt.Sprintf("/api/aichat/conversations/%d/summary", conversationID), nil, nil)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, httpError("conversation summary", res)
	}
	var s types.ConversationSummary
	if res.Data != nil {
		if err := res.Decode(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// CreateConversation opens a new chat room.
func CreateConversation(ctx context.Context, hc HTTPClient, baseURL string, req types.CreateConversationRequest) (*types.Conversation, error) {
	res, err := Do(ctx, hc, baseURL, http.MethodPost, "/api/aichat/conversations", nil, req)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, httpError("create conversation", res)
	}
	var c types.Conversation
	if err := res.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// AssistantReply stores the user message and returns the assistant's answer.
func AssistantReply(ctx context.Context, hc HTTPClient, baseURL string, conversationID int64, req types.SendMessageRequest) (*types.AssistantReplyResponse, error) {
	path := fmt.Sprintf("/api/aichat/conversations/%d/assistant-reply", conversationID)
	res, err := Do(ctx, hc, baseURL, http.MethodPost, path, nil, req)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, httpError("assistant reply", res)
	}
	var ar types.AssistantReplyResponse
	if err := res.Decode(&ar); err != nil {
		return nil, err
	}
	return &ar, nil
}

// RenameConversation changes a chat room's title.
func RenameConversation(ctx context.Context, hc HTTPClient, baseURL string, conversationID int64, req types.RenameConversationRequest) error {
	path := fmt.Sprintf("/api/aichat/conversations/%d/update", conversationID)
	res, err := Do(ctx, hc, baseURL, http.MethodPost, path, nil, req)
	if err != nil {
		return err
	}
	if !res.OK {
		return httpError("rename conversation", res)
	}
	return nil
}

// DeleteConversation removes a chat room.
func DeleteConversation(ctx context.Context, hc HTTPClient, baseURL string, conversationID int64) error {
	path := fmt.Sprintf("/api/aichat/conversations/%d/delete", conversationID)
	res, err := Do(ctx, hc, baseURL, http.MethodPost, path, nil, nil)
	if err != nil {
		return err
	}
	if !res.OK {
		return httpError("delete conversation", res)
	}
	return nil
}
