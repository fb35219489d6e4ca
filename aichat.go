package heyso

import (
	"context"
	"time"

	"github.com/heyso/heyso-go/internal/api"
	"github.com/heyso/heyso-go/internal/cache"
	"github.com/heyso/heyso-go/internal/types"
)

// Conversations re-fetches the chat room list.
func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	return fetchAs(ctx, c, keyConversations(conversationsPage, conversationsSize), func(fctx context.Context) ([]Conversation, error) {
		return api.ListConversations(fctx, c.http, c.baseURL, conversationsPage, conversationsSize)
	})
}

// ConversationDetail re-fetches one chat room with its recent messages.
func (c *Client) ConversationDetail(ctx context.Context, conversationID int64) (*ConversationDetail, error) {
	return fetchAs(ctx, c, keyConversation(conversationID, messageLimit), func(fctx context.Context) (*types.ConversationDetail, error) {
		return api.ConversationDetail(fctx, c.http, c.baseURL, conversationID, messageLimit)
	})
}

// ConversationSummary re-fetches the server-side summary aggregate.
func (c *Client) ConversationSummary(ctx context.Context, conversationID int64) (*ConversationSummary, error) {
	return fetchAs(ctx, c, keySummary(conversationID), func(fctx context.Context) (*types.ConversationSummary, error) {
		return api.ConversationSummary(fctx, c.http, c.baseURL, conversationID)
	})
}

// NewConversation opens a chat room, invalidates the list and seeds an empty
// detail so the new room renders without a round trip.
func (c *Client) NewConversation(ctx context.Context) (*Conversation, error) {
	if err := c.requireSignIn(); err != nil {
		return nil, err
	}
	listKey := keyConversations(conversationsPage, conversationsSize)
	m := cache.Mutation{
		Key: listKey,
		Call: func(cctx context.Context) (any, error) {
			return api.CreateConversation(cctx, c.http, c.baseURL, types.CreateConversationRequest{Title: "New chat"})
		},
		InvalidateEntities: []cache.Entity{entityConversations},
		FailureMessage:     MsgCreateConversationFailed,
	}
	resp, err := c.cache.RunMutation(ctx, m)
	if err != nil {
		return nil, err
	}
	conv := resp.(*types.Conversation)
	c.cache.Seed(keyConversation(conv.ConversationID, messageLimit), &types.ConversationDetail{
		ConversationID: conv.ConversationID,
		Title:          conv.Title,
		Messages:       []types.Message{},
	})
	c.cache.Seed(keySummary(conv.ConversationID), (*types.ConversationSummary)(nil))
	return conv, nil
}

// SendMessage appends the outgoing user message optimistically under a
// temporary id, then reconciles it with the server-issued ids and the
// assistant's reply. On failure the conversation is restored exactly as it
// was and the error carries MsgSendMessageFailed.
func (c *Client) SendMessage(ctx context.Context, conversationID int64, text string) (*AssistantReplyResponse, error) {
	if err := c.requireSignIn(); err != nil {
		return nil, err
	}

	detailKey := keyConversation(conversationID, messageLimit)
	listKey := keyConversations(conversationsPage, conversationsSize)
	localID := types.NewLocalMessageID()

	req := types.SendMessageRequest{
		UserContent:            text,
		UserClientMessageID:    localID,
		ParentMessageID:        c.lastServerMessageID(detailKey),
		AssistantContentFormat: "text",
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	m := cache.Mutation{
		Key:   detailKey,
		Extra: []cache.Key{listKey},
		Apply: func(tx *cache.Tx) {
			detail := &types.ConversationDetail{ConversationID: conversationID}
			if prev, ok := tx.Value(detailKey); ok {
				detail = prev.(*types.ConversationDetail)
			}
			next := cloneDetail(detail)
			next.Messages = append(next.Messages, types.Message{
				MessageID: localID,
				Role:      types.RoleUser,
				Content:   text,
				CreatedAt: now,
			})
			tx.Set(detailKey, next)
		},
		Call: func(cctx context.Context) (any, error) {
			return api.AssistantReply(cctx, c.http, c.baseURL, conversationID, req)
		},
		Reconcile: func(tx *cache.Tx, resp any) {
			ar := resp.(*types.AssistantReplyResponse)
			reconcileReply(tx, detailKey, localID, ar)
			bumpConversation(tx, listKey, conversationID)
		},
		Invalidate:     []cache.Key{keySummary(conversationID)},
		FailureMessage: MsgSendMessageFailed,
	}

	resp, err := c.cache.RunMutation(ctx, m)
	if err != nil {
		return nil, err
	}
	return resp.(*types.AssistantReplyResponse), nil
}

// RenameConversation patches the title optimistically in the list and the
// detail, rolling both back if the request fails.
func (c *Client) RenameConversation(ctx context.Context, conversationID int64, title string) error {
	if err := c.requireSignIn(); err != nil {
		return err
	}
	req := types.RenameConversationRequest{Title: title}
	if err := req.Validate(); err != nil {
		return err
	}

	listKey := keyConversations(conversationsPage, conversationsSize)
	detailKey := keyConversation(conversationID, messageLimit)
	m := cache.Mutation{
		Key:   listKey,
		Extra: []cache.Key{detailKey},
		Apply: func(tx *cache.Tx) {
			if prev, ok := tx.Value(listKey); ok {
				list := prev.([]types.Conversation)
				next := make([]types.Conversation, len(list))
				for i, conv := range list {
					if conv.ConversationID == conversationID {
						conv.Title = title
					}
					next[i] = conv
				}
				tx.Set(listKey, next)
			}
			if prev, ok := tx.Value(detailKey); ok {
				detail := cloneDetail(prev.(*types.ConversationDetail))
				detail.Title = title
				tx.Set(detailKey, detail)
			}
		},
		Call: func(cctx context.Context) (any, error) {
			return nil, api.RenameConversation(cctx, c.http, c.baseURL, conversationID, req)
		},
		FailureMessage: MsgRenameConversationFailed,
	}
	_, err := c.cache.RunMutation(ctx, m)
	return err
}

// DeleteConversation removes a chat room, drops its detail and summary keys
// and re-fetches the list (the backend's ordering is trusted). It returns
// the id of the next room the caller should select, or 0 when none remain.
func (c *Client) DeleteConversation(ctx context.Context, conversationID int64) (int64, error) {
	if err := c.requireSignIn(); err != nil {
		return 0, err
	}
	listKey := keyConversations(conversationsPage, conversationsSize)
	m := cache.Mutation{
		Key: listKey,
		Apply: func(tx *cache.Tx) {
			prev, ok := tx.Value(listKey)
			if !ok {
				return
			}
			list := prev.([]types.Conversation)
			next := make([]types.Conversation, 0, len(list))
			for _, conv := range list {
				if conv.ConversationID != conversationID {
					next = append(next, conv)
				}
			}
			tx.Set(listKey, next)
		},
		Call: func(cctx context.Context) (any, error) {
			return nil, api.DeleteConversation(cctx, c.http, c.baseURL, conversationID)
		},
		Drop: []cache.Key{
			keyConversation(conversationID, messageLimit),
			keySummary(conversationID),
		},
		FailureMessage: MsgDeleteConversationFailed,
	}
	if _, err := c.cache.RunMutation(ctx, m); err != nil {
		return 0, err
	}

	list, err := c.Conversations(ctx)
	if err != nil {
		return 0, nil // deletion succeeded; the caller has no room to select
	}
	if len(list) == 0 {
		return 0, nil
	}
	return list[0].ConversationID, nil
}

// lastServerMessageID reads the newest server-issued message id from the
// cached detail, the parent for the next outgoing message.
func (c *Client) lastServerMessageID(detailKey cache.Key) *int64 {
	v, ok, _ := c.cache.Cached(detailKey)
	if !ok {
		return nil
	}
	detail, ok := v.(*types.ConversationDetail)
	if !ok || detail == nil {
		return nil
	}
	if id, ok := detail.LastServerMessageID(); ok {
		return &id
	}
	return nil
}

func cloneDetail(d *types.ConversationDetail) *types.ConversationDetail {
	next := *d
	next.Messages = make([]types.Message, len(d.Messages))
	copy(next.Messages, d.Messages)
	return &next
}

// reconcileReply swaps the temporary user-message id for the server one and
// appends the assistant reply. Idempotent: a duplicate delivery finds
// neither the temporary id nor a missing assistant message.
func reconcileReply(tx *cache.Tx, detailKey cache.Key, localID types.MessageID, ar *types.AssistantReplyResponse) {
	prev, ok := tx.Value(detailKey)
	if !ok {
		return
	}
	detail := cloneDetail(prev.(*types.ConversationDetail))

	for i, msg := range detail.Messages {
		if msg.MessageID == localID && ar.UserMessageID != "" {
			detail.Messages[i].MessageID = ar.UserMessageID
		}
	}

	if ar.AssistantContent != "" {
		assistantID := ar.AssistantMessageID
		if assistantID == "" {
			// Deterministic fallback so a duplicate delivery cannot
			// append the reply twice.
			assistantID = types.MessageID("assistant-for-" + localID.String())
		}
		present := false
		for _, msg := range detail.Messages {
			if msg.MessageID == assistantID {
				present = true
				break
			}
		}
		if !present {
			detail.Messages = append(detail.Messages, types.Message{
				MessageID: assistantID,
				Role:      types.RoleAssistant,
				Content:   ar.AssistantContent,
				CreatedAt: time.Now(),
			})
		}
	}

	tx.Set(detailKey, detail)
}

// bumpConversation moves the room's updatedAt forward in the cached list so
// ordering by recency stays plausible until the next list fetch.
func bumpConversation(tx *cache.Tx, listKey cache.Key, conversationID int64) {
	prev, ok := tx.Value(listKey)
	if !ok {
		return
	}
	list := prev.([]types.Conversation)
	next := make([]types.Conversation, len(list))
	for i, conv := range list {
		if conv.ConversationID == conversationID {
			conv.UpdatedAt = time.Now()
		}
		next[i] = conv
	}
	tx.Set(listKey, next)
}
