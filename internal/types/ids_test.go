package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalMessageID_IsLocalAndUnique(t *testing.T) {
	a := NewLocalMessageID()
	b := NewLocalMessageID()
	assert.True(t, a.IsLocal())
	assert.NotEqual(t, a, b)

	_, numeric := a.Int64()
	assert.False(t, numeric, "local ids must never parse as server ids")
}

func TestServerMessageID_RoundTrip(t *testing.T) {
	id := ServerMessageID(42)
	assert.False(t, id.IsLocal())
	n, ok := id.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(42), n)
}

func TestMessageIDJSON(t *testing.T) {
	// Server ids travel as numbers.
	raw, err := json.Marshal(ServerMessageID(7))
	require.NoError(t, err)
	assert.Equal(t, "7", string(raw))

	// Local ids travel as strings.
	raw, err = json.Marshal(MessageID("local-abc"))
	require.NoError(t, err)
	assert.Equal(t, `"local-abc"`, string(raw))

	var id MessageID
	require.NoError(t, json.Unmarshal([]byte("123"), &id))
	assert.Equal(t, ServerMessageID(123), id)

	require.NoError(t, json.Unmarshal([]byte(`"local-xyz"`), &id))
	assert.Equal(t, MessageID("local-xyz"), id)
}

func TestConversationDetail_LastServerMessageID(t *testing.T) {
	detail := &ConversationDetail{Messages: []Message{
		{MessageID: ServerMessageID(10)},
		{MessageID: ServerMessageID(11)},
		{MessageID: NewLocalMessageID()},
	}}
	n, ok := detail.LastServerMessageID()
	require.True(t, ok)
	assert.Equal(t, int64(11), n, "trailing local messages are skipped")

	onlyLocal := &ConversationDetail{Messages: []Message{{MessageID: NewLocalMessageID()}}}
	_, ok = onlyLocal.LastServerMessageID()
	assert.False(t, ok)

	empty := &ConversationDetail{}
	_, ok = empty.LastServerMessageID()
	assert.False(t, ok)
}
