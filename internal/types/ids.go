package types

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// localIDPrefix marks client-generated message ids awaiting reconciliation.
const localIDPrefix = "local-"

// MessageID holds either a server-issued numeric id or a temporary
// client-generated one. Server ids travel as JSON numbers, local ids as
// strings.
type MessageID string

// NewLocalMessageID returns a fresh temporary id for an outgoing message.
func NewLocalMessageID() MessageID {
	return MessageID(localIDPrefix + uuid.NewString())
}

// ServerMessageID wraps a server-issued numeric id.
func ServerMessageID(n int64) MessageID {
	return MessageID(strconv.FormatInt(n, 10))
}

// IsLocal reports whether the id is client-generated.
func (m MessageID) IsLocal() bool { return strings.HasPrefix(string(m), localIDPrefix) }

// Int64 returns the numeric server id, or false for local/empty ids.
func (m MessageID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(m), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (m MessageID) String() string { return string(m) }

// MarshalJSON emits server ids as numbers and local ids as strings,
// matching what the backend produces.
func (m MessageID) MarshalJSON() ([]byte, error) {
	if n, ok := m.Int64(); ok {
		return json.Marshal(n)
	}
	return json.Marshal(string(m))
}

// UnmarshalJSON accepts both JSON numbers and strings.
func (m *MessageID) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*m = ServerMessageID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = MessageID(s)
	return nil
}
