package core

import (
	"encoding/json"
	"time"
)

const (
	ParleyName      = "Parley"
	ParleyUserAgent = "Parley-Agent/0.1"
	ParleyVersion   = "0.1.0"
)

// Role tags one side of a conversation. Values match what the event
// store records inside conversational payload items.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAssistant Role = "ASSISTANT"
)

func (r Role) Known() bool {
	return r == RoleUser || r == RoleAssistant
}

// Event is one append-only record as the store returns it. The payload
// is kept raw: its item shapes vary by writer, so decoding into
// conversation messages is lenient and happens at read time.
type Event struct {
	ID        int64
	Payload   json.RawMessage
	Timestamp *time.Time
}

// ConversationMessage is one role-tagged transcript entry derived from
// an event payload item. It is rebuilt on every retrieval and never
// persisted; the stored event remains the record of truth.
type ConversationMessage struct {
	Role      Role
	Text      string
	Timestamp *time.Time
}
