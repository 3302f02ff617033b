package core

import (
	"context"
	"time"
)

type ListEventsParams struct {
	ActorID    string
	SessionID  string
	MaxResults int
}

type CreateEventParams struct {
	ActorID   string
	SessionID string
	Text      string
	Role      Role
	Timestamp time.Time
	// ClientToken makes the append idempotent: re-submitting the same
	// token must not create a second event.
	ClientToken string
}

// EventStore is the append-only conversation store. Events are keyed by
// (actor, session) and are never mutated or deleted through this port.
type EventStore interface {
	ListEvents(ctx context.Context, p ListEventsParams) ([]Event, error)
	CreateEvent(ctx context.Context, p CreateEventParams) error
}
