package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

// AppendEvent inserts one event. The client token is unique, so a
// retried submission with the same token is a no-op.
func (r *EventsRepo) AppendEvent(ctx context.Context, memoryID, actorID, sessionID string, payload []byte, timestamp time.Time, clientToken string) error {
	query := `INSERT INTO events (memory_id, actor_id, session_id, payload, event_timestamp, client_token)
	          VALUES (?, ?, ?, ?, ?, ?)
	          ON CONFLICT(client_token) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, memoryID, actorID, sessionID, string(payload), timestamp, clientToken)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ListEvents returns the last 'limit' events for a session, oldest
// first. Events are never updated or deleted here: the table is the
// append-only record of the conversation.
func (r *EventsRepo) ListEvents(ctx context.Context, memoryID, actorID, sessionID string, limit int) ([]core.Event, error) {
	// Fetch the LAST 'limit' events by ordering DESC
	query := `SELECT id, payload, event_timestamp FROM events
	          WHERE memory_id = ? AND actor_id = ? AND session_id = ?
	          ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, memoryID, actorID, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []core.Event
	for rows.Next() {
		var ev core.Event
		var payload sql.NullString
		var ts sql.NullTime

		if err := rows.Scan(&ev.ID, &payload, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		ev.Payload = json.RawMessage(payload.String)
		if ts.Valid {
			t := ts.Time
			ev.Timestamp = &t
		}

		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query returned events newest first; reverse back to
	// chronological order for the reader.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(events)).Msg("loaded session events")
	return events, nil
}
