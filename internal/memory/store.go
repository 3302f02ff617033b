package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/parley/internal/config"
	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
)

const defaultMaxResults = 20

// EventsRepository is the persistence the store client runs on.
// Satisfied by sqlite.EventsRepo.
type EventsRepository interface {
	AppendEvent(ctx context.Context, memoryID, actorID, sessionID string, payload []byte, timestamp time.Time, clientToken string) error
	ListEvents(ctx context.Context, memoryID, actorID, sessionID string, limit int) ([]core.Event, error)
}

// Store implements core.EventStore over an events repository.
//
// The degrade policy for an unconfigured memory id differs between the
// two paths on purpose: reads answer with empty history so a turn can
// still complete, while writes are dropped with a warning instead of
// failing the turn.
type Store struct {
	cfg  *config.MemoryConfig
	repo EventsRepository
	now  func() time.Time
}

func NewStore(cfg *config.MemoryConfig, repo EventsRepository) *Store {
	return &Store{
		cfg:  cfg,
		repo: repo,
		now:  time.Now,
	}
}

func (s *Store) ListEvents(ctx context.Context, p core.ListEventsParams) ([]core.Event, error) {
	logger := log.FromCtx(ctx)

	if !s.cfg.IsConfigured() {
		logger.Warn().Msg("memory id is not set, returning empty history")
		return nil, nil
	}

	limit := p.MaxResults
	if limit <= 0 {
		limit = defaultMaxResults
	}

	events, err := s.repo.ListEvents(ctx, s.cfg.MemoryID, p.ActorID, p.SessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStoreUnavailable, err)
	}

	logger.Debug().
		Int("count", len(events)).
		Str("session_id", p.SessionID).
		Msg("retrieved session events")
	return events, nil
}

func (s *Store) CreateEvent(ctx context.Context, p core.CreateEventParams) error {
	logger := log.FromCtx(ctx)

	if !s.cfg.IsConfigured() {
		logger.Warn().Msg("memory id is not set, dropping event")
		return nil
	}

	text := p.Text
	payload, err := json.Marshal([]payloadItem{{
		Conversational: &conversationalPayload{
			Content: &payloadContent{Text: &text},
			Role:    string(p.Role),
		},
	}})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	timestamp := p.Timestamp
	if timestamp.IsZero() {
		timestamp = s.now()
	}

	token := p.ClientToken
	if token == "" {
		token = uuid.NewString()
	}

	if err := s.repo.AppendEvent(ctx, s.cfg.MemoryID, p.ActorID, p.SessionID, payload, timestamp, token); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreUnavailable, err)
	}

	logger.Debug().
		Str("role", string(p.Role)).
		Str("session_id", p.SessionID).
		Msg("recorded conversation event")
	return nil
}
