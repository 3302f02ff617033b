package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/parley/internal/config"
	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/internal/memory"
	"github.com/sandevgo/parley/pkg/log"
)

// Controller runs one conversation turn end to end: retrieve history,
// build the prompt envelope, record the user turn, invoke the engine,
// record the assistant turn.
//
// Concurrent turns on the same session are not coordinated here. The
// store is the single source of truth and readers re-derive message
// order from event timestamps, so interleaved writes stay readable.
type Controller struct {
	store    core.EventStore
	engine   core.Engine
	prompter *memory.SysPrompt

	windowSize     int
	allowedTools   []string
	settingsSource string
	now            func() time.Time
}

func NewController(
	appCfg *config.AppConfig,
	engCfg *config.EngineConfig,
	store core.EventStore,
	engine core.Engine,
	prompter *memory.SysPrompt,
) *Controller {
	return &Controller{
		store:          store,
		engine:         engine,
		prompter:       prompter,
		windowSize:     appCfg.HistoryWindowSize,
		allowedTools:   engCfg.AllowedTools,
		settingsSource: engCfg.SettingsSource,
		now:            time.Now,
	}
}

// Handle returns the assistant's reply text for one prompt. The reply
// may be empty on an empty successful engine result; callers render a
// placeholder rather than treating that as an error.
func (c *Controller) Handle(ctx context.Context, prompt, actorID, sessionID string) (string, error) {
	logger := log.FromCtx(ctx)

	if strings.TrimSpace(actorID) == "" || strings.TrimSpace(sessionID) == "" {
		return "", core.ErrMissingIdentifier
	}

	events, err := c.store.ListEvents(ctx, core.ListEventsParams{
		ActorID:    actorID,
		SessionID:  sessionID,
		MaxResults: c.windowSize,
	})
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}

	messages := memory.Normalize(events)
	envelope := memory.Assemble(c.prompter.Build(), "", messages, prompt)

	// Record the user turn before invoking the engine, so the utterance
	// survives even if the engine call fails.
	err = c.store.CreateEvent(ctx, core.CreateEventParams{
		ActorID:     actorID,
		SessionID:   sessionID,
		Text:        prompt,
		Role:        core.RoleUser,
		Timestamp:   c.now(),
		ClientToken: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to record user turn: %w", err)
	}

	stream, err := c.engine.Invoke(ctx, core.EngineRequest{
		Prompt:         envelope,
		AllowedTools:   c.allowedTools,
		SettingsSource: c.settingsSource,
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke engine: %w", err)
	}

	var reply string
	for msg := range stream {
		if msg.Kind != core.MessageKindResult {
			continue
		}
		if msg.Subtype != core.ResultSuccess {
			// Drain so the producer can exit.
			for range stream {
			}
			return "", &core.AgentError{Errors: msg.Errors}
		}
		reply = msg.Result
	}

	err = c.store.CreateEvent(ctx, core.CreateEventParams{
		ActorID:     actorID,
		SessionID:   sessionID,
		Text:        reply,
		Role:        core.RoleAssistant,
		Timestamp:   c.now(),
		ClientToken: uuid.NewString(),
	})
	if err != nil {
		// The reply exists but memory is now behind; surface that
		// distinctly and let the caller decide what to show.
		return "", &core.PersistError{Reply: reply, Err: err}
	}

	logger.Info().
		Str("session_id", sessionID).
		Int("history_messages", len(messages)).
		Msg("conversation turn completed")
	return reply, nil
}
