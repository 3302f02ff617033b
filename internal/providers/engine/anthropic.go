// Package engine adapts external agent-execution backends to the
// core.Engine port.
package engine

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sandevgo/parley/internal/config"
	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
	"github.com/sandevgo/parley/pkg/retry"
)

const maxReplyTokens = 4096

type Anthropic struct {
	client  *anthropic.Client
	model   anthropic.Model
	retrier *retry.Retrier
}

// NewAnthropic builds the engine adapter. The API key is read from the
// environment by the SDK itself.
func NewAnthropic(cfg *config.EngineConfig) *Anthropic {
	c := anthropic.NewClient()
	return &Anthropic{
		client:  &c,
		model:   anthropic.Model(cfg.Model),
		retrier: retry.NewDefaultRetrier(),
	}
}

// Invoke runs one turn and replays the backend response as the engine
// message stream: progress messages first, one terminal result last.
// Backend failures surface as a non-success result, never as a panic or
// a half-open stream; the channel is always closed.
func (a *Anthropic) Invoke(ctx context.Context, req core.EngineRequest) (<-chan core.StreamMessage, error) {
	logger := log.FromCtx(ctx)

	if len(req.AllowedTools) > 0 {
		// Capability names travel with the request, but this backend has
		// no tool schemas configured, so nothing is offered to the model.
		logger.Debug().Strs("allowed_tools", req.AllowedTools).Msg("tool capabilities requested, none configured")
	}

	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: int64(maxReplyTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	var msg *anthropic.Message
	err := a.retrier.Do(ctx, func() error {
		m, err := a.client.Messages.New(ctx, params)
		if err != nil {
			if !transient(err) {
				return retry.Permanent(err)
			}
			return err
		}
		msg = m
		return nil
	})

	out := make(chan core.StreamMessage, 2)
	defer close(out)

	if err != nil {
		logger.Error().Err(err).Msg("engine backend call failed")
		out <- core.StreamMessage{
			Kind:    core.MessageKindResult,
			Subtype: core.ResultError,
			Errors:  []string{err.Error()},
		}
		return out, nil
	}

	text := foldText(msg)
	out <- core.StreamMessage{Kind: core.MessageKindAssistant, Text: text}
	out <- core.StreamMessage{
		Kind:    core.MessageKindResult,
		Subtype: core.ResultSuccess,
		Result:  text,
	}
	return out, nil
}

func foldText(msg *anthropic.Message) string {
	var sb strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	return sb.String()
}

// transient reports whether the backend failure is worth another
// attempt. Auth and request-shape errors are not; overload, rate limits
// and transport drops are.
func transient(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return true
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return true
		default:
			return false
		}
	}
	// No structured API error: connection-level failure.
	return true
}
