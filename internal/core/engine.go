package core

import "context"

const (
	MessageKindAssistant = "assistant"
	MessageKindResult    = "result"

	ResultSuccess = "success"
	ResultError   = "error_during_execution"
)

type EngineRequest struct {
	Prompt         string
	AllowedTools   []string
	SettingsSource string
}

// StreamMessage is one message from the engine's response stream. Only
// messages with Kind == MessageKindResult are terminal; everything else
// is progress output and may be ignored.
type StreamMessage struct {
	Kind    string
	Subtype string
	Text    string
	Result  string
	Errors  []string
}

// Engine executes one agent turn. The returned channel yields a finite
// ordered stream and is closed after the terminal result message, so
// callers can range over it without coordinating shutdown.
type Engine interface {
	Invoke(ctx context.Context, req EngineRequest) (<-chan StreamMessage, error)
}
