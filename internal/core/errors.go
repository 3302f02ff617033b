package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingIdentifier means the caller supplied an empty actor or
// session id. Not retryable.
var ErrMissingIdentifier = errors.New("actor id and session id are required")

// ErrStoreUnavailable means the event store is unreachable or refused
// the call. Retry policy belongs to the caller; writes carry client
// tokens so external retries are safe.
var ErrStoreUnavailable = errors.New("event store unavailable")

// AgentError carries the error strings reported by a non-success
// terminal result from the execution engine.
type AgentError struct {
	Errors []string
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent execution failed: %s", strings.Join(e.Errors, ", "))
}

// PersistError means the assistant turn could not be recorded after the
// engine already produced a reply. Reply holds the computed text so the
// caller can decide whether to surface it anyway.
type PersistError struct {
	Reply string
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to record assistant turn: %v", e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
