// Package httpapi exposes the agent over HTTP: a health endpoint and a
// single invocation endpoint for one conversation turn.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sandevgo/parley/internal/config"
	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/ident"
	"github.com/sandevgo/parley/pkg/log"
)

const (
	anonymousActorID      = "anonymous"
	noResponsePlaceholder = "(no response)"
)

// ConversationHandler runs one turn; satisfied by conversation.Controller.
type ConversationHandler interface {
	Handle(ctx context.Context, prompt, actorID, sessionID string) (string, error)
}

type Server struct {
	srv  *http.Server
	conv ConversationHandler
}

func NewServer(cfg *config.AppConfig, conv ConversationHandler) *Server {
	s := &Server{conv: conv}

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/invocations", s.handleInvocations)

	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.srv.Addr).Msg("starting http server")

	// Request contexts derive from the service context so handlers see
	// the process logger.
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type invokeRequest struct {
	Prompt    string `json:"prompt"`
	ActorID   string `json:"actorId"`
	SessionID string `json:"sessionId"`
}

type invokeResponse struct {
	Response  string `json:"response"`
	Status    string `json:"status"`
	ActorID   string `json:"actorId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Details   string `json:"details,omitempty"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Healthy"})
}

func (s *Server) handleInvocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, invokeResponse{
			Response: "method not allowed",
			Status:   "error",
		})
		return
	}

	var req invokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, invokeResponse{
			Response: "invalid JSON body",
			Status:   "error",
		})
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, invokeResponse{
			Response: "prompt is required",
			Status:   "error",
		})
		return
	}

	actorID := resolveActorID(req.ActorID)
	sessionID := resolveSessionID(req.SessionID)

	reply, err := s.conv.Handle(r.Context(), req.Prompt, actorID, sessionID)
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Str("session_id", sessionID).Msg("conversation turn failed")
		writeJSON(w, statusFor(err), invokeResponse{
			Response:  "agent execution failed",
			Status:    "error",
			ActorID:   actorID,
			SessionID: sessionID,
			Details:   err.Error(),
		})
		return
	}

	if reply == "" {
		reply = noResponsePlaceholder
	}

	writeJSON(w, http.StatusOK, invokeResponse{
		Response:  reply,
		Status:    "success",
		ActorID:   actorID,
		SessionID: sessionID,
	})
}

// resolveActorID never trusts the raw value as-is: blank falls back to
// the anonymous actor, and anything outside the store's identifier
// pattern is hashed into a conforming hex id.
func resolveActorID(raw string) string {
	actorID := strings.TrimSpace(raw)
	if actorID == "" {
		return anonymousActorID
	}
	if !ident.Valid(actorID) {
		return ident.Hash(actorID)
	}
	return actorID
}

func resolveSessionID(raw string) string {
	sessionID := strings.TrimSpace(raw)
	if sessionID == "" {
		return uuid.NewString()
	}
	return sessionID
}

func statusFor(err error) int {
	if errors.Is(err, core.ErrMissingIdentifier) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
