package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jun/drivebox/internal/model"
	"github.com/jun/drivebox/internal/session"
)

const (
	// SessionCookie carries the opaque session token.
	SessionCookie = "session_token"

	// stateCookie carries the CSRF state between /auth/begin and the callback.
	stateCookie = "oauth_state"

	sessionMaxAge = 86400
	stateMaxAge   = 600

	// providerTimeout bounds non-streaming provider calls. Streaming
	// operations inherit the request context instead, so a client
	// disconnect cancels the provider call.
	providerTimeout = 30 * time.Second
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// currentSession resolves the session cookie to a live server-side record.
// Any failure (no cookie, unknown token, expired record) reads as
// session.ErrNotFound.
func currentSession(r *http.Request, store session.Store) (*model.Session, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, session.ErrNotFound
	}
	return store.Get(r.Context(), c.Value)
}
