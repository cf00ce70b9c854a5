package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jun/drivebox/internal/auth"
	"github.com/jun/drivebox/internal/model"
	"github.com/jun/drivebox/internal/session"
)

// AuthHandler handles the OAuth2 flow and session lifecycle.
type AuthHandler struct {
	authService *auth.Service
	store       session.Store
	devMode     bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service, store session.Store, devMode bool) *AuthHandler {
	return &AuthHandler{authService: authService, store: store, devMode: devMode}
}

func (h *AuthHandler) sameSite() http.SameSite {
	// Lax in dev; None in production where the frontend may be served from
	// a different origin behind the CDN.
	if h.devMode {
		return http.SameSiteLaxMode
	}
	return http.SameSiteNoneMode
}

// Begin redirects the browser to Google's consent screen. The random state is
// pinned in a short-lived cookie and verified in the callback.
func (h *AuthHandler) Begin(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   stateMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.authService.AuthURL(state), http.StatusFound)
}

// Callback handles the OAuth2 redirect from Google: it verifies the state,
// exchanges the single-use code, fetches the profile, and creates the
// server-side session. A failed exchange is surfaced to the user and never
// retried, since the code is already spent.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state := r.URL.Query().Get("state")
	stateCk, err := r.Cookie(stateCookie)
	if err != nil || state == "" || stateCk.Value != state {
		writeError(w, http.StatusBadRequest, "Invalid state parameter")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Missing code")
		return
	}

	token, err := h.authService.Exchange(ctx, code)
	if err != nil {
		slog.Error("code exchange failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	profile, err := h.authService.FetchProfile(ctx, token)
	if err != nil {
		slog.Error("userinfo fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	now := time.Now()
	sess := &model.Session{
		Token:        session.NewToken(),
		Profile:      profile,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
		CreatedAt:    now,
		ExpiresAt:    now.Add(session.DefaultTTL),
	}
	if err := h.store.Put(ctx, sess); err != nil {
		slog.Error("failed to store session", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.sameSite(),
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// GetUser returns the current user's profile.
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	sess, err := currentSession(r, h.store)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, sess.Profile)
}

// Logout deletes the server-side session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if err := h.store.Delete(r.Context(), c.Value); err != nil {
			slog.Error("failed to delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.sameSite(),
	})
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
