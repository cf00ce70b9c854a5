package model

import "time"

// Profile is the user's identity as reported by Google after the OAuth2
// consent step. All fields come from the userinfo endpoint.
type Profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Session is a server-side session record keyed by an opaque Token the browser
// carries in a cookie. It holds the profile and the OAuth2 token set obtained
// in the callback. FolderID caches the app folder once provisioned; empty
// means not yet looked up.
type Session struct {
	Token        string    `json:"token"`
	Profile      Profile   `json:"profile"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenExpiry  time.Time `json:"token_expiry"`
	FolderID     string    `json:"folder_id"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session itself (not the access token) is past
// its lifetime. Expired sessions are treated as absent.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
