// Package session implements the server-side session store. Sessions are
// keyed by opaque tokens; the browser only ever sees the token, never the
// OAuth credentials inside the record.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jun/drivebox/internal/model"
)

// DefaultTTL is the session lifetime, matching the cookie Max-Age.
const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned when no live session exists for a token. Expired
// sessions are reported the same way as missing ones.
var ErrNotFound = errors.New("session not found")

// Store persists session records. Implementations must treat expired records
// as absent on Get.
type Store interface {
	Put(ctx context.Context, sess *model.Session) error
	Get(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
}

// NewToken returns a fresh opaque session token.
func NewToken() string {
	return uuid.New().String()
}
