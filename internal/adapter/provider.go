package adapter

import (
	"context"

	"github.com/jun/drivebox/internal/model"
)

// StorageProvider defines how to get a StorageAdapter for an authenticated
// session. Handlers must resolve the session first; a provider is never
// consulted for anonymous requests.
type StorageProvider interface {
	GetAdapter(ctx context.Context, sess *model.Session) (StorageAdapter, error)
}
