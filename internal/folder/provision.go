// Package folder provisions the per-account application folder.
package folder

import (
	"context"
	"log/slog"

	"github.com/jun/drivebox/internal/adapter"
	"github.com/jun/drivebox/internal/model"
	"github.com/jun/drivebox/internal/session"
	"golang.org/x/sync/singleflight"
)

// Provisioner resolves the app folder for a session, creating it on first
// use. First-use provisioning is serialized per account with a single-flight
// group so concurrent requests in this process cannot race the check-then-act
// window and create duplicate folders. Other processes can still race; the
// adapter documents that tie-break.
type Provisioner struct {
	group singleflight.Group
	store session.Store
}

// NewProvisioner creates a Provisioner that caches folder IDs on the session
// records in store.
func NewProvisioner(store session.Store) *Provisioner {
	return &Provisioner{store: store}
}

// Ensure returns the app folder ID for the session's account. The ID is
// cached on the session after the first resolution, so subsequent requests
// skip the provider lookup entirely.
func (p *Provisioner) Ensure(ctx context.Context, storage adapter.StorageAdapter, sess *model.Session) (string, error) {
	if sess.FolderID != "" {
		return sess.FolderID, nil
	}

	v, err, _ := p.group.Do(sess.Profile.ID, func() (interface{}, error) {
		return storage.EnsureAppFolder(ctx)
	})
	if err != nil {
		return "", err
	}
	folderID := v.(string)

	sess.FolderID = folderID
	if err := p.store.Put(ctx, sess); err != nil {
		// The folder exists regardless; the next request just looks it up again.
		slog.Warn("failed to cache app folder id on session", "error", err)
	}

	return folderID, nil
}
