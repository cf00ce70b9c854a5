package googledrive

import (
	"context"
	"fmt"

	"github.com/jun/drivebox/internal/adapter"
	"github.com/jun/drivebox/internal/auth"
	"github.com/jun/drivebox/internal/model"
)

// Provider implements adapter.StorageProvider for Google Drive.
type Provider struct {
	authService *auth.Service
}

// NewProvider creates a new Google Drive provider.
func NewProvider(authService *auth.Service) *Provider {
	return &Provider{authService: authService}
}

// GetAdapter returns a DriveAdapter authenticated with the session's tokens.
func (p *Provider) GetAdapter(ctx context.Context, sess *model.Session) (adapter.StorageAdapter, error) {
	client := p.authService.Client(ctx, sess)

	storage, err := NewDriveAdapter(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive adapter: %w", err)
	}
	return storage, nil
}
