// Package memory provides an in-memory StorageAdapter used by tests and
// DEV_MODE, where no Google credentials are available. It mirrors the Drive
// adapter's observable behavior: folder-scoped files, permanent deletes,
// first-page listings, and streamed downloads.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jun/drivebox/internal/adapter"
	"github.com/jun/drivebox/internal/model"
)

const listPageSize = 30

type file struct {
	meta     adapter.FileMetadata
	folderID string
	content  []byte
}

// Adapter implements adapter.StorageAdapter over process memory. One Adapter
// models one account's storage.
type Adapter struct {
	mu       sync.Mutex
	folderID string
	files    map[string]*file
}

// NewAdapter creates an empty in-memory storage account.
func NewAdapter() *Adapter {
	return &Adapter{files: make(map[string]*file)}
}

// EnsureAppFolder returns a stable folder ID for this account, minting one on
// first use.
func (a *Adapter) EnsureAppFolder(_ context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.folderID == "" {
		a.folderID = uuid.New().String()
	}
	return a.folderID, nil
}

// ListFiles returns files in the folder sorted by name, capped at the page
// size like the Drive adapter.
func (a *Adapter) ListFiles(_ context.Context, folderID string) ([]adapter.FileMetadata, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	files := []adapter.FileMetadata{}
	for _, f := range a.files {
		if f.folderID == folderID {
			files = append(files, f.meta)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	if len(files) > listPageSize {
		files = files[:listPageSize]
	}
	return files, nil
}

// CreateFile drains the content stream and stores the file.
func (a *Adapter) CreateFile(_ context.Context, name, mimeType string, content io.Reader, folderID string) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("unable to read content: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	id := uuid.New().String()
	a.files[id] = &file{
		meta: adapter.FileMetadata{
			ID:           id,
			Name:         name,
			MIMEType:     mimeType,
			ModifiedTime: time.Now().UTC().Truncate(time.Second),
		},
		folderID: folderID,
		content:  data,
	}
	return id, nil
}

// RenameFile updates the file's display name.
func (a *Adapter) RenameFile(_ context.Context, fileID, newName string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, ok := a.files[fileID]
	if !ok {
		return adapter.ErrNotFound
	}
	f.meta.Name = newName
	f.meta.ModifiedTime = time.Now().UTC().Truncate(time.Second)
	return nil
}

// DeleteFile removes the file permanently. A second delete of the same ID
// reports ErrNotFound, matching provider behavior.
func (a *Adapter) DeleteFile(_ context.Context, fileID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.files[fileID]; !ok {
		return adapter.ErrNotFound
	}
	delete(a.files, fileID)
	return nil
}

// OpenFile returns the file's metadata and a reader over its bytes.
func (a *Adapter) OpenFile(_ context.Context, fileID string) (*adapter.FileDownload, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, ok := a.files[fileID]
	if !ok {
		return nil, adapter.ErrNotFound
	}
	return &adapter.FileDownload{
		FileMetadata: f.meta,
		Body:         io.NopCloser(bytes.NewReader(f.content)),
	}, nil
}

// Provider implements adapter.StorageProvider, handing each account its own
// Adapter.
type Provider struct {
	mu       sync.Mutex
	accounts map[string]*Adapter
}

// NewProvider creates a new in-memory provider.
func NewProvider() *Provider {
	return &Provider{accounts: make(map[string]*Adapter)}
}

// GetAdapter returns the session account's adapter, creating it on first use.
func (p *Provider) GetAdapter(_ context.Context, sess *model.Session) (adapter.StorageAdapter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, ok := p.accounts[sess.Profile.ID]
	if !ok {
		a = NewAdapter()
		p.accounts[sess.Profile.ID] = a
	}
	return a, nil
}
