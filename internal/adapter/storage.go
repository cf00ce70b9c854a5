package adapter

import (
	"context"
	"io"
	"time"
)

// FileMetadata represents metadata about a file stored in the cloud storage.
// The provider owns these fields; nothing is cached locally.
type FileMetadata struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MIMEType     string    `json:"mimeType"`
	ModifiedTime time.Time `json:"modifiedTime"`
}

// FileDownload couples file metadata with a streamed body. The caller owns
// Body and must close it.
type FileDownload struct {
	FileMetadata
	Body io.ReadCloser
}

// StorageAdapter defines the interface for interacting with cloud storage
// services. This abstraction allows switching between providers (Google
// Drive, an in-memory fake for tests) without changing handler logic.
// Content is always passed as a stream so memory use stays bounded
// regardless of file size.
type StorageAdapter interface {
	// ListFiles lists non-trashed files in a folder. First page only,
	// capped at the adapter's page size. An empty folder yields an empty
	// slice, not an error.
	ListFiles(ctx context.Context, folderID string) ([]FileMetadata, error)

	// CreateFile streams a new file into the folder and returns its ID.
	CreateFile(ctx context.Context, name, mimeType string, content io.Reader, folderID string) (string, error)

	// RenameFile updates a file's display name.
	RenameFile(ctx context.Context, fileID, newName string) error

	// DeleteFile permanently deletes a file (not a move to trash).
	DeleteFile(ctx context.Context, fileID string) error

	// OpenFile opens a streamed read of the file's bytes together with its
	// metadata.
	OpenFile(ctx context.Context, fileID string) (*FileDownload, error)

	// EnsureAppFolder returns the app folder's ID, creating the folder on
	// first use.
	EnsureAppFolder(ctx context.Context) (string, error)
}
