package googledrive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jun/drivebox/internal/adapter"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// AppFolderName is the single reserved folder that scopes every file
	// operation this service performs.
	AppFolderName = "Drivebox Files"

	folderMIMEType = "application/vnd.google-apps.folder"

	// listPageSize caps listings at the first page.
	listPageSize = 30

	listFields = "files(id, name, mimeType, modifiedTime)"
)

// DriveAdapter implements adapter.StorageAdapter for Google Drive.
type DriveAdapter struct {
	service *drive.Service
}

// NewDriveAdapter creates a new DriveAdapter.
// client should be an authenticated http.Client carrying the user's token.
func NewDriveAdapter(ctx context.Context, client *http.Client) (*DriveAdapter, error) {
	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive client: %w", err)
	}
	return &DriveAdapter{service: srv}, nil
}

// EnsureAppFolder returns the ID of the app folder, creating it on first use.
// When duplicates exist (two first-time callers in different processes can
// race the create), the first entry in the provider's response order wins;
// that ordering is not guaranteed to be stable.
func (d *DriveAdapter) EnsureAppFolder(ctx context.Context) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", AppFolderName, folderMIMEType)
	r, err := d.service.Files.List().Q(q).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to search for app folder: %w", err)
	}
	if len(r.Files) > 0 {
		return r.Files[0].Id, nil
	}

	f := &drive.File{
		Name:     AppFolderName,
		MimeType: folderMIMEType,
	}
	res, err := d.service.Files.Create(f).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create app folder: %w", err)
	}
	return res.Id, nil
}

// ListFiles lists non-trashed files in the folder, first page only.
func (d *DriveAdapter) ListFiles(ctx context.Context, folderID string) ([]adapter.FileMetadata, error) {
	q := fmt.Sprintf("'%s' in parents and trashed = false", folderID)

	r, err := d.service.Files.List().
		Q(q).
		PageSize(listPageSize).
		Fields(googleapi.Field(listFields)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list files: %w", err)
	}

	files := []adapter.FileMetadata{}
	for _, f := range r.Files {
		files = append(files, toMetadata(f))
	}
	return files, nil
}

// CreateFile streams a new file into the folder and returns its ID.
func (d *DriveAdapter) CreateFile(ctx context.Context, name, mimeType string, content io.Reader, folderID string) (string, error) {
	f := &drive.File{
		Name:    name,
		Parents: []string{folderID},
	}

	call := d.service.Files.Create(f).Fields("id").Context(ctx)
	if mimeType != "" {
		call = call.Media(content, googleapi.ContentType(mimeType))
	} else {
		call = call.Media(content)
	}

	res, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("unable to create file: %w", err)
	}
	return res.Id, nil
}

// RenameFile issues a metadata-only update changing the file's name.
func (d *DriveAdapter) RenameFile(ctx context.Context, fileID, newName string) error {
	f := &drive.File{Name: newName}
	_, err := d.service.Files.Update(fileID, f).Fields("id").Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return adapter.ErrNotFound
		}
		return fmt.Errorf("unable to rename file: %w", err)
	}
	return nil
}

// DeleteFile permanently deletes a file by its ID.
func (d *DriveAdapter) DeleteFile(ctx context.Context, fileID string) error {
	if err := d.service.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		if isNotFound(err) {
			return adapter.ErrNotFound
		}
		return fmt.Errorf("unable to delete file: %w", err)
	}
	return nil
}

// OpenFile fetches the file's metadata and opens a streamed read of its
// bytes. The response body is handed to the caller unbuffered so the relay
// stays bounded in memory; the caller must close it.
func (d *DriveAdapter) OpenFile(ctx context.Context, fileID string) (*adapter.FileDownload, error) {
	f, err := d.service.Files.Get(fileID).
		Fields("id, name, mimeType, modifiedTime").
		Context(ctx).
		Do()
	if err != nil {
		if isNotFound(err) {
			return nil, adapter.ErrNotFound
		}
		return nil, fmt.Errorf("unable to get file metadata: %w", err)
	}

	resp, err := d.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		if isNotFound(err) {
			return nil, adapter.ErrNotFound
		}
		return nil, fmt.Errorf("unable to download file: %w", err)
	}

	return &adapter.FileDownload{
		FileMetadata: toMetadata(f),
		Body:         resp.Body,
	}, nil
}

func toMetadata(f *drive.File) adapter.FileMetadata {
	modTime, _ := time.Parse(time.RFC3339, f.ModifiedTime)
	return adapter.FileMetadata{
		ID:           f.Id,
		Name:         f.Name,
		MIMEType:     f.MimeType,
		ModifiedTime: modTime,
	}
}

func isNotFound(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code == http.StatusNotFound
	}
	return false
}
