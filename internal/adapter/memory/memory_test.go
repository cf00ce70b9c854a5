package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/jun/drivebox/internal/adapter"
	"github.com/jun/drivebox/internal/model"
)

func TestAdapter_EnsureAppFolder_Stable(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()

	first, err := a.EnsureAppFolder(ctx)
	if err != nil {
		t.Fatalf("EnsureAppFolder failed: %v", err)
	}
	if first == "" {
		t.Fatal("expected non-empty folder ID")
	}

	second, err := a.EnsureAppFolder(ctx)
	if err != nil {
		t.Fatalf("EnsureAppFolder failed: %v", err)
	}
	if second != first {
		t.Errorf("expected stable folder ID, got %q then %q", first, second)
	}
}

func TestAdapter_CreateAndList(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()

	folderID, _ := a.EnsureAppFolder(ctx)

	id, err := a.CreateFile(ctx, "a.txt", "text/plain", strings.NewReader("hi"), folderID)
	if err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty file ID")
	}

	files, err := a.ListFiles(ctx, folderID)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0].ID != id || files[0].Name != "a.txt" || files[0].MIMEType != "text/plain" {
		t.Errorf("unexpected file metadata: %+v", files[0])
	}
}

func TestAdapter_ListEmptyFolder(t *testing.T) {
	a := NewAdapter()

	files, err := a.ListFiles(context.Background(), "no-such-folder")
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if files == nil || len(files) != 0 {
		t.Errorf("expected empty slice, got %v", files)
	}
}

func TestAdapter_ListCapsAtPageSize(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()
	folderID, _ := a.EnsureAppFolder(ctx)

	for i := 0; i < listPageSize+5; i++ {
		name := fmt.Sprintf("file-%02d.txt", i)
		if _, err := a.CreateFile(ctx, name, "text/plain", strings.NewReader("x"), folderID); err != nil {
			t.Fatalf("CreateFile %q failed: %v", name, err)
		}
	}

	files, err := a.ListFiles(ctx, folderID)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(files) != listPageSize {
		t.Errorf("expected %d files, got %d", listPageSize, len(files))
	}
}

func TestAdapter_Rename(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()
	folderID, _ := a.EnsureAppFolder(ctx)

	id, _ := a.CreateFile(ctx, "old.txt", "text/plain", strings.NewReader("x"), folderID)

	if err := a.RenameFile(ctx, id, "new.txt"); err != nil {
		t.Fatalf("RenameFile failed: %v", err)
	}

	files, _ := a.ListFiles(ctx, folderID)
	if files[0].Name != "new.txt" {
		t.Errorf("expected renamed file 'new.txt', got %q", files[0].Name)
	}
}

func TestAdapter_Rename_NotFound(t *testing.T) {
	a := NewAdapter()

	err := a.RenameFile(context.Background(), "missing", "new.txt")
	if !errors.Is(err, adapter.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAdapter_Delete(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()
	folderID, _ := a.EnsureAppFolder(ctx)

	id, _ := a.CreateFile(ctx, "a.txt", "text/plain", strings.NewReader("x"), folderID)

	if err := a.DeleteFile(ctx, id); err != nil {
		t.Fatalf("DeleteFile failed: %v", err)
	}

	files, _ := a.ListFiles(ctx, folderID)
	if len(files) != 0 {
		t.Errorf("expected empty folder after delete, got %d files", len(files))
	}

	// A second delete reports the provider's view, not silent success.
	if err := a.DeleteFile(ctx, id); !errors.Is(err, adapter.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestAdapter_OpenFile(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()
	folderID, _ := a.EnsureAppFolder(ctx)

	id, _ := a.CreateFile(ctx, "a.txt", "text/plain", strings.NewReader("hi"), folderID)

	dl, err := a.OpenFile(ctx, id)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer dl.Body.Close()

	if dl.Name != "a.txt" || dl.MIMEType != "text/plain" {
		t.Errorf("unexpected download metadata: %+v", dl.FileMetadata)
	}
	content, _ := io.ReadAll(dl.Body)
	if string(content) != "hi" {
		t.Errorf("expected content 'hi', got %q", content)
	}
}

func TestAdapter_OpenFile_NotFound(t *testing.T) {
	a := NewAdapter()

	_, err := a.OpenFile(context.Background(), "missing")
	if !errors.Is(err, adapter.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProvider_AccountIsolation(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	sessA := &model.Session{Profile: model.Profile{ID: "user-a"}}
	sessB := &model.Session{Profile: model.Profile{ID: "user-b"}}

	a, err := p.GetAdapter(ctx, sessA)
	if err != nil {
		t.Fatalf("GetAdapter failed: %v", err)
	}
	b, _ := p.GetAdapter(ctx, sessB)

	folderA, _ := a.EnsureAppFolder(ctx)
	a.CreateFile(ctx, "a.txt", "text/plain", strings.NewReader("x"), folderA)

	folderB, _ := b.EnsureAppFolder(ctx)
	files, _ := b.ListFiles(ctx, folderB)
	if len(files) != 0 {
		t.Errorf("expected user-b's folder empty, got %d files", len(files))
	}

	// Same account resolves to the same adapter.
	again, _ := p.GetAdapter(ctx, sessA)
	filesA, _ := again.ListFiles(ctx, folderA)
	if len(filesA) != 1 {
		t.Errorf("expected user-a's file visible through second adapter, got %d", len(filesA))
	}
}
