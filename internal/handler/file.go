package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jun/drivebox/internal/adapter"
	"github.com/jun/drivebox/internal/folder"
	"github.com/jun/drivebox/internal/model"
	"github.com/jun/drivebox/internal/session"
)

// FileHandler handles CRUD operations on files in the app folder.
type FileHandler struct {
	store       session.Store
	provider    adapter.StorageProvider
	provisioner *folder.Provisioner
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(store session.Store, provider adapter.StorageProvider, provisioner *folder.Provisioner) *FileHandler {
	return &FileHandler{store: store, provider: provider, provisioner: provisioner}
}

// authorize resolves the session and the account's storage adapter. On
// failure it writes the response itself and returns ok=false. No provider
// call happens for anonymous requests; the session check comes first.
func (h *FileHandler) authorize(w http.ResponseWriter, r *http.Request) (adapter.StorageAdapter, *model.Session, bool) {
	sess, err := currentSession(r, h.store)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, nil, false
	}

	storage, err := h.provider.GetAdapter(r.Context(), sess)
	if err != nil {
		slog.Error("failed to get storage adapter", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to access storage")
		return nil, nil, false
	}
	return storage, sess, true
}

// Upload streams a multipart file into the app folder and returns the new
// file's ID. The multipart reader is handed straight to the provider call;
// the content is never buffered whole.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	storage, sess, ok := h.authorize(w, r)
	if !ok {
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer f.Close()

	folderID, err := h.provisioner.Ensure(r.Context(), storage, sess)
	if err != nil {
		slog.Error("folder provisioning failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	id, err := storage.CreateFile(r.Context(), header.Filename, header.Header.Get("Content-Type"), f, folderID)
	if err != nil {
		slog.Error("file upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// List returns the files in the app folder, first page only. An empty folder
// yields an empty JSON array.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	storage, sess, ok := h.authorize(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), providerTimeout)
	defer cancel()

	folderID, err := h.provisioner.Ensure(ctx, storage, sess)
	if err != nil {
		slog.Error("folder provisioning failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	files, err := storage.ListFiles(ctx, folderID)
	if err != nil {
		slog.Error("file listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	writeJSON(w, http.StatusOK, files)
}

// Rename updates a file's display name. The file ID is taken from the path
// as-is; the provider's own per-account authorization is the security
// boundary.
func (h *FileHandler) Rename(w http.ResponseWriter, r *http.Request) {
	storage, _, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var input struct {
		NewName string `json:"newName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.NewName == "" {
		writeError(w, http.StatusBadRequest, "New name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), providerTimeout)
	defer cancel()

	if err := storage.RenameFile(ctx, r.PathValue("id"), input.NewName); err != nil {
		slog.Error("file rename failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update file name")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Delete permanently deletes a file. Deleting an already-deleted ID surfaces
// the provider's error rather than being absorbed.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	storage, _, ok := h.authorize(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), providerTimeout)
	defer cancel()

	if err := storage.DeleteFile(ctx, r.PathValue("id")); err != nil {
		slog.Error("file delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Download relays the file's bytes to the browser with the original content
// type and a filename-bearing disposition header. The body is copied straight
// from the provider stream; a client disconnect cancels the provider call via
// the request context.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	storage, _, ok := h.authorize(w, r)
	if !ok {
		return
	}

	dl, err := storage.OpenFile(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("file download failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to download file")
		return
	}
	defer dl.Body.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Name))
	if dl.MIMEType != "" {
		w.Header().Set("Content-Type", dl.MIMEType)
	}
	if _, err := io.Copy(w, dl.Body); err != nil {
		// Headers are already out; nothing to send but the log line.
		slog.Error("download stream interrupted", "error", err)
	}
}
