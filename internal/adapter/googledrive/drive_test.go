package googledrive

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"googleapi 404", &googleapi.Error{Code: 404}, true},
		{"wrapped googleapi 404", fmt.Errorf("get: %w", &googleapi.Error{Code: 404}), true},
		{"googleapi 403", &googleapi.Error{Code: 403}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNotFound(tt.err); got != tt.want {
				t.Errorf("isNotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestToMetadata(t *testing.T) {
	f := &drive.File{
		Id:           "f1",
		Name:         "a.txt",
		MimeType:     "text/plain",
		ModifiedTime: "2026-08-30T12:34:56Z",
	}

	meta := toMetadata(f)
	if meta.ID != "f1" || meta.Name != "a.txt" || meta.MIMEType != "text/plain" {
		t.Errorf("unexpected metadata: %+v", meta)
	}

	want := time.Date(2026, 8, 30, 12, 34, 56, 0, time.UTC)
	if !meta.ModifiedTime.Equal(want) {
		t.Errorf("expected modified time %v, got %v", want, meta.ModifiedTime)
	}
}

func TestToMetadata_BadTimestamp(t *testing.T) {
	meta := toMetadata(&drive.File{Id: "f1", ModifiedTime: "not-a-time"})
	if !meta.ModifiedTime.IsZero() {
		t.Errorf("expected zero time for unparseable timestamp, got %v", meta.ModifiedTime)
	}
}
