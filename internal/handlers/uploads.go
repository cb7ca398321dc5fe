package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/logging"
)

const (
	maxImageUploadBytes = 8 << 20
	maxVideoUploadBytes = 1 << 30
)

// saveUpload streams one multipart file field into the blob store under a
// fresh key. Returns the public URL and the key for later deletion.
func saveUpload(w http.ResponseWriter, r *http.Request, blobs BlobStore, field, prefix string, limit int64) (string, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", "", fmt.Errorf("missing or unreadable %s upload: %w", field, apperr.ErrInvalidArgument)
	}
	defer file.Close()

	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), filepath.Ext(header.Filename))

	url, storedKey, err := blobs.Save(r.Context(), key, file)
	if err != nil {
		return "", "", fmt.Errorf("store %s upload: %w", field, err)
	}
	return url, storedKey, nil
}

// discardUpload removes a stored object after a later step in the request
// failed. Removal failures are logged and swallowed; the request error wins.
func discardUpload(r *http.Request, blobs BlobStore, key string) {
	if key == "" {
		return
	}
	if err := blobs.Delete(r.Context(), key); err != nil {
		logging.FromContext(r.Context()).Warn("orphaned upload not cleaned up", "key", key, "error", err)
	}
}
