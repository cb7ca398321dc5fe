package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/logging"
)

// envelope is the uniform response body shape for success and failure alike.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	}

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "message", message)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "message", message)
	}
}

// respondError maps a taxonomy error to its status and renders the shared
// envelope. Unrecognized errors become opaque 500s; internal detail is logged,
// never serialized.
func respondError(ctx context.Context, w http.ResponseWriter, err error, message string) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(ctx).Error("internal error", "error", err)
		if message == "" {
			message = "internal server error"
		}
	}
	if message == "" {
		message = err.Error()
	}

	respondJSON(ctx, w, status, nil, message)
}

// parseID validates an opaque identifier from a path or query parameter. It
// fails with apperr.ErrInvalidArgument before any store call sees the value.
func parseID(raw, field string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", field, apperr.ErrInvalidArgument)
	}
	return id.String(), nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", apperr.ErrInvalidArgument)
	}
	return nil
}
