package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/pagination"
)

// UsersHandler serves account, channel profile, and watch history endpoints.
type UsersHandler struct {
	users UserStore
	blobs BlobStore
}

func NewUsersHandler(users UserStore, blobs BlobStore) *UsersHandler {
	return &UsersHandler{users: users, blobs: blobs}
}

func (h *UsersHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.users.FindByID(ctx, auth.ViewerFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, toUserResponse(user), "current user")
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (h *UsersHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateAccountRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FullName == "" && req.Email == "" {
		respondError(ctx, w, fmt.Errorf("nothing to update: %w", apperr.ErrInvalidArgument), "")
		return
	}

	user, err := h.users.FindByID(ctx, auth.ViewerFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	user.UpdatedAt = time.Now().UTC()

	if err := h.users.Update(ctx, user); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, toUserResponse(user), "account updated")
}

func (h *UsersHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, "avatar")
}

func (h *UsersHandler) UploadCoverImage(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, "coverImage")
}

// uploadImage stores the new image first, then swaps the reference on the
// account. The previous object is deleted only after the account row points at
// the replacement, so a mid-flight failure never leaves a dangling reference.
func (h *UsersHandler) uploadImage(w http.ResponseWriter, r *http.Request, field string) {
	ctx := r.Context()

	user, err := h.users.FindByID(ctx, auth.ViewerFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	url, key, err := saveUpload(w, r, h.blobs, field, field+"s", maxImageUploadBytes)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	var oldKey string
	switch field {
	case "avatar":
		oldKey = user.AvatarKey
		user.AvatarURL, user.AvatarKey = url, key
	case "coverImage":
		oldKey = user.CoverImageKey
		user.CoverImageURL, user.CoverImageKey = url, key
	}
	user.UpdatedAt = time.Now().UTC()

	if err := h.users.Update(ctx, user); err != nil {
		discardUpload(r, h.blobs, key)
		respondError(ctx, w, err, "")
		return
	}

	discardUpload(r, h.blobs, oldKey)

	logging.FromContext(ctx).Info("profile image updated", "user_id", user.ID, "field", field)
	respondJSON(ctx, w, http.StatusOK, toUserResponse(user), field+" updated")
}

func (h *UsersHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := strings.ToLower(strings.TrimSpace(r.PathValue("username")))
	if username == "" {
		respondError(ctx, w, fmt.Errorf("username is required: %w", apperr.ErrInvalidArgument), "")
		return
	}

	profile, err := h.users.GetChannelProfile(ctx, username, auth.ViewerFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err, "channel not found")
		return
	}

	respondJSON(ctx, w, http.StatusOK, profile, "channel profile")
}

func (h *UsersHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := pagination.ParseParams(r.URL.Query())

	videos, total, err := h.users.GetWatchHistory(ctx, auth.ViewerFromContext(ctx), params)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, pagination.NewPage(videos, total, params), "watch history")
}
