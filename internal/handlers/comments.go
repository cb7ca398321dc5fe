package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/ownership"
	"github.com/vidtube/backend/internal/pagination"
)

// CommentsHandler serves comment CRUD and per-video comment listings.
type CommentsHandler struct {
	comments CommentStore
	videos   VideoStore
}

func NewCommentsHandler(comments CommentStore, videos VideoStore) *CommentsHandler {
	return &CommentsHandler{comments: comments, videos: videos}
}

type commentRequest struct {
	Content string `json:"content"`
}

type commentResponse struct {
	ID      string `json:"id"`
	VideoID string `json:"videoId"`
	OwnerID string `json:"ownerId"`
	Content string `json:"content"`
}

func (h *CommentsHandler) ListForVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := pagination.ParseParams(r.URL.Query())

	videoID, err := parseID(r.PathValue("videoId"), "videoId")
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if _, err := h.videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, err, "video not found")
		return
	}

	comments, total, err := h.comments.ListForVideo(ctx, videoID, auth.ViewerFromContext(ctx), params)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, pagination.NewPage(comments, total, params), "comments")
}

func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID, err := parseID(r.PathValue("videoId"), "videoId")
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	var req commentRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(ctx, w, err, "")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, fmt.Errorf("content is required: %w", apperr.ErrInvalidArgument), "")
		return
	}

	if _, err := h.videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, err, "video not found")
		return
	}

	now := time.Now().UTC()
	comment := models.Comment{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		OwnerID:   auth.ViewerFromContext(ctx),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.comments.Create(ctx, comment); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, commentResponse{
		ID: comment.ID, VideoID: comment.VideoID, OwnerID: comment.OwnerID, Content: comment.Content,
	}, "comment added")
}

func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, err := h.ownedComment(r)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	var req commentRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(ctx, w, err, "")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, fmt.Errorf("content is required: %w", apperr.ErrInvalidArgument), "")
		return
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	if err := h.comments.Update(ctx, comment); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, commentResponse{
		ID: comment.ID, VideoID: comment.VideoID, OwnerID: comment.OwnerID, Content: comment.Content,
	}, "comment updated")
}

func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, err := h.ownedComment(r)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if err := h.comments.Delete(ctx, comment.ID); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "comment deleted")
}

func (h *CommentsHandler) ownedComment(r *http.Request) (models.Comment, error) {
	id, err := parseID(r.PathValue("commentId"), "commentId")
	if err != nil {
		return models.Comment{}, err
	}

	comment, err := h.comments.FindByID(r.Context(), id)
	if err != nil {
		return models.Comment{}, err
	}

	if err := ownership.Assert(comment.OwnerID, auth.ViewerFromContext(r.Context())); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}
