package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/ownership"
	"github.com/vidtube/backend/internal/pagination"
	"github.com/vidtube/backend/internal/repositories"
)

// VideosHandler serves video CRUD, publishing, and catalog listing endpoints.
type VideosHandler struct {
	videos VideoStore
	blobs  BlobStore
}

func NewVideosHandler(videos VideoStore, blobs BlobStore) *VideosHandler {
	return &VideosHandler{videos: videos, blobs: blobs}
}

type videoResponse struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toVideoResponse(v models.Video) videoResponse {
	return videoResponse{
		ID:           v.ID,
		OwnerID:      v.OwnerID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		Views:        v.Views,
		IsPublished:  v.IsPublished,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func (h *VideosHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	params := pagination.ParseParams(query)

	filter := repositories.VideoFilter{
		Query:         strings.TrimSpace(query.Get("query")),
		SortBy:        query.Get("sortBy"),
		SortAscending: strings.EqualFold(query.Get("sortType"), "asc"),
	}

	if raw := query.Get("ownerId"); raw != "" {
		ownerID, err := parseID(raw, "ownerId")
		if err != nil {
			respondError(ctx, w, err, "")
			return
		}
		filter.OwnerID = ownerID
	}

	videos, total, err := h.videos.List(ctx, filter, params)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, pagination.NewPage(videos, total, params), "videos")
}

func (h *VideosHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r.PathValue("videoId"), "videoId")
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	video, err := h.videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "video not found")
		return
	}

	// Drafts are visible to their owner only; everyone else sees a 404
	// rather than a 403 so unpublished ids are not probeable.
	if !video.IsPublished && video.OwnerID != auth.ViewerFromContext(ctx) {
		respondError(ctx, w, apperr.ErrNotFound, "video not found")
		return
	}

	respondJSON(ctx, w, http.StatusOK, toVideoResponse(video), "video")
}

func (h *VideosHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := auth.ViewerFromContext(ctx)

	videoURL, videoKey, err := saveUpload(w, r, h.blobs, "videoFile", "videos", maxVideoUploadBytes)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	thumbURL, thumbKey, err := saveUpload(w, r, h.blobs, "thumbnail", "thumbnails", maxImageUploadBytes)
	if err != nil {
		discardUpload(r, h.blobs, videoKey)
		respondError(ctx, w, err, "")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)

	if title == "" || duration <= 0 {
		discardUpload(r, h.blobs, videoKey)
		discardUpload(r, h.blobs, thumbKey)
		respondError(ctx, w, fmt.Errorf("title and a positive duration are required: %w", apperr.ErrInvalidArgument), "")
		return
	}

	now := time.Now().UTC()
	video := models.Video{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Title:        title,
		Description:  description,
		VideoURL:     videoURL,
		VideoKey:     videoKey,
		ThumbnailURL: thumbURL,
		ThumbnailKey: thumbKey,
		Duration:     duration,
		IsPublished:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.videos.Create(ctx, video); err != nil {
		discardUpload(r, h.blobs, videoKey)
		discardUpload(r, h.blobs, thumbKey)
		respondError(ctx, w, err, "")
		return
	}

	created, err := h.videos.FindByID(ctx, video.ID)
	if err != nil {
		created = video
	}

	logging.FromContext(ctx).Info("video published", "video_id", video.ID, "owner_id", ownerID)
	respondJSON(ctx, w, http.StatusCreated, toVideoResponse(created), "video uploaded")
}

func (h *VideosHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.ownedVideo(r)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.updateMultipart(w, r, video)
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if t := strings.TrimSpace(req.Title); t != "" {
		video.Title = t
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		video.Description = d
	}
	video.UpdatedAt = time.Now().UTC()

	if err := h.videos.Update(ctx, video); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, toVideoResponse(video), "video updated")
}

// updateMultipart handles detail edits that replace the thumbnail alongside
// the text fields.
func (h *VideosHandler) updateMultipart(w http.ResponseWriter, r *http.Request, video models.Video) {
	ctx := r.Context()

	thumbURL, thumbKey, err := saveUpload(w, r, h.blobs, "thumbnail", "thumbnails", maxImageUploadBytes)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	oldKey := video.ThumbnailKey
	video.ThumbnailURL, video.ThumbnailKey = thumbURL, thumbKey

	if t := strings.TrimSpace(r.FormValue("title")); t != "" {
		video.Title = t
	}
	if d := strings.TrimSpace(r.FormValue("description")); d != "" {
		video.Description = d
	}
	video.UpdatedAt = time.Now().UTC()

	if err := h.videos.Update(ctx, video); err != nil {
		discardUpload(r, h.blobs, thumbKey)
		respondError(ctx, w, err, "")
		return
	}

	discardUpload(r, h.blobs, oldKey)
	respondJSON(ctx, w, http.StatusOK, toVideoResponse(video), "video updated")
}

func (h *VideosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.ownedVideo(r)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if err := h.videos.Delete(ctx, video.ID); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	// Stored media is removed best-effort once the row is gone.
	discardUpload(r, h.blobs, video.VideoKey)
	discardUpload(r, h.blobs, video.ThumbnailKey)

	logging.FromContext(ctx).Info("video deleted", "video_id", video.ID)
	respondJSON(ctx, w, http.StatusOK, nil, "video deleted")
}

func (h *VideosHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.ownedVideo(r)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	next := !video.IsPublished
	if err := h.videos.SetPublished(ctx, video.ID, next); err != nil {
		respondError(ctx, w, err, "")
		return
	}
	video.IsPublished = next

	respondJSON(ctx, w, http.StatusOK, toVideoResponse(video), "publish state toggled")
}

// ownedVideo loads the video addressed by the path and verifies the caller
// owns it.
func (h *VideosHandler) ownedVideo(r *http.Request) (models.Video, error) {
	id, err := parseID(r.PathValue("videoId"), "videoId")
	if err != nil {
		return models.Video{}, err
	}

	video, err := h.videos.FindByID(r.Context(), id)
	if err != nil {
		return models.Video{}, err
	}

	if err := ownership.Assert(video.OwnerID, auth.ViewerFromContext(r.Context())); err != nil {
		return models.Video{}, err
	}
	return video, nil
}
