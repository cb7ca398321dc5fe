package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
)

// ViewsHandler serves the deduplicated view counter endpoints.
type ViewsHandler struct {
	views ViewRecorder
}

func NewViewsHandler(views ViewRecorder) *ViewsHandler {
	return &ViewsHandler{views: views}
}

type recordViewResponse struct {
	FirstView bool `json:"firstView"`
}

type viewCountResponse struct {
	Views int64 `json:"views"`
}

// Record registers a watch event. The first view per (video, viewer) pair
// bumps the counter and lands in watch history; repeats are acknowledged but
// change nothing.
func (h *ViewsHandler) Record(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID, err := parseID(r.PathValue("videoId"), "videoId")
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	first, err := h.views.Record(ctx, videoID, auth.ViewerFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if first {
		logging.FromContext(ctx).Info("view recorded", "video_id", videoID)
	}
	respondJSON(ctx, w, http.StatusOK, recordViewResponse{FirstView: first}, "view recorded")
}

func (h *ViewsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID, err := parseID(r.PathValue("videoId"), "videoId")
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if err := h.views.Remove(ctx, videoID, auth.ViewerFromContext(ctx)); err != nil {
		respondError(ctx, w, err, "view not found")
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "view removed")
}

func (h *ViewsHandler) Count(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID, err := parseID(r.PathValue("videoId"), "videoId")
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	count, err := h.views.Count(ctx, videoID)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, viewCountResponse{Views: count}, "view count")
}
