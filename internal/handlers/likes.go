package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/engagement"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/pagination"
)

// LikesHandler serves like toggles and the liked-videos listing.
type LikesHandler struct {
	toggles Toggler
	videos  VideoStore
}

func NewLikesHandler(toggles Toggler, videos VideoStore) *LikesHandler {
	return &LikesHandler{toggles: toggles, videos: videos}
}

type toggleResponse struct {
	Active bool `json:"active"`
}

func (h *LikesHandler) ToggleVideoLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, engagement.KindVideoLike, "videoId")
}

func (h *LikesHandler) ToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, engagement.KindCommentLike, "commentId")
}

func (h *LikesHandler) ToggleTweetLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, engagement.KindTweetLike, "tweetId")
}

func (h *LikesHandler) toggle(w http.ResponseWriter, r *http.Request, kind engagement.Kind, param string) {
	ctx := r.Context()

	targetID, err := parseID(r.PathValue(param), param)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	active, err := h.toggles.Toggle(ctx, kind, targetID, auth.ViewerFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	message := "like removed"
	if active {
		message = "like added"
	}

	logging.FromContext(ctx).Info("like toggled", "kind", string(kind), "target_id", targetID, "active", active)
	respondJSON(ctx, w, http.StatusOK, toggleResponse{Active: active}, message)
}

func (h *LikesHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := pagination.ParseParams(r.URL.Query())

	videos, total, err := h.videos.ListLikedBy(ctx, auth.ViewerFromContext(ctx), params)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, pagination.NewPage(videos, total, params), "liked videos")
}
