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

// PlaylistsHandler serves playlist CRUD and membership endpoints.
type PlaylistsHandler struct {
	playlists PlaylistStore
	videos    VideoStore
}

func NewPlaylistsHandler(playlists PlaylistStore, videos VideoStore) *PlaylistsHandler {
	return &PlaylistsHandler{playlists: playlists, videos: videos}
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type playlistResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toPlaylistResponse(p models.Playlist) playlistResponse {
	return playlistResponse{ID: p.ID, OwnerID: p.OwnerID, Name: p.Name, Description: p.Description}
}

func (h *PlaylistsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req playlistRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(ctx, w, err, "")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(ctx, w, fmt.Errorf("name is required: %w", apperr.ErrInvalidArgument), "")
		return
	}

	now := time.Now().UTC()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     auth.ViewerFromContext(ctx),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.playlists.Create(ctx, playlist); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, toPlaylistResponse(playlist), "playlist created")
}

func (h *PlaylistsHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := pagination.ParseParams(r.URL.Query())

	userID, err := parseID(r.PathValue("userId"), "userId")
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	playlists, total, err := h.playlists.ListForUser(ctx, userID, params)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, pagination.NewPage(playlists, total, params), "playlists")
}

func (h *PlaylistsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r.PathValue("playlistId"), "playlistId")
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	detail, err := h.playlists.GetDetail(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "playlist not found")
		return
	}

	respondJSON(ctx, w, http.StatusOK, detail, "playlist")
}

func (h *PlaylistsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, err := h.ownedPlaylist(r)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	var req playlistRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		playlist.Name = name
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		playlist.Description = desc
	}
	playlist.UpdatedAt = time.Now().UTC()

	if err := h.playlists.Update(ctx, playlist); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, toPlaylistResponse(playlist), "playlist updated")
}

func (h *PlaylistsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, err := h.ownedPlaylist(r)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if err := h.playlists.Delete(ctx, playlist.ID); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "playlist deleted")
}

// AddVideo appends a video to the playlist. Membership has set semantics, so
// re-adding an existing member succeeds without duplicating it.
func (h *PlaylistsHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, videoID, err := h.membershipTarget(r)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if _, err := h.videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, err, "video not found")
		return
	}

	if err := h.playlists.AddVideo(ctx, playlist.ID, videoID); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "video added to playlist")
}

func (h *PlaylistsHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, videoID, err := h.membershipTarget(r)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if err := h.playlists.RemoveVideo(ctx, playlist.ID, videoID); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "video removed from playlist")
}

func (h *PlaylistsHandler) membershipTarget(r *http.Request) (models.Playlist, string, error) {
	playlist, err := h.ownedPlaylist(r)
	if err != nil {
		return models.Playlist{}, "", err
	}

	videoID, err := parseID(r.PathValue("videoId"), "videoId")
	if err != nil {
		return models.Playlist{}, "", err
	}
	return playlist, videoID, nil
}

func (h *PlaylistsHandler) ownedPlaylist(r *http.Request) (models.Playlist, error) {
	id, err := parseID(r.PathValue("playlistId"), "playlistId")
	if err != nil {
		return models.Playlist{}, err
	}

	playlist, err := h.playlists.FindByID(r.Context(), id)
	if err != nil {
		return models.Playlist{}, err
	}

	if err := ownership.Assert(playlist.OwnerID, auth.ViewerFromContext(r.Context())); err != nil {
		return models.Playlist{}, err
	}
	return playlist, nil
}
