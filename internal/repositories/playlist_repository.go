package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pagination"
)

// PlaylistRepository defines data access for playlists and their membership.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	Update(ctx context.Context, playlist models.Playlist) error
	Delete(ctx context.Context, id string) error

	// AddVideo appends the video to the playlist. Adding a video that is
	// already a member is a no-op.
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error

	// ListForUser returns the owner's playlists with video and view totals.
	ListForUser(ctx context.Context, ownerID string, page pagination.Params) ([]models.PlaylistSummary, int64, error)

	// GetDetail returns the playlist joined with its published videos in
	// playlist order and the owner's public details.
	GetDetail(ctx context.Context, playlistID string) (models.PlaylistDetail, error)
}
