package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pagination"
)

// VideoFilter narrows video listings. Query is a case-insensitive substring
// match on title and description. OwnerID restricts to one channel. Unless
// IncludeUnpublished is set, only published videos are returned.
type VideoFilter struct {
	Query              string
	OwnerID            string
	SortBy             string
	SortAscending      bool
	IncludeUnpublished bool
}

// VideoTotals aggregates per-channel counters for the dashboard.
type VideoTotals struct {
	Videos int64
	Views  int64
	Likes  int64
}

// VideoRepository exposes data access for videos and their read projections.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, published bool) error

	// List returns video summaries with owner details applying the filter,
	// sorted by creation time descending unless the filter says otherwise.
	List(ctx context.Context, filter VideoFilter, page pagination.Params) ([]models.VideoSummary, int64, error)

	// ListLikedBy returns the videos the viewer has liked, most recent like first.
	ListLikedBy(ctx context.Context, viewerID string, page pagination.Params) ([]models.VideoSummary, int64, error)

	// ListDashboard returns the channel's own videos, published or not, with
	// per-video like counts.
	ListDashboard(ctx context.Context, ownerID string, page pagination.Params) ([]models.DashboardVideo, int64, error)

	// Totals sums video, view, and like counters across a channel's uploads.
	Totals(ctx context.Context, ownerID string) (VideoTotals, error)
}
