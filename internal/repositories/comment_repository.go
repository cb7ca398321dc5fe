package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pagination"
)

// CommentRepository defines data access for video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	Update(ctx context.Context, comment models.Comment) error
	Delete(ctx context.Context, id string) error

	// ListForVideo returns the video's comments newest first, joined with
	// owner details, like counts, and whether viewerID liked each comment.
	ListForVideo(ctx context.Context, videoID, viewerID string, page pagination.Params) ([]models.CommentView, int64, error)
}
