package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pagination"
)

// UserRepository defines the data access contract for users and the
// viewer-aware channel projections built on top of them.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	Update(ctx context.Context, user models.User) error

	// GetChannelProfile joins subscription rows onto the user identified by
	// username, computing subscriber counts and whether viewerID subscribes.
	// An empty viewerID yields IsSubscribed=false.
	GetChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)

	// GetWatchHistory lists the videos the user has previously viewed,
	// most recently watched first.
	GetWatchHistory(ctx context.Context, userID string, page pagination.Params) ([]models.VideoSummary, int64, error)
}
