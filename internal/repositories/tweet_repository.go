package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pagination"
)

// TweetRepository defines data access for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	Update(ctx context.Context, tweet models.Tweet) error
	Delete(ctx context.Context, id string) error

	// ListForUser returns the user's tweets newest first, joined with owner
	// details, like counts, and whether viewerID liked each tweet.
	ListForUser(ctx context.Context, userID, viewerID string, page pagination.Params) ([]models.TweetView, int64, error)
}
