package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pagination"
)

// SubscriptionRepository exposes the read projections over subscription rows.
// Creating and deleting rows goes through the engagement toggler.
type SubscriptionRepository interface {
	// ListSubscribers returns a channel's subscribers with each subscriber's
	// own subscriber count and whether the channel subscribes back.
	ListSubscribers(ctx context.Context, channelID string, page pagination.Params) ([]models.SubscriberInfo, int64, error)

	// ListSubscribedChannels returns the channels a user subscribes to, each
	// with the channel's latest published video or null.
	ListSubscribedChannels(ctx context.Context, subscriberID string, page pagination.Params) ([]models.SubscribedChannel, int64, error)

	// CountForChannel counts a channel's subscribers.
	CountForChannel(ctx context.Context, channelID string) (int64, error)
}
