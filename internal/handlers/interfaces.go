package handlers

import (
	"context"
	"io"

	"github.com/vidtube/backend/internal/engagement"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pagination"
	"github.com/vidtube/backend/internal/repositories"
)

// UserStore captures the persistence operations required by the user-facing handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	Update(ctx context.Context, user models.User) error
	GetChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	GetWatchHistory(ctx context.Context, userID string, page pagination.Params) ([]models.VideoSummary, int64, error)
}

// SessionManager issues, validates, refreshes, and revokes authentication tokens.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Validate(ctx context.Context, accessToken string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, refreshToken string)
}

// VideoStore captures persistence for video workflows.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, published bool) error
	List(ctx context.Context, filter repositories.VideoFilter, page pagination.Params) ([]models.VideoSummary, int64, error)
	ListLikedBy(ctx context.Context, viewerID string, page pagination.Params) ([]models.VideoSummary, int64, error)
	ListDashboard(ctx context.Context, ownerID string, page pagination.Params) ([]models.DashboardVideo, int64, error)
	Totals(ctx context.Context, ownerID string) (repositories.VideoTotals, error)
}

// CommentStore captures persistence for comment workflows.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	Update(ctx context.Context, comment models.Comment) error
	Delete(ctx context.Context, id string) error
	ListForVideo(ctx context.Context, videoID, viewerID string, page pagination.Params) ([]models.CommentView, int64, error)
}

// TweetStore captures persistence for tweet workflows.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	Update(ctx context.Context, tweet models.Tweet) error
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID, viewerID string, page pagination.Params) ([]models.TweetView, int64, error)
}

// Toggler flips like and subscription relations.
type Toggler interface {
	Toggle(ctx context.Context, kind engagement.Kind, targetID, actorID string) (bool, error)
}

// ViewRecorder records and removes deduplicated video views.
type ViewRecorder interface {
	Record(ctx context.Context, videoID, viewerID string) (bool, error)
	Remove(ctx context.Context, videoID, viewerID string) error
	Count(ctx context.Context, videoID string) (int64, error)
}

// SubscriptionStore exposes subscription read projections.
type SubscriptionStore interface {
	ListSubscribers(ctx context.Context, channelID string, page pagination.Params) ([]models.SubscriberInfo, int64, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string, page pagination.Params) ([]models.SubscribedChannel, int64, error)
	CountForChannel(ctx context.Context, channelID string) (int64, error)
}

// PlaylistStore captures persistence for playlist workflows.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	Update(ctx context.Context, playlist models.Playlist) error
	Delete(ctx context.Context, id string) error
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	ListForUser(ctx context.Context, ownerID string, page pagination.Params) ([]models.PlaylistSummary, int64, error)
	GetDetail(ctx context.Context, playlistID string) (models.PlaylistDetail, error)
}

// BlobStore persists uploaded media. Save returns the public URL and the
// storage key used to delete the object later.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (url, key string, err error)
	Delete(ctx context.Context, key string) error
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Sessions      SessionManager
	Videos        VideoStore
	Comments      CommentStore
	Tweets        TweetStore
	Subscriptions SubscriptionStore
	Playlists     PlaylistStore
	Toggles       Toggler
	Views         ViewRecorder
	Blobs         BlobStore
}
