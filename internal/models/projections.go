package models

import "time"

// UserSummary is the allow-listed public shape of a user embedded in read
// projections. It deliberately excludes email, password, and token fields.
type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatar"`
}

// ChannelProfile is the viewer-aware projection of a user's channel page.
type ChannelProfile struct {
	ID                        string `json:"id"`
	Username                  string `json:"username"`
	FullName                  string `json:"fullName"`
	AvatarURL                 string `json:"avatar"`
	CoverImageURL             string `json:"coverImage"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// VideoSummary is a video joined with its owner's public details.
type VideoSummary struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	VideoURL     string      `json:"videoFile"`
	ThumbnailURL string      `json:"thumbnail"`
	Duration     float64     `json:"duration"`
	Views        int64       `json:"views"`
	IsPublished  bool        `json:"isPublished"`
	CreatedAt    time.Time   `json:"createdAt"`
	Owner        UserSummary `json:"owner"`
}

// CommentView is a comment with owner details and viewer-conditional like
// state.
type CommentView struct {
	ID         string      `json:"id"`
	Content    string      `json:"content"`
	CreatedAt  time.Time   `json:"createdAt"`
	Owner      UserSummary `json:"owner"`
	LikesCount int64       `json:"likesCount"`
	IsLiked    bool        `json:"isLiked"`
}

// TweetView is a tweet with owner details and viewer-conditional like state.
type TweetView struct {
	ID         string      `json:"id"`
	Content    string      `json:"content"`
	CreatedAt  time.Time   `json:"createdAt"`
	Owner      UserSummary `json:"owner"`
	LikesCount int64       `json:"likesCount"`
	IsLiked    bool        `json:"isLiked"`
}

// SubscriberInfo describes one subscriber of a channel, including whether the
// channel is in turn subscribed to that subscriber.
type SubscriberInfo struct {
	Subscriber             UserSummary `json:"subscriber"`
	SubscribersCount       int64       `json:"subscribersCount"`
	SubscribedToSubscriber bool        `json:"subscribedToSubscriber"`
}

// SubscribedChannel describes a channel a user subscribes to, with the
// channel's most recent published video collapsed to a scalar or null.
type SubscribedChannel struct {
	Channel     UserSummary   `json:"channel"`
	LatestVideo *VideoSummary `json:"latestVideo"`
}

// PlaylistSummary is the listing shape for a user's playlists.
type PlaylistSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalVideos int64     `json:"totalVideos"`
	TotalViews  int64     `json:"totalViews"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistDetail is a playlist joined with its published videos and owner.
type PlaylistDetail struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	TotalVideos int64          `json:"totalVideos"`
	TotalViews  int64          `json:"totalViews"`
	Owner       UserSummary    `json:"owner"`
	Videos      []VideoSummary `json:"videos"`
}

// DashboardVideo is the channel owner's view of one of their uploads.
type DashboardVideo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Views        int64     `json:"views"`
	LikesCount   int64     `json:"likesCount"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ChannelStats aggregates the engagement totals shown on a channel dashboard.
type ChannelStats struct {
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalLikes       int64 `json:"totalLikes"`
}
