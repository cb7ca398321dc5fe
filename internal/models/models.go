package models

import "time"

// User represents an account within the VidTube platform. Password and
// refresh-token material never leave the persistence layer in projections.
type User struct {
	ID            string
	Username      string
	Email         string
	Password      string
	FullName      string
	AvatarURL     string
	AvatarKey     string
	CoverImageURL string
	CoverImageKey string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Video represents a published or draft video owned by a user. The views
// counter is mutated only through the view recorder.
type Video struct {
	ID           string
	OwnerID      string
	Title        string
	Description  string
	VideoURL     string
	VideoKey     string
	ThumbnailURL string
	ThumbnailKey string
	Duration     float64
	Views        int64
	IsPublished  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Comment is a user-authored comment attached to a video.
type Comment struct {
	ID        string
	VideoID   string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tweet is a short free-standing post by a user.
type Tweet struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Like is a toggle relation from a user onto exactly one of a video, a
// comment, or a tweet. The unused target fields stay empty.
type Like struct {
	ID        string
	LikedBy   string
	VideoID   string
	CommentID string
	TweetID   string
	CreatedAt time.Time
}

// Subscription is a toggle relation from a subscriber onto a channel (user).
type Subscription struct {
	ID           string
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

// Playlist is an ordered collection of videos owned by a user. Membership has
// set semantics: adding an already-present video is a no-op.
type Playlist struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// View records that a viewer has watched a video. At most one row exists per
// (video, viewer) pair; this deduplicates the video view counter.
type View struct {
	ID        string
	VideoID   string
	ViewerID  string
	CreatedAt time.Time
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
