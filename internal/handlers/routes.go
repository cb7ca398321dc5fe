package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/middleware"
)

// RouteOptions carries the cross-cutting collaborators the router needs
// beyond the store dependencies.
type RouteOptions struct {
	DB           Pinger
	LoginLimiter middleware.RateLimiter
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies, opts RouteOptions) {
	health := NewHealthHandler(opts.DB)
	authh := NewAuthHandler(deps.Users, deps.Sessions)
	users := NewUsersHandler(deps.Users, deps.Blobs)
	videos := NewVideosHandler(deps.Videos, deps.Blobs)
	comments := NewCommentsHandler(deps.Comments, deps.Videos)
	tweets := NewTweetsHandler(deps.Tweets)
	likes := NewLikesHandler(deps.Toggles, deps.Videos)
	subs := NewSubscriptionsHandler(deps.Toggles, deps.Subscriptions)
	playlists := NewPlaylistsHandler(deps.Playlists, deps.Videos)
	views := NewViewsHandler(deps.Views)
	dashboard := NewDashboardHandler(deps.Videos, deps.Subscriptions)

	requireAuth := middleware.RequireAuth(deps.Sessions)
	optionalAuth := middleware.OptionalAuth(deps.Sessions)

	handle := func(pattern string, h http.HandlerFunc, mws ...func(http.Handler) http.Handler) {
		var wrapped http.Handler = h
		for i := len(mws) - 1; i >= 0; i-- {
			wrapped = mws[i](wrapped)
		}
		mux.Handle(pattern, wrapped)
	}

	mux.HandleFunc("GET /healthz", health.Check)

	// Credential endpoints are rate limited per client address.
	loginLimit := middleware.LimitByIP(opts.LoginLimiter)
	handle("POST /api/v1/auth/register", authh.Register, loginLimit)
	handle("POST /api/v1/auth/login", authh.Login, loginLimit)
	handle("POST /api/v1/auth/refresh", authh.Refresh, loginLimit)
	handle("POST /api/v1/auth/logout", authh.Logout)

	handle("GET /api/v1/users/me", users.CurrentUser, requireAuth)
	handle("PATCH /api/v1/users/me", users.UpdateAccount, requireAuth)
	handle("POST /api/v1/users/me/avatar", users.UploadAvatar, requireAuth)
	handle("POST /api/v1/users/me/cover-image", users.UploadCoverImage, requireAuth)
	handle("GET /api/v1/users/me/history", users.WatchHistory, requireAuth)
	handle("GET /api/v1/users/c/{username}", users.ChannelProfile, optionalAuth)

	handle("GET /api/v1/videos", videos.List, optionalAuth)
	handle("POST /api/v1/videos", videos.Create, requireAuth)
	handle("GET /api/v1/videos/{videoId}", videos.Get, optionalAuth)
	handle("PATCH /api/v1/videos/{videoId}", videos.Update, requireAuth)
	handle("DELETE /api/v1/videos/{videoId}", videos.Delete, requireAuth)
	handle("PATCH /api/v1/videos/{videoId}/toggle-publish", videos.TogglePublish, requireAuth)

	handle("GET /api/v1/videos/{videoId}/comments", comments.ListForVideo, optionalAuth)
	handle("POST /api/v1/videos/{videoId}/comments", comments.Create, requireAuth)
	handle("PATCH /api/v1/comments/{commentId}", comments.Update, requireAuth)
	handle("DELETE /api/v1/comments/{commentId}", comments.Delete, requireAuth)

	handle("POST /api/v1/tweets", tweets.Create, requireAuth)
	handle("GET /api/v1/users/{userId}/tweets", tweets.ListForUser, optionalAuth)
	handle("PATCH /api/v1/tweets/{tweetId}", tweets.Update, requireAuth)
	handle("DELETE /api/v1/tweets/{tweetId}", tweets.Delete, requireAuth)

	handle("POST /api/v1/likes/video/{videoId}", likes.ToggleVideoLike, requireAuth)
	handle("POST /api/v1/likes/comment/{commentId}", likes.ToggleCommentLike, requireAuth)
	handle("POST /api/v1/likes/tweet/{tweetId}", likes.ToggleTweetLike, requireAuth)
	handle("GET /api/v1/likes/videos", likes.LikedVideos, requireAuth)

	handle("POST /api/v1/subscriptions/channel/{channelId}", subs.ToggleSubscription, requireAuth)
	handle("GET /api/v1/subscriptions/channel/{channelId}/subscribers", subs.Subscribers, optionalAuth)
	handle("GET /api/v1/subscriptions/user/{subscriberId}/channels", subs.SubscribedChannels, optionalAuth)

	handle("POST /api/v1/playlists", playlists.Create, requireAuth)
	handle("GET /api/v1/playlists/user/{userId}", playlists.ListForUser, optionalAuth)
	handle("GET /api/v1/playlists/{playlistId}", playlists.Get, optionalAuth)
	handle("PATCH /api/v1/playlists/{playlistId}", playlists.Update, requireAuth)
	handle("DELETE /api/v1/playlists/{playlistId}", playlists.Delete, requireAuth)
	handle("PATCH /api/v1/playlists/{playlistId}/videos/{videoId}", playlists.AddVideo, requireAuth)
	handle("DELETE /api/v1/playlists/{playlistId}/videos/{videoId}", playlists.RemoveVideo, requireAuth)

	handle("POST /api/v1/videos/{videoId}/views", views.Record, requireAuth)
	handle("DELETE /api/v1/videos/{videoId}/views", views.Remove, requireAuth)
	handle("GET /api/v1/videos/{videoId}/views", views.Count, optionalAuth)

	handle("GET /api/v1/dashboard/stats", dashboard.Stats, requireAuth)
	handle("GET /api/v1/dashboard/videos", dashboard.Videos, requireAuth)
}
