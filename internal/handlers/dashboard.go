package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pagination"
)

// DashboardHandler serves channel owner statistics and the owner's video list,
// including unpublished drafts.
type DashboardHandler struct {
	videos        VideoStore
	subscriptions SubscriptionStore
}

func NewDashboardHandler(videos VideoStore, subscriptions SubscriptionStore) *DashboardHandler {
	return &DashboardHandler{videos: videos, subscriptions: subscriptions}
}

// Stats aggregates the channel counters. The two queries are independent and
// run concurrently.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := auth.ViewerFromContext(ctx)

	var stats models.ChannelStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		totals, err := h.videos.Totals(gctx, ownerID)
		if err != nil {
			return err
		}
		stats.TotalVideos = totals.Videos
		stats.TotalViews = totals.Views
		stats.TotalLikes = totals.Likes
		return nil
	})
	g.Go(func() error {
		subscribers, err := h.subscriptions.CountForChannel(gctx, ownerID)
		if err != nil {
			return err
		}
		stats.TotalSubscribers = subscribers
		return nil
	})

	if err := g.Wait(); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, stats, "channel stats")
}

func (h *DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := pagination.ParseParams(r.URL.Query())

	videos, total, err := h.videos.ListDashboard(ctx, auth.ViewerFromContext(ctx), params)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, pagination.NewPage(videos, total, params), "channel videos")
}
