package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/engagement"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/pagination"
)

// SubscriptionsHandler serves the subscription toggle and its two listings.
type SubscriptionsHandler struct {
	toggles       Toggler
	subscriptions SubscriptionStore
}

func NewSubscriptionsHandler(toggles Toggler, subscriptions SubscriptionStore) *SubscriptionsHandler {
	return &SubscriptionsHandler{toggles: toggles, subscriptions: subscriptions}
}

func (h *SubscriptionsHandler) ToggleSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID, err := parseID(r.PathValue("channelId"), "channelId")
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	active, err := h.toggles.Toggle(ctx, engagement.KindSubscription, channelID, auth.ViewerFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	message := "unsubscribed"
	if active {
		message = "subscribed"
	}

	logging.FromContext(ctx).Info("subscription toggled", "channel_id", channelID, "active", active)
	respondJSON(ctx, w, http.StatusOK, toggleResponse{Active: active}, message)
}

// Subscribers lists the accounts subscribed to a channel, annotated with
// whether the channel is subscribed back to each of them.
func (h *SubscriptionsHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := pagination.ParseParams(r.URL.Query())

	channelID, err := parseID(r.PathValue("channelId"), "channelId")
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	subscribers, total, err := h.subscriptions.ListSubscribers(ctx, channelID, params)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, pagination.NewPage(subscribers, total, params), "subscribers")
}

// SubscribedChannels lists the channels a user follows, each with its latest
// published video when one exists.
func (h *SubscriptionsHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := pagination.ParseParams(r.URL.Query())

	subscriberID, err := parseID(r.PathValue("subscriberId"), "subscriberId")
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	channels, total, err := h.subscriptions.ListSubscribedChannels(ctx, subscriberID, params)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, pagination.NewPage(channels, total, params), "subscribed channels")
}
