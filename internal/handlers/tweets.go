package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/ownership"
	"github.com/vidtube/backend/internal/pagination"
)

// TweetsHandler serves tweet CRUD and per-user tweet listings.
type TweetsHandler struct {
	tweets TweetStore
}

func NewTweetsHandler(tweets TweetStore) *TweetsHandler {
	return &TweetsHandler{tweets: tweets}
}

type tweetRequest struct {
	Content string `json:"content"`
}

type tweetResponse struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Content string `json:"content"`
}

func (h *TweetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tweetRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(ctx, w, err, "")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, fmt.Errorf("content is required: %w", apperr.ErrInvalidArgument), "")
		return
	}

	now := time.Now().UTC()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   auth.ViewerFromContext(ctx),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.tweets.Create(ctx, tweet); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, tweetResponse{ID: tweet.ID, OwnerID: tweet.OwnerID, Content: tweet.Content}, "tweet posted")
}

func (h *TweetsHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := pagination.ParseParams(r.URL.Query())

	userID, err := parseID(r.PathValue("userId"), "userId")
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	tweets, total, err := h.tweets.ListForUser(ctx, userID, auth.ViewerFromContext(ctx), params)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, pagination.NewPage(tweets, total, params), "tweets")
}

func (h *TweetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, err := h.ownedTweet(r)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	var req tweetRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(ctx, w, err, "")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, fmt.Errorf("content is required: %w", apperr.ErrInvalidArgument), "")
		return
	}

	tweet.Content = content
	tweet.UpdatedAt = time.Now().UTC()
	if err := h.tweets.Update(ctx, tweet); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, tweetResponse{ID: tweet.ID, OwnerID: tweet.OwnerID, Content: tweet.Content}, "tweet updated")
}

func (h *TweetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, err := h.ownedTweet(r)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if err := h.tweets.Delete(ctx, tweet.ID); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "tweet deleted")
}

func (h *TweetsHandler) ownedTweet(r *http.Request) (models.Tweet, error) {
	id, err := parseID(r.PathValue("tweetId"), "tweetId")
	if err != nil {
		return models.Tweet{}, err
	}

	tweet, err := h.tweets.FindByID(r.Context(), id)
	if err != nil {
		return models.Tweet{}, err
	}

	if err := ownership.Assert(tweet.OwnerID, auth.ViewerFromContext(r.Context())); err != nil {
		return models.Tweet{}, err
	}
	return tweet, nil
}
