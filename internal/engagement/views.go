package engagement

import (
	"context"
	"fmt"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/logging"
)

// ViewStore persists view rows together with their side effects. RecordView
// must atomically insert the view row, add the video to the viewer's watch
// history, and increment the video's view counter only when the row is new
// (both-or-neither, guarded by the unique (video, viewer) index). RemoveView
// must delete the row, decrement the counter with a floor of zero, and drop
// the watch-history entry, again atomically.
type ViewStore interface {
	RecordView(ctx context.Context, videoID, viewerID string) (first bool, err error)
	RemoveView(ctx context.Context, videoID, viewerID string) (removed bool, err error)
	CountViews(ctx context.Context, videoID string) (int64, error)
}

// VideoChecker verifies a video exists before views are recorded against it.
type VideoChecker interface {
	VideoExists(ctx context.Context, videoID string) (bool, error)
}

// Views is the watch-history and view-counter engine. Recording is idempotent
// per (video, viewer): replays report already-viewed and leave the counter
// untouched.
type Views struct {
	store  ViewStore
	videos VideoChecker
}

// NewViews constructs the view recorder over the provided stores.
func NewViews(store ViewStore, videos VideoChecker) *Views {
	if store == nil || videos == nil {
		panic("engagement: view store and video checker must not be nil")
	}
	return &Views{store: store, videos: videos}
}

// Record marks the video as viewed by the viewer. It returns true when this
// is the viewer's first view of the video.
func (v *Views) Record(ctx context.Context, videoID, viewerID string) (bool, error) {
	if viewerID == "" {
		return false, fmt.Errorf("record view: missing viewer: %w", apperr.ErrUnauthorized)
	}

	ctx, span := logging.StartSpan(ctx, "engagement.record_view")
	defer span.End()

	exists, err := v.videos.VideoExists(ctx, videoID)
	if err != nil {
		return false, fmt.Errorf("check video %s: %w", videoID, err)
	}
	if !exists {
		return false, fmt.Errorf("video %s: %w", videoID, apperr.ErrNotFound)
	}

	first, err := v.store.RecordView(ctx, videoID, viewerID)
	if err != nil {
		return false, fmt.Errorf("record view: %w", err)
	}
	return first, nil
}

// Remove deletes the viewer's view of the video, reverting the counter and
// watch-history effects of Record. Removing a view that was never recorded
// fails with apperr.ErrNotFound.
func (v *Views) Remove(ctx context.Context, videoID, viewerID string) error {
	if viewerID == "" {
		return fmt.Errorf("remove view: missing viewer: %w", apperr.ErrUnauthorized)
	}

	ctx, span := logging.StartSpan(ctx, "engagement.remove_view")
	defer span.End()

	removed, err := v.store.RemoveView(ctx, videoID, viewerID)
	if err != nil {
		return fmt.Errorf("remove view: %w", err)
	}
	if !removed {
		return fmt.Errorf("view of %s by %s: %w", videoID, viewerID, apperr.ErrNotFound)
	}
	return nil
}

// Count returns the number of distinct viewers who viewed the video.
func (v *Views) Count(ctx context.Context, videoID string) (int64, error) {
	count, err := v.store.CountViews(ctx, videoID)
	if err != nil {
		return 0, fmt.Errorf("count views: %w", err)
	}
	return count, nil
}
