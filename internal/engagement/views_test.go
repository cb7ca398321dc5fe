package engagement

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vidtube/backend/internal/apperr"
)

type viewKey struct {
	video  string
	viewer string
}

type inMemoryViews struct {
	mu       sync.Mutex
	rows     map[viewKey]struct{}
	counters map[string]int64
	history  map[viewKey]struct{}
	videos   map[string]bool
}

func newInMemoryViews(videos ...string) *inMemoryViews {
	s := &inMemoryViews{
		rows:     make(map[viewKey]struct{}),
		counters: make(map[string]int64),
		history:  make(map[viewKey]struct{}),
		videos:   make(map[string]bool),
	}
	for _, v := range videos {
		s.videos[v] = true
	}
	return s
}

func (s *inMemoryViews) RecordView(_ context.Context, videoID, viewerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := viewKey{video: videoID, viewer: viewerID}
	s.history[key] = struct{}{}
	if _, exists := s.rows[key]; exists {
		return false, nil
	}
	s.rows[key] = struct{}{}
	s.counters[videoID]++
	return true, nil
}

func (s *inMemoryViews) RemoveView(_ context.Context, videoID, viewerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := viewKey{video: videoID, viewer: viewerID}
	if _, exists := s.rows[key]; !exists {
		return false, nil
	}
	delete(s.rows, key)
	delete(s.history, key)
	if s.counters[videoID] > 0 {
		s.counters[videoID]--
	}
	return true, nil
}

func (s *inMemoryViews) CountViews(_ context.Context, videoID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[videoID], nil
}

func (s *inMemoryViews) VideoExists(_ context.Context, videoID string) (bool, error) {
	return s.videos[videoID], nil
}

func (s *inMemoryViews) inHistory(videoID, viewerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.history[viewKey{video: videoID, viewer: viewerID}]
	return ok
}

func TestRecordViewIsIdempotentPerViewer(t *testing.T) {
	store := newInMemoryViews("video-1")
	views := NewViews(store, store)
	ctx := context.Background()

	first, err := views.Record(ctx, "video-1", "user-1")
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	if !first {
		t.Fatal("expected first record to report a first view")
	}

	first, err = views.Record(ctx, "video-1", "user-1")
	if err != nil {
		t.Fatalf("repeat record: %v", err)
	}
	if first {
		t.Fatal("expected repeat record to report already viewed")
	}

	count, err := views.Count(ctx, "video-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected counter 1 after duplicate records, got %d", count)
	}
	if !store.inHistory("video-1", "user-1") {
		t.Fatal("expected the video in the viewer's watch history")
	}
}

func TestRecordViewRequiresViewer(t *testing.T) {
	store := newInMemoryViews("video-1")
	views := NewViews(store, store)

	_, err := views.Record(context.Background(), "video-1", "")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRecordViewMissingVideo(t *testing.T) {
	store := newInMemoryViews()
	views := NewViews(store, store)

	_, err := views.Record(context.Background(), "video-404", "user-1")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveViewRevertsRecord(t *testing.T) {
	store := newInMemoryViews("video-1")
	views := NewViews(store, store)
	ctx := context.Background()

	if _, err := views.Record(ctx, "video-1", "user-1"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := views.Remove(ctx, "video-1", "user-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	count, err := views.Count(ctx, "video-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected counter back to 0, got %d", count)
	}
	if store.inHistory("video-1", "user-1") {
		t.Fatal("expected watch history entry to be removed")
	}
}

func TestRemoveViewNeverRecorded(t *testing.T) {
	store := newInMemoryViews("video-1")
	views := NewViews(store, store)

	err := views.Remove(context.Background(), "video-1", "user-1")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCounterNeverGoesNegative(t *testing.T) {
	store := newInMemoryViews("video-1")
	views := NewViews(store, store)
	ctx := context.Background()

	if _, err := views.Record(ctx, "video-1", "user-1"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := views.Remove(ctx, "video-1", "user-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := views.Remove(ctx, "video-1", "user-1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double remove, got %v", err)
	}

	count, err := views.Count(ctx, "video-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected counter to stay at 0, got %d", count)
	}
}
