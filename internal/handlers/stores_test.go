package handlers

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/engagement"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pagination"
	"github.com/vidtube/backend/internal/repositories"
)

// In-memory fakes shared by the handler tests.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, apperr.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, apperr.ErrNotFound
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, apperr.ErrNotFound
}

func (s *fakeUserStore) Update(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return apperr.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetChannelProfile(_ context.Context, username, _ string) (models.ChannelProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			return models.ChannelProfile{ID: user.ID, Username: user.Username, FullName: user.FullName}, nil
		}
	}
	return models.ChannelProfile{}, apperr.ErrNotFound
}

func (s *fakeUserStore) GetWatchHistory(context.Context, string, pagination.Params) ([]models.VideoSummary, int64, error) {
	return nil, 0, nil
}

type fakeVideoStore struct {
	mu     sync.Mutex
	videos map[string]models.Video
}

func newFakeVideoStore(videos ...models.Video) *fakeVideoStore {
	s := &fakeVideoStore{videos: make(map[string]models.Video)}
	for _, v := range videos {
		s.videos[v.ID] = v
	}
	return s
}

func (s *fakeVideoStore) Create(_ context.Context, video models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos[video.ID] = video
	return nil
}

func (s *fakeVideoStore) FindByID(_ context.Context, id string) (models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, apperr.ErrNotFound
	}
	return video, nil
}

func (s *fakeVideoStore) Update(_ context.Context, video models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[video.ID]; !ok {
		return apperr.ErrNotFound
	}
	s.videos[video.ID] = video
	return nil
}

func (s *fakeVideoStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

func (s *fakeVideoStore) SetPublished(_ context.Context, id string, published bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok {
		return apperr.ErrNotFound
	}
	video.IsPublished = published
	s.videos[id] = video
	return nil
}

func (s *fakeVideoStore) List(_ context.Context, filter repositories.VideoFilter, page pagination.Params) ([]models.VideoSummary, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summaries []models.VideoSummary
	for _, v := range s.videos {
		if !v.IsPublished && !filter.IncludeUnpublished {
			continue
		}
		if filter.OwnerID != "" && v.OwnerID != filter.OwnerID {
			continue
		}
		summaries = append(summaries, models.VideoSummary{ID: v.ID, Title: v.Title, Views: v.Views, IsPublished: v.IsPublished})
	}

	total := int64(len(summaries))
	offset := page.Offset()
	if offset >= len(summaries) {
		return nil, total, nil
	}
	end := offset + page.Limit
	if end > len(summaries) {
		end = len(summaries)
	}
	return summaries[offset:end], total, nil
}

func (s *fakeVideoStore) ListLikedBy(context.Context, string, pagination.Params) ([]models.VideoSummary, int64, error) {
	return nil, 0, nil
}

func (s *fakeVideoStore) ListDashboard(context.Context, string, pagination.Params) ([]models.DashboardVideo, int64, error) {
	return nil, 0, nil
}

func (s *fakeVideoStore) Totals(_ context.Context, ownerID string) (repositories.VideoTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var totals repositories.VideoTotals
	for _, v := range s.videos {
		if v.OwnerID != ownerID {
			continue
		}
		totals.Videos++
		totals.Views += v.Views
	}
	return totals, nil
}

type fakeRelationStore struct {
	mu      sync.Mutex
	rows    map[string]struct{}
	targets map[string]bool
}

func newFakeRelationStore(targets ...string) *fakeRelationStore {
	s := &fakeRelationStore{rows: make(map[string]struct{}), targets: make(map[string]bool)}
	for _, t := range targets {
		s.targets[t] = true
	}
	return s
}

func relationID(kind engagement.Kind, targetID, actorID string) string {
	return fmt.Sprintf("%s/%s/%s", kind, targetID, actorID)
}

func (s *fakeRelationStore) CreateRelation(_ context.Context, kind engagement.Kind, targetID, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := relationID(kind, targetID, actorID)
	if _, exists := s.rows[key]; exists {
		return apperr.ErrConflict
	}
	s.rows[key] = struct{}{}
	return nil
}

func (s *fakeRelationStore) DeleteRelation(_ context.Context, kind engagement.Kind, targetID, actorID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := relationID(kind, targetID, actorID)
	if _, exists := s.rows[key]; !exists {
		return false, nil
	}
	delete(s.rows, key)
	return true, nil
}

func (s *fakeRelationStore) TargetExists(_ context.Context, _ engagement.Kind, targetID string) (bool, error) {
	return s.targets[targetID], nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (s *fakeBlobStore) Save(_ context.Context, name string, r io.Reader) (string, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = data
	return "https://cdn.example.com/" + name, name, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
