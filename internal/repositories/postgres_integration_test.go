package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/engagement"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pagination"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `TRUNCATE TABLE playlist_videos, playlists, watch_history, views,
                subscriptions, likes, comments, tweets, videos, sessions, users CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func createTestUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    username + "@example.com",
		Password: "password-hash",
		FullName: "Test " + username,
	}
	if err := NewPostgresUserRepository(testPool).Create(context.Background(), user); err != nil {
		t.Fatalf("create test user %s: %v", username, err)
	}
	return user
}

func createTestVideo(t *testing.T, ownerID, title string, published bool) models.Video {
	t.Helper()
	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		VideoURL:    "https://media.example.com/" + title + ".mp4",
		Duration:    42,
		IsPublished: published,
	}
	if err := NewPostgresVideoRepository(testPool).Create(context.Background(), video); err != nil {
		t.Fatalf("create test video %s: %v", title, err)
	}
	return video
}

func TestUserRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresUserRepository(testPool)
	user := createTestUser(t, "alice")

	dup := models.User{
		ID:       uuid.NewString(),
		Username: "ALICE",
		Email:    "other@example.com",
		Password: "hash",
		FullName: "Impostor",
	}
	if err := repo.Create(ctx, dup); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate username, got %v", err)
	}

	fetched, err := repo.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if fetched.ID != user.ID {
		t.Fatalf("unexpected user fetched: %+v", fetched)
	}
}

func TestVideoCreateRoundTrip(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	alice := createTestUser(t, "alice")
	repo := NewPostgresVideoRepository(testPool)

	video := models.Video{
		ID:           uuid.NewString(),
		OwnerID:      alice.ID,
		Title:        "clip",
		Description:  "a short clip",
		VideoURL:     "https://media.example.com/clip.mp4",
		ThumbnailURL: "https://media.example.com/clip.jpg",
		Duration:     187.5,
		IsPublished:  true,
	}
	if err := repo.Create(ctx, video); err != nil {
		t.Fatalf("create video: %v", err)
	}

	stored, err := repo.FindByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("find video: %v", err)
	}
	if stored.Duration != 187.5 {
		t.Fatalf("expected duration 187.5 to survive the round trip, got %v", stored.Duration)
	}
	if stored.Title != video.Title || stored.VideoURL != video.VideoURL {
		t.Fatalf("unexpected stored video: %+v", stored)
	}
}

func TestLikeRelationUniqueness(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	alice := createTestUser(t, "alice")
	video := createTestVideo(t, alice.ID, "clip", true)
	repo := NewPostgresEngagementRepository(testPool)

	if err := repo.CreateRelation(ctx, engagement.KindVideoLike, video.ID, alice.ID); err != nil {
		t.Fatalf("create like: %v", err)
	}
	if err := repo.CreateRelation(ctx, engagement.KindVideoLike, video.ID, alice.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate like, got %v", err)
	}

	deleted, err := repo.DeleteRelation(ctx, engagement.KindVideoLike, video.ID, alice.ID)
	if err != nil || !deleted {
		t.Fatalf("expected delete to remove the row, got deleted=%v err=%v", deleted, err)
	}
	deleted, err = repo.DeleteRelation(ctx, engagement.KindVideoLike, video.ID, alice.ID)
	if err != nil || deleted {
		t.Fatalf("expected second delete to find nothing, got deleted=%v err=%v", deleted, err)
	}
}

func TestSubscriptionSelfCheckConstraint(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	alice := createTestUser(t, "alice")
	repo := NewPostgresEngagementRepository(testPool)

	err := repo.CreateRelation(ctx, engagement.KindSubscription, alice.ID, alice.ID)
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument from the self-subscription check, got %v", err)
	}
}

func TestRecordViewIdempotencyAndCounter(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	video := createTestVideo(t, alice.ID, "clip", true)

	repo := NewPostgresEngagementRepository(testPool)
	videoRepo := NewPostgresVideoRepository(testPool)

	first, err := repo.RecordView(ctx, video.ID, bob.ID)
	if err != nil || !first {
		t.Fatalf("expected first view, got first=%v err=%v", first, err)
	}
	first, err = repo.RecordView(ctx, video.ID, bob.ID)
	if err != nil || first {
		t.Fatalf("expected repeat view to be deduplicated, got first=%v err=%v", first, err)
	}

	stored, err := videoRepo.FindByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("find video: %v", err)
	}
	if stored.Views != 1 {
		t.Fatalf("expected views counter 1 after duplicate records, got %d", stored.Views)
	}

	history, total, err := NewPostgresUserRepository(testPool).GetWatchHistory(ctx, bob.ID, pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("watch history: %v", err)
	}
	if total != 1 || len(history) != 1 || history[0].ID != video.ID {
		t.Fatalf("expected the video in watch history, got total=%d items=%+v", total, history)
	}

	removed, err := repo.RemoveView(ctx, video.ID, bob.ID)
	if err != nil || !removed {
		t.Fatalf("expected remove to succeed, got removed=%v err=%v", removed, err)
	}

	stored, err = videoRepo.FindByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("find video after removal: %v", err)
	}
	if stored.Views != 0 {
		t.Fatalf("expected views counter back to 0, got %d", stored.Views)
	}

	removed, err = repo.RemoveView(ctx, video.ID, bob.ID)
	if err != nil || removed {
		t.Fatalf("expected second remove to find nothing, got removed=%v err=%v", removed, err)
	}
}

func TestChannelProfileAggregation(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	repo := NewPostgresEngagementRepository(testPool)
	if err := repo.CreateRelation(ctx, engagement.KindSubscription, alice.ID, bob.ID); err != nil {
		t.Fatalf("subscribe bob to alice: %v", err)
	}

	users := NewPostgresUserRepository(testPool)

	profile, err := users.GetChannelProfile(ctx, "alice", bob.ID)
	if err != nil {
		t.Fatalf("channel profile for subscriber: %v", err)
	}
	if profile.SubscribersCount != 1 || !profile.IsSubscribed {
		t.Fatalf("expected subscribersCount=1 isSubscribed=true, got %+v", profile)
	}

	profile, err = users.GetChannelProfile(ctx, "alice", "")
	if err != nil {
		t.Fatalf("channel profile for anonymous: %v", err)
	}
	if profile.IsSubscribed {
		t.Fatal("anonymous viewer must never appear subscribed")
	}
}

func TestVideoListFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	alice := createTestUser(t, "alice")
	createTestVideo(t, alice.ID, "first clip", true)
	createTestVideo(t, alice.ID, "second clip", true)
	createTestVideo(t, alice.ID, "third clip", true)
	createTestVideo(t, alice.ID, "hidden draft", false)

	repo := NewPostgresVideoRepository(testPool)

	videos, total, err := repo.List(ctx, VideoFilter{}, pagination.Params{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list videos: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 published videos counted, got %d", total)
	}
	if len(videos) != 2 {
		t.Fatalf("expected page of 2, got %d", len(videos))
	}

	videos, total, err = repo.List(ctx, VideoFilter{Query: "second"}, pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("search videos: %v", err)
	}
	if total != 1 || len(videos) != 1 || videos[0].Title != "second clip" {
		t.Fatalf("expected the matching video only, got total=%d items=%+v", total, videos)
	}
}

func TestCommentListViewerConditionalFields(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	video := createTestVideo(t, alice.ID, "clip", true)

	comments := NewPostgresCommentRepository(testPool)
	comment := models.Comment{ID: uuid.NewString(), VideoID: video.ID, OwnerID: bob.ID, Content: "nice one"}
	if err := comments.Create(ctx, comment); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	engagements := NewPostgresEngagementRepository(testPool)
	if err := engagements.CreateRelation(ctx, engagement.KindCommentLike, comment.ID, bob.ID); err != nil {
		t.Fatalf("like comment: %v", err)
	}

	listed, total, err := comments.ListForVideo(ctx, video.ID, bob.ID, pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list comments as liker: %v", err)
	}
	if total != 1 || len(listed) != 1 {
		t.Fatalf("expected one comment, got total=%d items=%d", total, len(listed))
	}
	if listed[0].LikesCount != 1 || !listed[0].IsLiked {
		t.Fatalf("expected likesCount=1 isLiked=true for the liker, got %+v", listed[0])
	}

	listed, _, err = comments.ListForVideo(ctx, video.ID, alice.ID, pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list comments as non-liker: %v", err)
	}
	if listed[0].LikesCount != 1 || listed[0].IsLiked {
		t.Fatalf("expected likesCount=1 isLiked=false for a non-liker, got %+v", listed[0])
	}
}

func TestUnpublishedVideosHiddenFromLikedAndHistory(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	video := createTestVideo(t, alice.ID, "clip", true)

	engagements := NewPostgresEngagementRepository(testPool)
	if err := engagements.CreateRelation(ctx, engagement.KindVideoLike, video.ID, bob.ID); err != nil {
		t.Fatalf("like video: %v", err)
	}
	if _, err := engagements.RecordView(ctx, video.ID, bob.ID); err != nil {
		t.Fatalf("record view: %v", err)
	}

	videos := NewPostgresVideoRepository(testPool)
	users := NewPostgresUserRepository(testPool)

	liked, total, err := videos.ListLikedBy(ctx, bob.ID, pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list liked videos: %v", err)
	}
	if total != 1 || len(liked) != 1 {
		t.Fatalf("expected the published video to be listed, got total=%d items=%d", total, len(liked))
	}

	if err := videos.SetPublished(ctx, video.ID, false); err != nil {
		t.Fatalf("unpublish video: %v", err)
	}

	liked, total, err = videos.ListLikedBy(ctx, bob.ID, pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list liked videos after unpublish: %v", err)
	}
	if total != 0 || len(liked) != 0 {
		t.Fatalf("expected the unpublished video to be hidden from likes, got total=%d items=%+v", total, liked)
	}

	history, total, err := users.GetWatchHistory(ctx, bob.ID, pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("watch history after unpublish: %v", err)
	}
	if total != 0 || len(history) != 0 {
		t.Fatalf("expected the unpublished video to be hidden from history, got total=%d items=%+v", total, history)
	}
}

func TestPlaylistMembershipSetSemantics(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	alice := createTestUser(t, "alice")
	video := createTestVideo(t, alice.ID, "clip", true)

	repo := NewPostgresPlaylistRepository(testPool)
	playlist := models.Playlist{ID: uuid.NewString(), OwnerID: alice.ID, Name: "watch later"}
	if err := repo.Create(ctx, playlist); err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	if err := repo.AddVideo(ctx, playlist.ID, video.ID); err != nil {
		t.Fatalf("add video: %v", err)
	}
	if err := repo.AddVideo(ctx, playlist.ID, video.ID); err != nil {
		t.Fatalf("re-add video: %v", err)
	}

	detail, err := repo.GetDetail(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("playlist detail: %v", err)
	}
	if detail.TotalVideos != 1 || len(detail.Videos) != 1 {
		t.Fatalf("expected one member after duplicate add, got %+v", detail)
	}

	if err := repo.RemoveVideo(ctx, playlist.ID, video.ID); err != nil {
		t.Fatalf("remove video: %v", err)
	}
	detail, err = repo.GetDetail(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("playlist detail after removal: %v", err)
	}
	if detail.TotalVideos != 0 || len(detail.Videos) != 0 {
		t.Fatalf("expected empty playlist, got %+v", detail)
	}
}
