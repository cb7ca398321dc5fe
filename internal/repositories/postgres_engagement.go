package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/engagement"
)

// PostgresEngagementRepository persists toggle relations and view rows. The
// uniqueness invariants (one like per actor and target, one subscription per
// subscriber and channel, one view per video and viewer) live in the schema's
// unique indexes; this repository surfaces violations as apperr.ErrConflict.
type PostgresEngagementRepository struct {
	pool db.Pool
}

// NewPostgresEngagementRepository constructs an engagement repository backed by PostgreSQL.
func NewPostgresEngagementRepository(pool db.Pool) *PostgresEngagementRepository {
	return &PostgresEngagementRepository{pool: pool}
}

// likeTargetColumns maps like kinds to the column holding the target id.
var likeTargetColumns = map[engagement.Kind]string{
	engagement.KindVideoLike:   "video_id",
	engagement.KindCommentLike: "comment_id",
	engagement.KindTweetLike:   "tweet_id",
}

// CreateRelation inserts the relation row for (actorID, targetID).
func (r *PostgresEngagementRepository) CreateRelation(ctx context.Context, kind engagement.Kind, targetID, actorID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	now := time.Now().UTC()

	if kind == engagement.KindSubscription {
		_, err = conn.Exec(ctx, `
            INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
            VALUES ($1, $2, $3, $4)
        `, uuid.NewString(), actorID, targetID, now)
		if err != nil {
			return wrapErr("insert subscription", err)
		}
		return nil
	}

	column, ok := likeTargetColumns[kind]
	if !ok {
		return fmt.Errorf("unknown relation kind %q: %w", kind, apperr.ErrInvalidArgument)
	}

	_, err = conn.Exec(ctx, fmt.Sprintf(`
        INSERT INTO likes (id, liked_by, %s, created_at)
        VALUES ($1, $2, $3, $4)
    `, column), uuid.NewString(), actorID, targetID, now)
	if err != nil {
		return wrapErr("insert like", err)
	}

	return nil
}

// DeleteRelation removes the relation row for (actorID, targetID), reporting
// whether a row existed.
func (r *PostgresEngagementRepository) DeleteRelation(ctx context.Context, kind engagement.Kind, targetID, actorID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if kind == engagement.KindSubscription {
		tag, err := conn.Exec(ctx, `
            DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
        `, actorID, targetID)
		if err != nil {
			return false, wrapErr("delete subscription", err)
		}
		return tag.RowsAffected() > 0, nil
	}

	column, ok := likeTargetColumns[kind]
	if !ok {
		return false, fmt.Errorf("unknown relation kind %q: %w", kind, apperr.ErrInvalidArgument)
	}

	tag, err := conn.Exec(ctx, fmt.Sprintf(`
        DELETE FROM likes WHERE liked_by = $1 AND %s = $2
    `, column), actorID, targetID)
	if err != nil {
		return false, wrapErr("delete like", err)
	}

	return tag.RowsAffected() > 0, nil
}

// relationTargetTables maps toggle kinds to the table the target must exist in.
var relationTargetTables = map[engagement.Kind]string{
	engagement.KindVideoLike:    "videos",
	engagement.KindCommentLike:  "comments",
	engagement.KindTweetLike:    "tweets",
	engagement.KindSubscription: "users",
}

// TargetExists reports whether the toggle target is a live row.
func (r *PostgresEngagementRepository) TargetExists(ctx context.Context, kind engagement.Kind, targetID string) (bool, error) {
	table, ok := relationTargetTables[kind]
	if !ok {
		return false, fmt.Errorf("unknown relation kind %q: %w", kind, apperr.ErrInvalidArgument)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	if err := conn.QueryRow(ctx, query, targetID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s target: %w", kind, err)
	}

	return exists, nil
}

// VideoExists reports whether the video is a live row.
func (r *PostgresEngagementRepository) VideoExists(ctx context.Context, videoID string) (bool, error) {
	return r.TargetExists(ctx, engagement.KindVideoLike, videoID)
}

// RecordView inserts the view row, upserts the watch-history entry, and bumps
// the video counter when the view is new — all inside one transaction so the
// counter can never drift from the view rows.
func (r *PostgresEngagementRepository) RecordView(ctx context.Context, videoID, viewerID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("begin record view: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()

	tag, err := tx.Exec(ctx, `
        INSERT INTO views (id, video_id, viewer_id, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (video_id, viewer_id) DO NOTHING
    `, uuid.NewString(), videoID, viewerID, now)
	if err != nil {
		return false, wrapErr("insert view", err)
	}
	first := tag.RowsAffected() > 0

	_, err = tx.Exec(ctx, `
        INSERT INTO watch_history (user_id, video_id, watched_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = EXCLUDED.watched_at
    `, viewerID, videoID, now)
	if err != nil {
		return false, wrapErr("upsert watch history", err)
	}

	if first {
		if _, err := tx.Exec(ctx, `
            UPDATE videos SET views = views + 1 WHERE id = $1
        `, videoID); err != nil {
			return false, wrapErr("increment views", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit record view: %w", err)
	}

	return first, nil
}

// RemoveView deletes the view row and, only when one existed, decrements the
// counter (floored at zero) and drops the watch-history entry.
func (r *PostgresEngagementRepository) RemoveView(ctx context.Context, videoID, viewerID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("begin remove view: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
        DELETE FROM views WHERE video_id = $1 AND viewer_id = $2
    `, videoID, viewerID)
	if err != nil {
		return false, wrapErr("delete view", err)
	}

	removed := tag.RowsAffected() > 0
	if removed {
		if _, err := tx.Exec(ctx, `
            UPDATE videos SET views = views - 1 WHERE id = $1 AND views > 0
        `, videoID); err != nil {
			return false, wrapErr("decrement views", err)
		}

		if _, err := tx.Exec(ctx, `
            DELETE FROM watch_history WHERE user_id = $1 AND video_id = $2
        `, viewerID, videoID); err != nil {
			return false, wrapErr("delete watch history", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit remove view: %w", err)
	}

	return removed, nil
}

// CountViews counts the distinct viewers of a video.
func (r *PostgresEngagementRepository) CountViews(ctx context.Context, videoID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	if err := conn.QueryRow(ctx, `
        SELECT count(*) FROM views WHERE video_id = $1
    `, videoID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count views: %w", err)
	}

	return count, nil
}

var _ engagement.RelationStore = (*PostgresEngagementRepository)(nil)
var _ engagement.TargetChecker = (*PostgresEngagementRepository)(nil)
var _ engagement.ViewStore = (*PostgresEngagementRepository)(nil)
var _ engagement.VideoChecker = (*PostgresEngagementRepository)(nil)
