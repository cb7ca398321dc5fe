package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pagination"
)

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

const videoColumns = `id, owner_id, title, description, video_url, video_key,
        thumbnail_url, thumbnail_key, duration_seconds, views, is_published, created_at, updated_at`

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (`+videoColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `, video.ID, video.OwnerID, video.Title, video.Description, video.VideoURL,
		video.VideoKey, video.ThumbnailURL, video.ThumbnailKey, video.Duration,
		video.Views, video.IsPublished, video.CreatedAt, video.UpdatedAt)
	if err != nil {
		return wrapErr("insert video", err)
	}

	return nil
}

// FindByID fetches a video by its identifier.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var video models.Video
	row := conn.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)
	if err := row.Scan(&video.ID, &video.OwnerID, &video.Title, &video.Description,
		&video.VideoURL, &video.VideoKey, &video.ThumbnailURL, &video.ThumbnailKey,
		&video.Duration, &video.Views, &video.IsPublished,
		&video.CreatedAt, &video.UpdatedAt); err != nil {
		return models.Video{}, wrapErr("select video", err)
	}

	return video, nil
}

// Update modifies a video's editable fields. The views counter is deliberately
// excluded; it changes only through the view recorder.
func (r *PostgresVideoRepository) Update(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET title = $2, description = $3, thumbnail_url = $4, thumbnail_key = $5,
            updated_at = $6
        WHERE id = $1
    `, video.ID, video.Title, video.Description, video.ThumbnailURL,
		video.ThumbnailKey, video.UpdatedAt)
	if err != nil {
		return wrapErr("update video", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

// Delete removes a video and, through cascading constraints, its comments,
// likes, views, and playlist memberships.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete video", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

// SetPublished flips the publish flag.
func (r *PostgresVideoRepository) SetPublished(ctx context.Context, id string, published bool) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos SET is_published = $2, updated_at = now() WHERE id = $1
    `, id, published)
	if err != nil {
		return wrapErr("update publish status", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

// sortColumns whitelists the sortable fields exposed through the listing API.
var sortColumns = map[string]string{
	"createdAt": "v.created_at",
	"views":     "v.views",
	"duration":  "v.duration_seconds",
	"title":     "v.title",
}

// List returns video summaries matching the filter, paginated.
func (r *PostgresVideoRepository) List(ctx context.Context, filter VideoFilter, page pagination.Params) ([]models.VideoSummary, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	where := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if !filter.IncludeUnpublished {
		where = append(where, "v.is_published")
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where = append(where, fmt.Sprintf("v.owner_id = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where = append(where, fmt.Sprintf("(v.title ILIKE $%d OR v.description ILIKE $%d)", len(args), len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := conn.QueryRow(ctx, `SELECT count(*) FROM videos v `+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	orderBy, ok := sortColumns[filter.SortBy]
	if !ok {
		orderBy = "v.created_at"
	}
	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}

	args = append(args, page.Limit, page.Offset())
	rows, err := conn.Query(ctx, fmt.Sprintf(`
        SELECT `+videoSummaryColumns+`
        FROM videos v
        JOIN users o ON o.id = v.owner_id
        %s
        ORDER BY %s %s
        LIMIT $%d OFFSET $%d
    `, clause, orderBy, direction, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	summaries, err := scanVideoSummaries(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("scan videos: %w", err)
	}

	return summaries, total, nil
}

// ListLikedBy returns the viewer's liked videos, most recent like first.
func (r *PostgresVideoRepository) ListLikedBy(ctx context.Context, viewerID string, page pagination.Params) ([]models.VideoSummary, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `
        SELECT count(*)
        FROM likes l
        JOIN videos v ON v.id = l.video_id
        WHERE l.liked_by = $1 AND v.is_published
    `, viewerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count liked videos: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT `+videoSummaryColumns+`
        FROM likes l
        JOIN videos v ON v.id = l.video_id
        JOIN users o ON o.id = v.owner_id
        WHERE l.liked_by = $1 AND v.is_published
        ORDER BY l.created_at DESC
        LIMIT $2 OFFSET $3
    `, viewerID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	summaries, err := scanVideoSummaries(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("scan liked videos: %w", err)
	}

	return summaries, total, nil
}

// ListDashboard returns the channel's own uploads with per-video like counts.
func (r *PostgresVideoRepository) ListDashboard(ctx context.Context, ownerID string, page pagination.Params) ([]models.DashboardVideo, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `
        SELECT count(*) FROM videos WHERE owner_id = $1
    `, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count dashboard videos: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.views, v.is_published, v.created_at,
               (SELECT count(*) FROM likes l WHERE l.video_id = v.id)
        FROM videos v
        WHERE v.owner_id = $1
        ORDER BY v.created_at DESC
        LIMIT $2 OFFSET $3
    `, ownerID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("query dashboard videos: %w", err)
	}
	defer rows.Close()

	var videos []models.DashboardVideo
	for rows.Next() {
		var v models.DashboardVideo
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.VideoURL,
			&v.ThumbnailURL, &v.Views, &v.IsPublished, &v.CreatedAt,
			&v.LikesCount); err != nil {
			return nil, 0, fmt.Errorf("scan dashboard video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate dashboard videos: %w", err)
	}

	return videos, total, nil
}

// Totals sums video, view, and like counters across a channel's uploads.
func (r *PostgresVideoRepository) Totals(ctx context.Context, ownerID string) (VideoTotals, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return VideoTotals{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT count(*),
               COALESCE(sum(v.views), 0),
               (SELECT count(*)
                FROM likes l
                JOIN videos lv ON lv.id = l.video_id
                WHERE lv.owner_id = $1)
        FROM videos v
        WHERE v.owner_id = $1
    `, ownerID)

	var totals VideoTotals
	if err := row.Scan(&totals.Videos, &totals.Views, &totals.Likes); err != nil {
		return VideoTotals{}, fmt.Errorf("select video totals: %w", err)
	}

	return totals, nil
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
