package repositories

import (
	"context"
	"fmt"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pagination"
)

// PostgresPlaylistRepository provides PostgreSQL-backed persistence for playlists.
type PostgresPlaylistRepository struct {
	pool db.Pool
}

// NewPostgresPlaylistRepository constructs a playlist repository backed by PostgreSQL.
func NewPostgresPlaylistRepository(pool db.Pool) *PostgresPlaylistRepository {
	return &PostgresPlaylistRepository{pool: pool}
}

// Create persists a new empty playlist.
func (r *PostgresPlaylistRepository) Create(ctx context.Context, playlist models.Playlist) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO playlists (id, owner_id, name, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, playlist.ID, playlist.OwnerID, playlist.Name, playlist.Description,
		playlist.CreatedAt, playlist.UpdatedAt)
	if err != nil {
		return wrapErr("insert playlist", err)
	}

	return nil
}

// FindByID fetches a playlist by its identifier.
func (r *PostgresPlaylistRepository) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var playlist models.Playlist
	row := conn.QueryRow(ctx, `
        SELECT id, owner_id, name, description, created_at, updated_at
        FROM playlists
        WHERE id = $1
    `, id)
	if err := row.Scan(&playlist.ID, &playlist.OwnerID, &playlist.Name,
		&playlist.Description, &playlist.CreatedAt, &playlist.UpdatedAt); err != nil {
		return models.Playlist{}, wrapErr("select playlist", err)
	}

	return playlist, nil
}

// Update rewrites a playlist's name and description.
func (r *PostgresPlaylistRepository) Update(ctx context.Context, playlist models.Playlist) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE playlists SET name = $2, description = $3, updated_at = $4 WHERE id = $1
    `, playlist.ID, playlist.Name, playlist.Description, playlist.UpdatedAt)
	if err != nil {
		return wrapErr("update playlist", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

// Delete removes a playlist and its membership rows.
func (r *PostgresPlaylistRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete playlist", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

// AddVideo appends the video to the playlist. Re-adding an existing member is
// a no-op thanks to the conflict clause on the membership primary key.
func (r *PostgresPlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO playlist_videos (playlist_id, video_id, position, added_at)
        VALUES ($1, $2,
                (SELECT COALESCE(max(position), 0) + 1 FROM playlist_videos WHERE playlist_id = $1),
                now())
        ON CONFLICT (playlist_id, video_id) DO NOTHING
    `, playlistID, videoID)
	if err != nil {
		return wrapErr("insert playlist video", err)
	}

	return nil
}

// RemoveVideo drops the video from the playlist if present.
func (r *PostgresPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2
    `, playlistID, videoID)
	if err != nil {
		return wrapErr("delete playlist video", err)
	}

	return nil
}

// ListForUser returns the owner's playlists with video and view totals.
// Empty playlists report zero totals rather than being dropped.
func (r *PostgresPlaylistRepository) ListForUser(ctx context.Context, ownerID string, page pagination.Params) ([]models.PlaylistSummary, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `
        SELECT count(*) FROM playlists WHERE owner_id = $1
    `, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count playlists: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT p.id, p.name, p.description, p.updated_at,
               (SELECT count(*) FROM playlist_videos pv WHERE pv.playlist_id = p.id),
               COALESCE((SELECT sum(v.views)
                         FROM playlist_videos pv
                         JOIN videos v ON v.id = pv.video_id
                         WHERE pv.playlist_id = p.id), 0)
        FROM playlists p
        WHERE p.owner_id = $1
        ORDER BY p.updated_at DESC
        LIMIT $2 OFFSET $3
    `, ownerID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.PlaylistSummary
	for rows.Next() {
		var p models.PlaylistSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.UpdatedAt,
			&p.TotalVideos, &p.TotalViews); err != nil {
			return nil, 0, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate playlists: %w", err)
	}

	return playlists, total, nil
}

// GetDetail returns the playlist with its published member videos in playlist
// order and the owner's public details.
func (r *PostgresPlaylistRepository) GetDetail(ctx context.Context, playlistID string) (models.PlaylistDetail, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.PlaylistDetail{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT p.id, p.name, p.description, p.created_at, p.updated_at,
               o.id, o.username, o.full_name, o.avatar_url
        FROM playlists p
        JOIN users o ON o.id = p.owner_id
        WHERE p.id = $1
    `, playlistID)

	var detail models.PlaylistDetail
	if err := row.Scan(&detail.ID, &detail.Name, &detail.Description,
		&detail.CreatedAt, &detail.UpdatedAt,
		&detail.Owner.ID, &detail.Owner.Username, &detail.Owner.FullName,
		&detail.Owner.AvatarURL); err != nil {
		return models.PlaylistDetail{}, wrapErr("select playlist detail", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT `+videoSummaryColumns+`
        FROM playlist_videos pv
        JOIN videos v ON v.id = pv.video_id
        JOIN users o ON o.id = v.owner_id
        WHERE pv.playlist_id = $1 AND v.is_published
        ORDER BY pv.position
    `, playlistID)
	if err != nil {
		return models.PlaylistDetail{}, fmt.Errorf("query playlist videos: %w", err)
	}
	defer rows.Close()

	videos, err := scanVideoSummaries(rows)
	if err != nil {
		return models.PlaylistDetail{}, fmt.Errorf("scan playlist videos: %w", err)
	}
	if videos == nil {
		videos = []models.VideoSummary{}
	}

	detail.Videos = videos
	detail.TotalVideos = int64(len(videos))
	for _, v := range videos {
		detail.TotalViews += v.Views
	}

	return detail, nil
}

var _ PlaylistRepository = (*PostgresPlaylistRepository)(nil)
