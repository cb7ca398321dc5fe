package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pagination"
)

// PostgresSubscriptionRepository provides the read projections over
// subscription rows. Writes go through the engagement repository.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// ListSubscribers returns a channel's subscribers newest first. Each entry
// carries the subscriber's own subscriber count and whether the channel
// subscribes back to them.
func (r *PostgresSubscriptionRepository) ListSubscribers(ctx context.Context, channelID string, page pagination.Params) ([]models.SubscriberInfo, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `
        SELECT count(*) FROM subscriptions WHERE channel_id = $1
    `, channelID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subscribers: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar_url,
               (SELECT count(*) FROM subscriptions s2 WHERE s2.channel_id = u.id),
               EXISTS (
                   SELECT 1 FROM subscriptions s3
                   WHERE s3.channel_id = u.id AND s3.subscriber_id = $1
               )
        FROM subscriptions s
        JOIN users u ON u.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC
        LIMIT $2 OFFSET $3
    `, channelID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []models.SubscriberInfo
	for rows.Next() {
		var info models.SubscriberInfo
		if err := rows.Scan(&info.Subscriber.ID, &info.Subscriber.Username,
			&info.Subscriber.FullName, &info.Subscriber.AvatarURL,
			&info.SubscribersCount, &info.SubscribedToSubscriber); err != nil {
			return nil, 0, fmt.Errorf("scan subscriber: %w", err)
		}
		subscribers = append(subscribers, info)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate subscribers: %w", err)
	}

	return subscribers, total, nil
}

// ListSubscribedChannels returns the channels a user subscribes to, each with
// the channel's latest published video. Channels with no published uploads
// yield a null latest video, not an error.
func (r *PostgresSubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID string, page pagination.Params) ([]models.SubscribedChannel, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `
        SELECT count(*) FROM subscriptions WHERE subscriber_id = $1
    `, subscriberID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subscribed channels: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar_url,
               v.id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.duration_seconds, v.views, v.created_at
        FROM subscriptions s
        JOIN users u ON u.id = s.channel_id
        LEFT JOIN LATERAL (
            SELECT lv.id, lv.title, lv.description, lv.video_url, lv.thumbnail_url,
                   lv.duration_seconds, lv.views, lv.created_at
            FROM videos lv
            WHERE lv.owner_id = u.id AND lv.is_published
            ORDER BY lv.created_at DESC
            LIMIT 1
        ) v ON true
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC
        LIMIT $2 OFFSET $3
    `, subscriberID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("query subscribed channels: %w", err)
	}
	defer rows.Close()

	var channels []models.SubscribedChannel
	for rows.Next() {
		var (
			entry     models.SubscribedChannel
			id        sql.NullString
			title     sql.NullString
			desc      sql.NullString
			videoURL  sql.NullString
			thumbURL  sql.NullString
			duration  sql.NullFloat64
			views     sql.NullInt64
			createdAt sql.NullTime
		)

		if err := rows.Scan(&entry.Channel.ID, &entry.Channel.Username,
			&entry.Channel.FullName, &entry.Channel.AvatarURL,
			&id, &title, &desc, &videoURL, &thumbURL,
			&duration, &views, &createdAt); err != nil {
			return nil, 0, fmt.Errorf("scan subscribed channel: %w", err)
		}

		if id.Valid {
			entry.LatestVideo = &models.VideoSummary{
				ID:           id.String,
				Title:        title.String,
				Description:  desc.String,
				VideoURL:     videoURL.String,
				ThumbnailURL: thumbURL.String,
				Duration:     duration.Float64,
				Views:        views.Int64,
				IsPublished:  true,
				CreatedAt:    createdAt.Time.UTC(),
				Owner:        entry.Channel,
			}
		}

		channels = append(channels, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate subscribed channels: %w", err)
	}

	return channels, total, nil
}

// CountForChannel counts a channel's subscribers.
func (r *PostgresSubscriptionRepository) CountForChannel(ctx context.Context, channelID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	if err := conn.QueryRow(ctx, `
        SELECT count(*) FROM subscriptions WHERE channel_id = $1
    `, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count channel subscribers: %w", err)
	}

	return count, nil
}

var _ SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)
