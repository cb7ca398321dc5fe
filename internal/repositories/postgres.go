package repositories

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/models"
)

// wrapErr translates recognizable Postgres failures into taxonomy sentinels
// and wraps everything else with the failing operation for context.
func wrapErr(op string, err error) error {
	if translated := translateError(err); translated != err {
		return translated
	}
	return fmt.Errorf("%s: %w", op, err)
}

// videoSummaryColumns is the shared projection of a video joined with its
// owner, aliased v and o respectively in the queries that embed it.
const videoSummaryColumns = `v.id, v.title, v.description, v.video_url, v.thumbnail_url,
        v.duration_seconds, v.views, v.is_published, v.created_at,
        o.id, o.username, o.full_name, o.avatar_url`

func scanVideoSummary(row pgx.Row) (models.VideoSummary, error) {
	var s models.VideoSummary
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.VideoURL, &s.ThumbnailURL,
		&s.Duration, &s.Views, &s.IsPublished, &s.CreatedAt,
		&s.Owner.ID, &s.Owner.Username, &s.Owner.FullName, &s.Owner.AvatarURL)
	return s, err
}

func scanVideoSummaries(rows pgx.Rows) ([]models.VideoSummary, error) {
	var summaries []models.VideoSummary
	for rows.Next() {
		summary, err := scanVideoSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}
