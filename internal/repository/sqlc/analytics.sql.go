package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const feedbackAverage = `-- name: FeedbackAverage :one
SELECT COALESCE(AVG(rating), 0)::text AS average
FROM feedback
WHERE created_at >= $1
`

func (q *Queries) FeedbackAverage(ctx context.Context, since pgtype.Timestamptz) (string, error) {
	row := q.db.QueryRow(ctx, feedbackAverage, since)
	var average string
	err := row.Scan(&average)
	return average, err
}

const feedbackRatingCounts = `-- name: FeedbackRatingCounts :many
SELECT rating, COUNT(*)::bigint AS count
FROM feedback
WHERE created_at >= $1
GROUP BY rating
ORDER BY rating
`

type FeedbackRatingCountsRow struct {
	Rating int16 `json:"rating"`
	Count  int64 `json:"count"`
}

func (q *Queries) FeedbackRatingCounts(ctx context.Context, since pgtype.Timestamptz) ([]FeedbackRatingCountsRow, error) {
	rows, err := q.db.Query(ctx, feedbackRatingCounts, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FeedbackRatingCountsRow
	for rows.Next() {
		var i FeedbackRatingCountsRow
		if err := rows.Scan(&i.Rating, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const intentQuality = `-- name: IntentQuality :many
WITH rated AS (
    SELECT message_id, AVG(rating) AS rating
    FROM feedback
    GROUP BY message_id
)
SELECT m.intent::text AS intent,
       COUNT(*)::bigint AS messages,
       COUNT(r.message_id)::bigint AS rated_messages,
       COALESCE(AVG(r.rating), 0)::text AS average_rating,
       COALESCE(AVG(m.confidence), 0)::text AS average_confidence
FROM messages m
LEFT JOIN rated r ON r.message_id = m.id
WHERE m.intent IS NOT NULL AND m.intent <> '' AND m.created_at >= $1
GROUP BY m.intent
ORDER BY COUNT(r.message_id) = 0, AVG(r.rating) ASC NULLS LAST, m.intent ASC
`

type IntentQualityRow struct {
	Intent            string `json:"intent"`
	Messages          int64  `json:"messages"`
	RatedMessages     int64  `json:"rated_messages"`
	AverageRating     string `json:"average_rating"`
	AverageConfidence string `json:"average_confidence"`
}

func (q *Queries) IntentQuality(ctx context.Context, since pgtype.Timestamptz) ([]IntentQualityRow, error) {
	rows, err := q.db.Query(ctx, intentQuality, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []IntentQualityRow
	for rows.Next() {
		var i IntentQualityRow
		if err := rows.Scan(
			&i.Intent,
			&i.Messages,
			&i.RatedMessages,
			&i.AverageRating,
			&i.AverageConfidence,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const dailyMetrics = `-- name: DailyMetrics :many
WITH day_conversations AS (
    SELECT id, (started_at AT TIME ZONE 'UTC')::date AS day
    FROM conversations
    WHERE started_at >= $1 AND started_at < $2
),
message_counts AS (
    SELECT dc.day,
           COUNT(DISTINCT dc.id)::bigint AS conversations,
           COUNT(m.id)::bigint AS messages,
           COUNT(m.id) FILTER (WHERE m.sender = 'user')::bigint AS user_messages,
           COUNT(m.id) FILTER (WHERE m.sender = 'user' AND m.intent = $3)::bigint AS fallback_messages
    FROM day_conversations dc
    LEFT JOIN messages m ON m.conversation_id = dc.id
    GROUP BY dc.day
),
feedback_counts AS (
    SELECT dc.day,
           COUNT(f.id)::bigint AS feedback,
           AVG(f.rating) AS satisfaction
    FROM day_conversations dc
    JOIN messages m ON m.conversation_id = dc.id
    JOIN feedback f ON f.message_id = m.id
    GROUP BY dc.day
)
SELECT to_char(mc.day, 'YYYY-MM-DD') AS day,
       mc.conversations,
       mc.messages,
       mc.user_messages,
       mc.fallback_messages,
       COALESCE(fc.feedback, 0)::bigint AS feedback,
       COALESCE(fc.satisfaction, 0)::text AS satisfaction
FROM message_counts mc
LEFT JOIN feedback_counts fc ON fc.day = mc.day
ORDER BY mc.day
`

type DailyMetricsParams struct {
	From           pgtype.Timestamptz `json:"from"`
	To             pgtype.Timestamptz `json:"to"`
	FallbackIntent string             `json:"fallback_intent"`
}

type DailyMetricsRow struct {
	Day              string `json:"day"`
	Conversations    int64  `json:"conversations"`
	Messages         int64  `json:"messages"`
	UserMessages     int64  `json:"user_messages"`
	FallbackMessages int64  `json:"fallback_messages"`
	Feedback         int64  `json:"feedback"`
	Satisfaction     string `json:"satisfaction"`
}

func (q *Queries) DailyMetrics(ctx context.Context, arg DailyMetricsParams) ([]DailyMetricsRow, error) {
	rows, err := q.db.Query(ctx, dailyMetrics, arg.From, arg.To, arg.FallbackIntent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DailyMetricsRow
	for rows.Next() {
		var i DailyMetricsRow
		if err := rows.Scan(
			&i.Day,
			&i.Conversations,
			&i.Messages,
			&i.UserMessages,
			&i.FallbackMessages,
			&i.Feedback,
			&i.Satisfaction,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
