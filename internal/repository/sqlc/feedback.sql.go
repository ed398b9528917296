package sqlc

import (
	"context"
)

const createFeedback = `-- name: CreateFeedback :one
INSERT INTO feedback (message_id, rating, comment)
VALUES ($1, $2, $3)
RETURNING id, message_id, rating, comment, created_at
`

type CreateFeedbackParams struct {
	MessageID int64  `json:"message_id"`
	Rating    int16  `json:"rating"`
	Comment   string `json:"comment"`
}

func (q *Queries) CreateFeedback(ctx context.Context, arg CreateFeedbackParams) (Feedback, error) {
	row := q.db.QueryRow(ctx, createFeedback, arg.MessageID, arg.Rating, arg.Comment)
	var i Feedback
	err := row.Scan(
		&i.ID,
		&i.MessageID,
		&i.Rating,
		&i.Comment,
		&i.CreatedAt,
	)
	return i, err
}

const getFeedbackByID = `-- name: GetFeedbackByID :one
SELECT id, message_id, rating, comment, created_at
FROM feedback
WHERE id = $1
`

func (q *Queries) GetFeedbackByID(ctx context.Context, id int64) (Feedback, error) {
	row := q.db.QueryRow(ctx, getFeedbackByID, id)
	var i Feedback
	err := row.Scan(
		&i.ID,
		&i.MessageID,
		&i.Rating,
		&i.Comment,
		&i.CreatedAt,
	)
	return i, err
}
