package sqlc

import (
	"context"
)

const createMessage = `-- name: CreateMessage :one
INSERT INTO messages (conversation_id, sender, message, intent, confidence)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, conversation_id, sender, message, intent, confidence, created_at
`

type CreateMessageParams struct {
	ConversationID int64   `json:"conversation_id"`
	Sender         string  `json:"sender"`
	Message        string  `json:"message"`
	Intent         *string `json:"intent"`
	Confidence     float64 `json:"confidence"`
}

func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error) {
	row := q.db.QueryRow(ctx, createMessage,
		arg.ConversationID,
		arg.Sender,
		arg.Message,
		arg.Intent,
		arg.Confidence,
	)
	var i Message
	err := row.Scan(
		&i.ID,
		&i.ConversationID,
		&i.Sender,
		&i.Message,
		&i.Intent,
		&i.Confidence,
		&i.CreatedAt,
	)
	return i, err
}

const listConversationMessages = `-- name: ListConversationMessages :many
SELECT id, conversation_id, sender, message, intent, confidence, created_at
FROM messages
WHERE conversation_id = $1
ORDER BY id ASC
`

func (q *Queries) ListConversationMessages(ctx context.Context, conversationID int64) ([]Message, error) {
	rows, err := q.db.Query(ctx, listConversationMessages, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Message
	for rows.Next() {
		var i Message
		if err := rows.Scan(
			&i.ID,
			&i.ConversationID,
			&i.Sender,
			&i.Message,
			&i.Intent,
			&i.Confidence,
			&i.CreatedAt,
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

const messageExists = `-- name: MessageExists :one
SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1)
`

func (q *Queries) MessageExists(ctx context.Context, id int64) (bool, error) {
	row := q.db.QueryRow(ctx, messageExists, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
