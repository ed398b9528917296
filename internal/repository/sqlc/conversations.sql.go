package sqlc

import (
	"context"
)

const createConversation = `-- name: CreateConversation :one
INSERT INTO conversations (session_id)
VALUES ($1)
RETURNING id, session_id, started_at, ended_at
`

func (q *Queries) CreateConversation(ctx context.Context, sessionID string) (Conversation, error) {
	row := q.db.QueryRow(ctx, createConversation, sessionID)
	var i Conversation
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.StartedAt,
		&i.EndedAt,
	)
	return i, err
}

const endConversation = `-- name: EndConversation :execrows
UPDATE conversations
SET ended_at = now()
WHERE id = $1 AND ended_at IS NULL
`

func (q *Queries) EndConversation(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, endConversation, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getActiveConversationBySession = `-- name: GetActiveConversationBySession :one
SELECT id, session_id, started_at, ended_at
FROM conversations
WHERE session_id = $1 AND ended_at IS NULL
ORDER BY started_at DESC, id DESC
LIMIT 1
`

func (q *Queries) GetActiveConversationBySession(ctx context.Context, sessionID string) (Conversation, error) {
	row := q.db.QueryRow(ctx, getActiveConversationBySession, sessionID)
	var i Conversation
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.StartedAt,
		&i.EndedAt,
	)
	return i, err
}

const getConversationByID = `-- name: GetConversationByID :one
SELECT id, session_id, started_at, ended_at
FROM conversations
WHERE id = $1
`

func (q *Queries) GetConversationByID(ctx context.Context, id int64) (Conversation, error) {
	row := q.db.QueryRow(ctx, getConversationByID, id)
	var i Conversation
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.StartedAt,
		&i.EndedAt,
	)
	return i, err
}

const lockSession = `-- name: LockSession :exec
SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))
`

// LockSession takes a transaction-scoped advisory lock keyed by session id.
func (q *Queries) LockSession(ctx context.Context, sessionID string) error {
	_, err := q.db.Exec(ctx, lockSession, sessionID)
	return err
}
