package sqlc

import (
	"context"
)

const createEntity = `-- name: CreateEntity :exec
INSERT INTO entities (message_id, entity_name, entity_value, confidence)
VALUES ($1, $2, $3, $4)
`

type CreateEntityParams struct {
	MessageID   int64   `json:"message_id"`
	EntityName  string  `json:"entity_name"`
	EntityValue string  `json:"entity_value"`
	Confidence  float64 `json:"confidence"`
}

func (q *Queries) CreateEntity(ctx context.Context, arg CreateEntityParams) error {
	_, err := q.db.Exec(ctx, createEntity,
		arg.MessageID,
		arg.EntityName,
		arg.EntityValue,
		arg.Confidence,
	)
	return err
}

const listMessageEntities = `-- name: ListMessageEntities :many
SELECT id, message_id, entity_name, entity_value, confidence
FROM entities
WHERE message_id = $1
ORDER BY id ASC
`

func (q *Queries) ListMessageEntities(ctx context.Context, messageID int64) ([]Entity, error) {
	rows, err := q.db.Query(ctx, listMessageEntities, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Entity
	for rows.Next() {
		var i Entity
		if err := rows.Scan(
			&i.ID,
			&i.MessageID,
			&i.EntityName,
			&i.EntityValue,
			&i.Confidence,
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
