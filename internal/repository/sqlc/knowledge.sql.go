package sqlc

import (
	"context"
)

const createKnowledgeEntry = `-- name: CreateKnowledgeEntry :one
INSERT INTO knowledge_base (question, answer)
VALUES ($1, $2)
RETURNING id, question, answer
`

type CreateKnowledgeEntryParams struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (q *Queries) CreateKnowledgeEntry(ctx context.Context, arg CreateKnowledgeEntryParams) (KnowledgeBase, error) {
	row := q.db.QueryRow(ctx, createKnowledgeEntry, arg.Question, arg.Answer)
	var i KnowledgeBase
	err := row.Scan(&i.ID, &i.Question, &i.Answer)
	return i, err
}

// Query lexemes are OR-ed so any shared stem contributes to the rank, like a
// natural-language MATCH. Ties fall back to the lowest id.
const searchKnowledgeBase = `-- name: SearchKnowledgeBase :one
WITH q AS (
    SELECT replace(plainto_tsquery('spanish', $1::text)::text, ' & ', ' | ')::tsquery AS query
)
SELECT kb.id, kb.question, kb.answer, ts_rank(kb.question_tsv, q.query)::float8 AS rank
FROM knowledge_base kb, q
WHERE kb.question_tsv @@ q.query
ORDER BY rank DESC, kb.id ASC
LIMIT 1
`

type SearchKnowledgeBaseRow struct {
	ID       int64   `json:"id"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Rank     float64 `json:"rank"`
}

func (q *Queries) SearchKnowledgeBase(ctx context.Context, query string) (SearchKnowledgeBaseRow, error) {
	row := q.db.QueryRow(ctx, searchKnowledgeBase, query)
	var i SearchKnowledgeBaseRow
	err := row.Scan(
		&i.ID,
		&i.Question,
		&i.Answer,
		&i.Rank,
	)
	return i, err
}
