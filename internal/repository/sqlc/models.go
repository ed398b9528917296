package sqlc

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Conversation struct {
	ID        int64              `json:"id"`
	SessionID string             `json:"session_id"`
	StartedAt pgtype.Timestamptz `json:"started_at"`
	EndedAt   pgtype.Timestamptz `json:"ended_at"`
}

type Entity struct {
	ID          int64   `json:"id"`
	MessageID   int64   `json:"message_id"`
	EntityName  string  `json:"entity_name"`
	EntityValue string  `json:"entity_value"`
	Confidence  float64 `json:"confidence"`
}

type Feedback struct {
	ID        int64              `json:"id"`
	MessageID int64              `json:"message_id"`
	Rating    int16              `json:"rating"`
	Comment   string             `json:"comment"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type KnowledgeBase struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Message struct {
	ID             int64              `json:"id"`
	ConversationID int64              `json:"conversation_id"`
	Sender         string             `json:"sender"`
	Message        string             `json:"message"`
	Intent         *string            `json:"intent"`
	Confidence     float64            `json:"confidence"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}
