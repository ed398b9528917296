package domain

import (
	"time"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// Conversation is active while EndedAt is nil.
type Conversation struct {
	ID        int64      `json:"id"`
	SessionID string     `json:"session_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
}

func (c *Conversation) IsActive() bool {
	return c.EndedAt == nil
}

type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Sender         Sender    `json:"sender"`
	Text           string    `json:"text"`
	Intent         *string   `json:"intent"`
	Confidence     float64   `json:"confidence"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewMessage carries the fields of a message that is about to be appended.
type NewMessage struct {
	ConversationID int64
	Sender         Sender
	Text           string
	Intent         string
	Confidence     float64
}

type Entity struct {
	ID         int64   `json:"id"`
	MessageID  int64   `json:"message_id"`
	Name       string  `json:"name"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// EntityInput is an entity detected by the dialogue runtime, not yet persisted.
type EntityInput struct {
	Name       string
	Value      string
	Confidence float64
}

// ClampConfidence keeps a confidence score inside [0,1].
func ClampConfidence(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
