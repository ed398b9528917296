package service

import (
	"context"
	"time"

	"github.com/set-night/eduassist/internal/domain"
)

// ConversationRepository is implemented by repository.PGStore and repository.MemoryStore.
type ConversationRepository interface {
	ResolveActiveConversation(ctx context.Context, sessionID string) (domain.Conversation, error)
	EndConversation(ctx context.Context, conversationID int64) error
	InsertMessage(ctx context.Context, msg domain.NewMessage) (domain.Message, error)
	ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error)
	InsertEntity(ctx context.Context, messageID int64, e domain.EntityInput) error
	ListEntities(ctx context.Context, messageID int64) ([]domain.Entity, error)
	InsertFeedback(ctx context.Context, messageID int64, rating int, comment string) (domain.Feedback, error)
	GetFeedback(ctx context.Context, id int64) (domain.Feedback, error)
}

type KnowledgeRepository interface {
	SearchKnowledge(ctx context.Context, query string) (domain.KnowledgeMatch, error)
	InsertKnowledge(ctx context.Context, entry domain.KnowledgeEntry) (domain.KnowledgeEntry, error)
}

type AnalyticsRepository interface {
	FeedbackSummary(ctx context.Context, since time.Time) (domain.FeedbackSummary, error)
	IntentQuality(ctx context.Context, since time.Time) ([]domain.IntentQuality, error)
	DailyMetrics(ctx context.Context, from, to time.Time) ([]domain.DailyMetrics, error)
}

// Store is the full storage surface a process wires into its services.
type Store interface {
	ConversationRepository
	KnowledgeRepository
	AnalyticsRepository
	Ping(ctx context.Context) error
}
