package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/set-night/eduassist/internal/domain"
)

type ConversationService struct {
	repo    ConversationRepository
	timeout time.Duration
}

func NewConversationService(repo ConversationRepository, timeout time.Duration) *ConversationService {
	return &ConversationService{repo: repo, timeout: timeout}
}

// ResolveOrCreateConversation returns the id of the session's active conversation,
// starting one if the session has none.
func (s *ConversationService) ResolveOrCreateConversation(ctx context.Context, sessionID string) (int64, error) {
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	conv, err := s.repo.ResolveActiveConversation(ctx, sessionID)
	if err != nil {
		return 0, storageErr("resolve conversation", err)
	}
	return conv.ID, nil
}

// EndConversation closes a conversation. Ending an already ended conversation is a no-op.
func (s *ConversationService) EndConversation(ctx context.Context, conversationID int64) error {
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.EndConversation(ctx, conversationID); err != nil {
		return storageErr("end conversation", err)
	}
	slog.Info("conversation ended", "conversation_id", conversationID)
	return nil
}

func (s *ConversationService) RecordMessage(ctx context.Context, msg domain.NewMessage) (int64, error) {
	if !msg.Sender.Valid() {
		return 0, fmt.Errorf("record message: %w: %q", domain.ErrInvalidSender, msg.Sender)
	}
	msg.Confidence = domain.ClampConfidence(msg.Confidence)

	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	m, err := s.repo.InsertMessage(ctx, msg)
	if err != nil {
		return 0, storageErr("record message", err)
	}
	return m.ID, nil
}

func (s *ConversationService) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	msgs, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, storageErr("list messages", err)
	}
	return msgs, nil
}

// RecordEntities stores each entity independently and returns how many were written.
// Failures are logged and never returned.
func (s *ConversationService) RecordEntities(ctx context.Context, messageID int64, entities []domain.EntityInput) int {
	stored := 0
	for _, e := range entities {
		e.Confidence = domain.ClampConfidence(e.Confidence)

		ictx, cancel := withStoreTimeout(ctx, s.timeout)
		err := s.repo.InsertEntity(ictx, messageID, e)
		cancel()
		if err != nil {
			slog.Warn("failed to record entity",
				"component", "conversation_store",
				"op", "record_entities",
				"message_id", messageID,
				"entity", e.Name,
				"error", err,
			)
			continue
		}
		stored++
	}
	if stored < len(entities) {
		slog.Warn("entities partially recorded", "message_id", messageID, "stored", stored, "total", len(entities))
	}
	return stored
}

func (s *ConversationService) ListEntities(ctx context.Context, messageID int64) ([]domain.Entity, error) {
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	entities, err := s.repo.ListEntities(ctx, messageID)
	if err != nil {
		return nil, storageErr("list entities", err)
	}
	return entities, nil
}

// RecordFeedback fails with domain.ErrInvalidFeedback for an out of range rating
// or a message id that does not exist.
func (s *ConversationService) RecordFeedback(ctx context.Context, messageID int64, rating int, comment string) (int64, error) {
	if !domain.ValidRating(rating) {
		return 0, fmt.Errorf("%w: rating %d out of range", domain.ErrInvalidFeedback, rating)
	}

	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	fb, err := s.repo.InsertFeedback(ctx, messageID, rating, comment)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return 0, fmt.Errorf("%w: %w", domain.ErrInvalidFeedback, err)
		}
		return 0, storageErr("record feedback", err)
	}
	return fb.ID, nil
}

func (s *ConversationService) GetFeedback(ctx context.Context, id int64) (domain.Feedback, error) {
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	fb, err := s.repo.GetFeedback(ctx, id)
	if err != nil {
		return domain.Feedback{}, storageErr("get feedback", err)
	}
	return fb, nil
}
