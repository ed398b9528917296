package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/domain"
)

func (d *Dispatcher) consultKnowledgeBase(ctx context.Context, turn TurnContext, sink ResponseSink) error {
	answer, found, err := d.knowledge.Lookup(ctx, turn.Text)
	if err != nil {
		slog.Warn("knowledge lookup degraded to not found",
			"action", ConsultKnowledgeBase,
			"session_id", turn.SenderID,
			"error", err,
		)
	}
	if !found {
		sink.Utter(config.UtterKnowledgeNotFound)
		return nil
	}
	sink.Utter(answer)
	return nil
}

func (d *Dispatcher) logTurn(ctx context.Context, turn TurnContext, sink ResponseSink) error {
	convID, err := d.conversations.ResolveOrCreateConversation(ctx, turn.SenderID)
	if err != nil {
		slog.Error("failed to resolve conversation",
			"action", LogTurn,
			"session_id", turn.SenderID,
			"error", err,
		)
		sink.Utter(config.UtterStorageError)
		return nil
	}

	msgID, err := d.conversations.RecordMessage(ctx, domain.NewMessage{
		ConversationID: convID,
		Sender:         domain.SenderUser,
		Text:           turn.Text,
		Intent:         turn.Intent,
		Confidence:     turn.IntentConfidence,
	})
	if err != nil {
		slog.Error("failed to record message",
			"action", LogTurn,
			"session_id", turn.SenderID,
			"conversation_id", convID,
			"error", err,
		)
		sink.Utter(config.UtterStorageError)
		return nil
	}

	d.conversations.RecordEntities(ctx, msgID, turn.Entities)

	sink.SetSlot(config.SlotLastMessageID, msgID)
	return nil
}

func (d *Dispatcher) recordFeedback(ctx context.Context, turn TurnContext, sink ResponseSink) error {
	rating, hasRating := extractRating(turn)
	msgID, hasMessage := turn.SlotInt64(config.SlotLastMessageID)
	if !hasRating || !hasMessage {
		sink.Utter(config.UtterFeedbackClarify)
		return nil
	}

	if !domain.ValidRating(rating) {
		// Keep last_message_id so the user can answer again with a valid rating.
		sink.Utter(config.UtterFeedbackClarify)
		return nil
	}

	_, err := d.conversations.RecordFeedback(ctx, msgID, rating, turn.Text)
	switch {
	case err == nil:
		sink.Utter(fmt.Sprintf(config.UtterFeedbackThanksFmt, rating))
		sink.ClearSlot(config.SlotLastMessageID)
	case errors.Is(err, domain.ErrInvalidFeedback):
		// The referenced message is gone; drop the stale handle.
		slog.Warn("feedback rejected",
			"action", RecordFeedback,
			"session_id", turn.SenderID,
			"message_id", msgID,
			"error", err,
		)
		sink.Utter(config.UtterFeedbackError)
		sink.ClearSlot(config.SlotLastMessageID)
	default:
		slog.Error("failed to record feedback",
			"action", RecordFeedback,
			"session_id", turn.SenderID,
			"message_id", msgID,
			"error", err,
		)
		sink.Utter(config.UtterFeedbackError)
	}
	return nil
}

func (d *Dispatcher) detectEmotion(_ context.Context, turn TurnContext, sink ResponseSink) error {
	profile := d.analyzer.Analyze(turn.Text)

	candidates, ok := EmotionResponses[profile.Dominant]
	if !ok || len(candidates) == 0 {
		sink.Utter(config.UtterGenericHelp)
		return nil
	}
	slog.Debug("emotion detected",
		"session_id", turn.SenderID,
		"dominant", profile.Dominant,
		"compound", profile.Sentiment.Compound,
	)
	sink.Utter(d.choose(candidates))
	return nil
}

func (d *Dispatcher) greetWithTime(_ context.Context, turn TurnContext, sink ResponseSink) error {
	var greeting string
	switch hour := d.now().Hour(); {
	case hour >= 5 && hour < 12:
		greeting = "¡Buenos días!"
	case hour >= 12 && hour < 19:
		greeting = "¡Buenas tardes!"
	default:
		greeting = "¡Buenas noches!"
	}

	if name := turn.SlotString(config.SlotUserName); name != "" {
		greeting += " " + name + ", es un placer verte de nuevo."
	}
	sink.Utter(greeting + " ¿En qué puedo ayudarte hoy?")
	return nil
}

func (d *Dispatcher) handleSmallTalk(_ context.Context, turn TurnContext, sink ResponseSink) error {
	candidates, ok := SmallTalkResponses[turn.Intent]
	if !ok || len(candidates) == 0 {
		sink.Utter(config.UtterGenericHelp)
		return nil
	}
	sink.Utter(d.choose(candidates))
	return nil
}

func (d *Dispatcher) maintainContext(context.Context, TurnContext, ResponseSink) error {
	return nil
}
