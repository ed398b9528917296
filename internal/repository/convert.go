package repository

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/set-night/eduassist/internal/domain"
	"github.com/set-night/eduassist/internal/repository/sqlc"
	"github.com/shopspring/decimal"
)

// pgTimestamptzToTime converts pgtype.Timestamptz to time.Time.
func pgTimestamptzToTime(ts pgtype.Timestamptz) time.Time {
	if ts.Valid {
		return ts.Time
	}
	return time.Time{}
}

// pgTimestamptzToTimePtr converts pgtype.Timestamptz to *time.Time.
func pgTimestamptzToTimePtr(ts pgtype.Timestamptz) *time.Time {
	if ts.Valid {
		t := ts.Time
		return &t
	}
	return nil
}

// timeToPgTimestamptz converts time.Time to pgtype.Timestamptz.
func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

// parseDecimal reads a numeric rendered as text, treating garbage as zero.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func stringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func rowToConversation(row sqlc.Conversation) domain.Conversation {
	return domain.Conversation{
		ID:        row.ID,
		SessionID: row.SessionID,
		StartedAt: pgTimestamptzToTime(row.StartedAt),
		EndedAt:   pgTimestamptzToTimePtr(row.EndedAt),
	}
}

func rowToMessage(row sqlc.Message) domain.Message {
	return domain.Message{
		ID:             row.ID,
		ConversationID: row.ConversationID,
		Sender:         domain.Sender(row.Sender),
		Text:           row.Message,
		Intent:         row.Intent,
		Confidence:     row.Confidence,
		CreatedAt:      pgTimestamptzToTime(row.CreatedAt),
	}
}

func rowToEntity(row sqlc.Entity) domain.Entity {
	return domain.Entity{
		ID:         row.ID,
		MessageID:  row.MessageID,
		Name:       row.EntityName,
		Value:      row.EntityValue,
		Confidence: row.Confidence,
	}
}

func rowToFeedback(row sqlc.Feedback) domain.Feedback {
	return domain.Feedback{
		ID:        row.ID,
		MessageID: row.MessageID,
		Rating:    int(row.Rating),
		Comment:   row.Comment,
		CreatedAt: pgTimestamptzToTime(row.CreatedAt),
	}
}
