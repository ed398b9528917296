package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Feedback struct {
	ID        int64     `json:"id"`
	MessageID int64     `json:"message_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// FeedbackSummary aggregates ratings received since a point in time.
type FeedbackSummary struct {
	Since         time.Time       `json:"since"`
	Total         int64           `json:"total"`
	AverageRating decimal.Decimal `json:"average_rating"`
	Distribution  map[int]int64   `json:"distribution"` // rating -> count, keys 1..5
}

// IntentQuality reports how well the assistant did on a given intent.
type IntentQuality struct {
	Intent            string          `json:"intent"`
	Messages          int64           `json:"messages"`
	RatedMessages     int64           `json:"rated_messages"`
	AverageRating     decimal.Decimal `json:"average_rating"`
	AverageConfidence decimal.Decimal `json:"average_confidence"`
}

// FallbackIntent is the intent the NLU assigns when no other intent clears its threshold.
const FallbackIntent = "nlu_fallback"

// DailyMetrics summarises the conversations started on one UTC day. Messages and
// feedback count toward the day their conversation started.
type DailyMetrics struct {
	Date                       string          `json:"date"` // YYYY-MM-DD
	Conversations              int64           `json:"total_conversations"`
	Messages                   int64           `json:"total_messages"`
	AvgMessagesPerConversation decimal.Decimal `json:"avg_messages_per_conversation"`
	FallbackRate               decimal.Decimal `json:"fallback_rate"` // share of user messages
	Feedback                   int64           `json:"feedback_count"`
	SatisfactionScore          decimal.Decimal `json:"satisfaction_score"`
}

// NewDailyMetrics derives the per-day ratios from raw counts. Ratios with an empty
// denominator are zero.
func NewDailyMetrics(date string, conversations, messages, userMessages, fallbackMessages, feedback int64, satisfaction decimal.Decimal) DailyMetrics {
	m := DailyMetrics{
		Date:                       date,
		Conversations:              conversations,
		Messages:                   messages,
		AvgMessagesPerConversation: decimal.Zero,
		FallbackRate:               decimal.Zero,
		Feedback:                   feedback,
		SatisfactionScore:          decimal.Zero,
	}
	if conversations > 0 {
		m.AvgMessagesPerConversation = decimal.NewFromInt(messages).Div(decimal.NewFromInt(conversations))
	}
	if userMessages > 0 {
		m.FallbackRate = decimal.NewFromInt(fallbackMessages).Div(decimal.NewFromInt(userMessages))
	}
	if feedback > 0 {
		m.SatisfactionScore = satisfaction
	}
	return m
}
