package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/eduassist/internal/domain"
	"github.com/set-night/eduassist/internal/repository/sqlc"
)

const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgUniqueViolation     = "23505"
)

// PGStore persists conversations, feedback and the knowledge base in PostgreSQL.
type PGStore struct {
	db      *pgxpool.Pool
	queries *sqlc.Queries
}

func NewPGStore(db *pgxpool.Pool, queries *sqlc.Queries) *PGStore {
	return &PGStore{db: db, queries: queries}
}

// ResolveActiveConversation finds or creates the active conversation for a session.
// The lookup and insert run under a per-session advisory lock inside one transaction.
func (s *PGStore) ResolveActiveConversation(ctx context.Context, sessionID string) (domain.Conversation, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)

	if err := qtx.LockSession(ctx, sessionID); err != nil {
		return domain.Conversation{}, fmt.Errorf("lock session: %w", err)
	}

	row, err := qtx.GetActiveConversationBySession(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.Conversation{}, fmt.Errorf("get active conversation: %w", err)
		}
		row, err = qtx.CreateConversation(ctx, sessionID)
		if err != nil {
			if pgCode(err) == pgUniqueViolation {
				return domain.Conversation{}, fmt.Errorf("create conversation: concurrent active conversation: %w", err)
			}
			return domain.Conversation{}, fmt.Errorf("create conversation: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Conversation{}, fmt.Errorf("commit: %w", err)
	}

	return rowToConversation(row), nil
}

func (s *PGStore) EndConversation(ctx context.Context, conversationID int64) error {
	n, err := s.queries.EndConversation(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("end conversation: %w", err)
	}
	if n > 0 {
		return nil
	}

	// Already ended is fine; missing is not.
	if _, err := s.queries.GetConversationByID(ctx, conversationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrConversationNotFound
		}
		return fmt.Errorf("get conversation: %w", err)
	}
	return nil
}

func (s *PGStore) InsertMessage(ctx context.Context, msg domain.NewMessage) (domain.Message, error) {
	row, err := s.queries.CreateMessage(ctx, sqlc.CreateMessageParams{
		ConversationID: msg.ConversationID,
		Sender:         string(msg.Sender),
		Message:        msg.Text,
		Intent:         stringPtrOrNil(msg.Intent),
		Confidence:     msg.Confidence,
	})
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return domain.Message{}, domain.ErrConversationNotFound
		}
		return domain.Message{}, fmt.Errorf("create message: %w", err)
	}
	return rowToMessage(row), nil
}

func (s *PGStore) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	if _, err := s.queries.GetConversationByID(ctx, conversationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	rows, err := s.queries.ListConversationMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	msgs := make([]domain.Message, len(rows))
	for i, r := range rows {
		msgs[i] = rowToMessage(r)
	}
	return msgs, nil
}

func (s *PGStore) InsertEntity(ctx context.Context, messageID int64, e domain.EntityInput) error {
	err := s.queries.CreateEntity(ctx, sqlc.CreateEntityParams{
		MessageID:   messageID,
		EntityName:  e.Name,
		EntityValue: e.Value,
		Confidence:  e.Confidence,
	})
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return domain.ErrMessageNotFound
		}
		return fmt.Errorf("create entity: %w", err)
	}
	return nil
}

// ListEntities fails with domain.ErrMessageNotFound when the message does not exist.
func (s *PGStore) ListEntities(ctx context.Context, messageID int64) ([]domain.Entity, error) {
	rows, err := s.queries.ListMessageEntities(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	if len(rows) == 0 {
		exists, err := s.queries.MessageExists(ctx, messageID)
		if err != nil {
			return nil, fmt.Errorf("check message: %w", err)
		}
		if !exists {
			return nil, domain.ErrMessageNotFound
		}
	}
	entities := make([]domain.Entity, len(rows))
	for i, r := range rows {
		entities[i] = rowToEntity(r)
	}
	return entities, nil
}

func (s *PGStore) InsertFeedback(ctx context.Context, messageID int64, rating int, comment string) (domain.Feedback, error) {
	row, err := s.queries.CreateFeedback(ctx, sqlc.CreateFeedbackParams{
		MessageID: messageID,
		Rating:    int16(rating),
		Comment:   comment,
	})
	if err != nil {
		switch pgCode(err) {
		case pgForeignKeyViolation:
			return domain.Feedback{}, domain.ErrMessageNotFound
		case pgCheckViolation:
			return domain.Feedback{}, domain.ErrInvalidFeedback
		}
		return domain.Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	return rowToFeedback(row), nil
}

func (s *PGStore) GetFeedback(ctx context.Context, id int64) (domain.Feedback, error) {
	row, err := s.queries.GetFeedbackByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Feedback{}, domain.ErrNotFound
		}
		return domain.Feedback{}, fmt.Errorf("get feedback: %w", err)
	}
	return rowToFeedback(row), nil
}

// SearchKnowledge returns domain.ErrNotFound when no question ranks above zero.
func (s *PGStore) SearchKnowledge(ctx context.Context, query string) (domain.KnowledgeMatch, error) {
	row, err := s.queries.SearchKnowledgeBase(ctx, query)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.KnowledgeMatch{}, domain.ErrNotFound
		}
		return domain.KnowledgeMatch{}, fmt.Errorf("search knowledge base: %w", err)
	}
	if row.Rank <= 0 {
		return domain.KnowledgeMatch{}, domain.ErrNotFound
	}
	return domain.KnowledgeMatch{
		Entry: domain.KnowledgeEntry{ID: row.ID, Question: row.Question, Answer: row.Answer},
		Score: row.Rank,
	}, nil
}

func (s *PGStore) InsertKnowledge(ctx context.Context, entry domain.KnowledgeEntry) (domain.KnowledgeEntry, error) {
	row, err := s.queries.CreateKnowledgeEntry(ctx, sqlc.CreateKnowledgeEntryParams{
		Question: entry.Question,
		Answer:   entry.Answer,
	})
	if err != nil {
		return domain.KnowledgeEntry{}, fmt.Errorf("create knowledge entry: %w", err)
	}
	return domain.KnowledgeEntry{ID: row.ID, Question: row.Question, Answer: row.Answer}, nil
}

func (s *PGStore) FeedbackSummary(ctx context.Context, since time.Time) (domain.FeedbackSummary, error) {
	ts := timeToPgTimestamptz(since)

	counts, err := s.queries.FeedbackRatingCounts(ctx, ts)
	if err != nil {
		return domain.FeedbackSummary{}, fmt.Errorf("count ratings: %w", err)
	}
	avg, err := s.queries.FeedbackAverage(ctx, ts)
	if err != nil {
		return domain.FeedbackSummary{}, fmt.Errorf("average rating: %w", err)
	}

	summary := domain.FeedbackSummary{
		Since:         since,
		AverageRating: parseDecimal(avg),
		Distribution:  emptyDistribution(),
	}
	for _, c := range counts {
		summary.Distribution[int(c.Rating)] = c.Count
		summary.Total += c.Count
	}
	return summary, nil
}

func (s *PGStore) IntentQuality(ctx context.Context, since time.Time) ([]domain.IntentQuality, error) {
	rows, err := s.queries.IntentQuality(ctx, timeToPgTimestamptz(since))
	if err != nil {
		return nil, fmt.Errorf("intent quality: %w", err)
	}
	out := make([]domain.IntentQuality, len(rows))
	for i, r := range rows {
		out[i] = domain.IntentQuality{
			Intent:            r.Intent,
			Messages:          r.Messages,
			RatedMessages:     r.RatedMessages,
			AverageRating:     parseDecimal(r.AverageRating),
			AverageConfidence: parseDecimal(r.AverageConfidence),
		}
	}
	return out, nil
}

// DailyMetrics groups conversations started in [from, to) by UTC day.
func (s *PGStore) DailyMetrics(ctx context.Context, from, to time.Time) ([]domain.DailyMetrics, error) {
	rows, err := s.queries.DailyMetrics(ctx, sqlc.DailyMetricsParams{
		From:           timeToPgTimestamptz(from),
		To:             timeToPgTimestamptz(to),
		FallbackIntent: domain.FallbackIntent,
	})
	if err != nil {
		return nil, fmt.Errorf("daily metrics: %w", err)
	}
	out := make([]domain.DailyMetrics, len(rows))
	for i, r := range rows {
		out[i] = domain.NewDailyMetrics(r.Day, r.Conversations, r.Messages, r.UserMessages,
			r.FallbackMessages, r.Feedback, parseDecimal(r.Satisfaction))
	}
	return out, nil
}

// Close releases the connection pool.
func (s *PGStore) Close() {
	s.db.Close()
}

// Ping reports whether the database answers.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func emptyDistribution() map[int]int64 {
	d := make(map[int]int64, domain.MaxRating)
	for r := domain.MinRating; r <= domain.MaxRating; r++ {
		d[r] = 0
	}
	return d
}
