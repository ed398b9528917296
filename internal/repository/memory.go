package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/set-night/eduassist/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stemLength approximates Spanish stemming: "ecuaciones" and "ecuación" share "ecuaci".
const stemLength = 6

var spanishStopwords = map[string]struct{}{
	"a": {}, "al": {}, "algo": {}, "como": {}, "con": {}, "cual": {}, "cuando": {},
	"de": {}, "del": {}, "donde": {}, "el": {}, "en": {}, "es": {}, "esta": {},
	"este": {}, "hay": {}, "la": {}, "las": {}, "lo": {}, "los": {}, "me": {},
	"mi": {}, "no": {}, "o": {}, "para": {}, "pero": {}, "por": {}, "que": {},
	"quien": {}, "se": {}, "si": {}, "sin": {}, "sobre": {}, "su": {}, "sus": {},
	"te": {}, "tu": {}, "un": {}, "una": {}, "unos": {}, "unas": {}, "y": {}, "yo": {},
}

// MemoryStore is a process-local store used when STORAGE_DRIVER=memory and in tests.
// A single mutex serializes every operation.
type MemoryStore struct {
	mu sync.Mutex

	now func() time.Time

	nextConversationID int64
	nextMessageID      int64
	nextEntityID       int64
	nextFeedbackID     int64
	nextKnowledgeID    int64

	conversations map[int64]domain.Conversation
	activeBySess  map[string]int64
	messages      map[int64]domain.Message
	convMessages  map[int64][]int64
	entities      map[int64][]domain.Entity
	feedback      []domain.Feedback
	knowledge     []domain.KnowledgeEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:           time.Now,
		conversations: make(map[int64]domain.Conversation),
		activeBySess:  make(map[string]int64),
		messages:      make(map[int64]domain.Message),
		convMessages:  make(map[int64][]int64),
		entities:      make(map[int64][]domain.Entity),
	}
}

func (s *MemoryStore) ResolveActiveConversation(ctx context.Context, sessionID string) (domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversation{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.activeBySess[sessionID]; ok {
		return s.conversations[id], nil
	}

	s.nextConversationID++
	conv := domain.Conversation{
		ID:        s.nextConversationID,
		SessionID: sessionID,
		StartedAt: s.now(),
	}
	s.conversations[conv.ID] = conv
	s.activeBySess[sessionID] = conv.ID
	return conv, nil
}

func (s *MemoryStore) EndConversation(ctx context.Context, conversationID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return domain.ErrConversationNotFound
	}
	if !conv.IsActive() {
		return nil
	}
	ended := s.now()
	conv.EndedAt = &ended
	s.conversations[conversationID] = conv
	delete(s.activeBySess, conv.SessionID)
	return nil
}

func (s *MemoryStore) InsertMessage(ctx context.Context, msg domain.NewMessage) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[msg.ConversationID]; !ok {
		return domain.Message{}, domain.ErrConversationNotFound
	}

	s.nextMessageID++
	m := domain.Message{
		ID:             s.nextMessageID,
		ConversationID: msg.ConversationID,
		Sender:         msg.Sender,
		Text:           msg.Text,
		Intent:         stringPtrOrNil(msg.Intent),
		Confidence:     msg.Confidence,
		CreatedAt:      s.now(),
	}
	s.messages[m.ID] = m
	s.convMessages[m.ConversationID] = append(s.convMessages[m.ConversationID], m.ID)
	return m, nil
}

func (s *MemoryStore) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return nil, domain.ErrConversationNotFound
	}
	ids := s.convMessages[conversationID]
	msgs := make([]domain.Message, len(ids))
	for i, id := range ids {
		msgs[i] = s.messages[id]
	}
	return msgs, nil
}

func (s *MemoryStore) InsertEntity(ctx context.Context, messageID int64, e domain.EntityInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[messageID]; !ok {
		return domain.ErrMessageNotFound
	}
	s.nextEntityID++
	s.entities[messageID] = append(s.entities[messageID], domain.Entity{
		ID:         s.nextEntityID,
		MessageID:  messageID,
		Name:       e.Name,
		Value:      e.Value,
		Confidence: e.Confidence,
	})
	return nil
}

func (s *MemoryStore) ListEntities(ctx context.Context, messageID int64) ([]domain.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[messageID]; !ok {
		return nil, domain.ErrMessageNotFound
	}
	out := make([]domain.Entity, len(s.entities[messageID]))
	copy(out, s.entities[messageID])
	return out, nil
}

func (s *MemoryStore) InsertFeedback(ctx context.Context, messageID int64, rating int, comment string) (domain.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return domain.Feedback{}, err
	}
	if !domain.ValidRating(rating) {
		return domain.Feedback{}, domain.ErrInvalidFeedback
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[messageID]; !ok {
		return domain.Feedback{}, domain.ErrMessageNotFound
	}
	s.nextFeedbackID++
	fb := domain.Feedback{
		ID:        s.nextFeedbackID,
		MessageID: messageID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: s.now(),
	}
	s.feedback = append(s.feedback, fb)
	return fb, nil
}

func (s *MemoryStore) GetFeedback(ctx context.Context, id int64) (domain.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return domain.Feedback{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, fb := range s.feedback {
		if fb.ID == id {
			return fb, nil
		}
	}
	return domain.Feedback{}, domain.ErrNotFound
}

func (s *MemoryStore) InsertKnowledge(ctx context.Context, entry domain.KnowledgeEntry) (domain.KnowledgeEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.KnowledgeEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextKnowledgeID++
	entry.ID = s.nextKnowledgeID
	s.knowledge = append(s.knowledge, entry)
	return entry, nil
}

// SearchKnowledge scores each question by the number of query stems it shares.
// Entries are kept in insertion order, so the strict > keeps the lowest id on ties.
func (s *MemoryStore) SearchKnowledge(ctx context.Context, query string) (domain.KnowledgeMatch, error) {
	if err := ctx.Err(); err != nil {
		return domain.KnowledgeMatch{}, err
	}
	terms := searchTerms(query)
	if len(terms) == 0 {
		return domain.KnowledgeMatch{}, domain.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		best      domain.KnowledgeEntry
		bestScore int
	)
	for _, entry := range s.knowledge {
		score := 0
		for term := range searchTerms(entry.Question) {
			if _, ok := terms[term]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = entry, score
		}
	}
	if bestScore == 0 {
		return domain.KnowledgeMatch{}, domain.ErrNotFound
	}
	return domain.KnowledgeMatch{Entry: best, Score: float64(bestScore) / float64(len(terms))}, nil
}

func (s *MemoryStore) FeedbackSummary(ctx context.Context, since time.Time) (domain.FeedbackSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.FeedbackSummary{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := domain.FeedbackSummary{
		Since:         since,
		AverageRating: decimal.Zero,
		Distribution:  emptyDistribution(),
	}
	var sum int64
	for _, fb := range s.feedback {
		if fb.CreatedAt.Before(since) {
			continue
		}
		summary.Distribution[fb.Rating]++
		summary.Total++
		sum += int64(fb.Rating)
	}
	if summary.Total > 0 {
		summary.AverageRating = decimal.NewFromInt(sum).Div(decimal.NewFromInt(summary.Total))
	}
	return summary, nil
}

func (s *MemoryStore) IntentQuality(ctx context.Context, since time.Time) ([]domain.IntentQuality, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	type ratingAgg struct{ sum, n int64 }
	perMessage := make(map[int64]*ratingAgg)
	for _, fb := range s.feedback {
		agg, ok := perMessage[fb.MessageID]
		if !ok {
			agg = &ratingAgg{}
			perMessage[fb.MessageID] = agg
		}
		agg.sum += int64(fb.Rating)
		agg.n++
	}

	type intentAgg struct {
		messages   int64
		rated      int64
		ratingSum  decimal.Decimal
		confidence decimal.Decimal
	}
	byIntent := make(map[string]*intentAgg)
	for _, m := range s.messages {
		if m.Intent == nil || *m.Intent == "" || m.CreatedAt.Before(since) {
			continue
		}
		agg, ok := byIntent[*m.Intent]
		if !ok {
			agg = &intentAgg{ratingSum: decimal.Zero, confidence: decimal.Zero}
			byIntent[*m.Intent] = agg
		}
		agg.messages++
		agg.confidence = agg.confidence.Add(decimal.NewFromFloat(m.Confidence))
		if r, ok := perMessage[m.ID]; ok {
			agg.rated++
			agg.ratingSum = agg.ratingSum.Add(decimal.NewFromInt(r.sum).Div(decimal.NewFromInt(r.n)))
		}
	}

	out := make([]domain.IntentQuality, 0, len(byIntent))
	for intent, agg := range byIntent {
		q := domain.IntentQuality{
			Intent:            intent,
			Messages:          agg.messages,
			RatedMessages:     agg.rated,
			AverageRating:     decimal.Zero,
			AverageConfidence: agg.confidence.Div(decimal.NewFromInt(agg.messages)),
		}
		if agg.rated > 0 {
			q.AverageRating = agg.ratingSum.Div(decimal.NewFromInt(agg.rated))
		}
		out = append(out, q)
	}

	// Worst rated first, unrated last, then by name.
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.RatedMessages == 0) != (b.RatedMessages == 0) {
			return a.RatedMessages > 0
		}
		if c := a.AverageRating.Cmp(b.AverageRating); c != 0 {
			return c < 0
		}
		return a.Intent < b.Intent
	})
	return out, nil
}

func (s *MemoryStore) DailyMetrics(ctx context.Context, from, to time.Time) ([]domain.DailyMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	type dayAgg struct {
		conversations, messages, user, fallback, feedback, ratingSum int64
	}
	byDay := make(map[string]*dayAgg)
	for _, c := range s.conversations {
		if c.StartedAt.Before(from) || !c.StartedAt.Before(to) {
			continue
		}
		day := c.StartedAt.UTC().Format(time.DateOnly)
		agg, ok := byDay[day]
		if !ok {
			agg = &dayAgg{}
			byDay[day] = agg
		}
		agg.conversations++
		for _, id := range s.convMessages[c.ID] {
			m := s.messages[id]
			agg.messages++
			if m.Sender != domain.SenderUser {
				continue
			}
			agg.user++
			if m.Intent != nil && *m.Intent == domain.FallbackIntent {
				agg.fallback++
			}
		}
	}
	for _, fb := range s.feedback {
		m, ok := s.messages[fb.MessageID]
		if !ok {
			continue
		}
		c := s.conversations[m.ConversationID]
		if c.StartedAt.Before(from) || !c.StartedAt.Before(to) {
			continue
		}
		agg := byDay[c.StartedAt.UTC().Format(time.DateOnly)]
		agg.feedback++
		agg.ratingSum += int64(fb.Rating)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	out := make([]domain.DailyMetrics, len(days))
	for i, day := range days {
		agg := byDay[day]
		satisfaction := decimal.Zero
		if agg.feedback > 0 {
			satisfaction = decimal.NewFromInt(agg.ratingSum).Div(decimal.NewFromInt(agg.feedback))
		}
		out[i] = domain.NewDailyMetrics(day, agg.conversations, agg.messages, agg.user, agg.fallback, agg.feedback, satisfaction)
	}
	return out, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// searchTerms folds accents and case, drops stopwords and truncates each token to a stem.
func searchTerms(text string) map[string]struct{} {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(text),
	)
	if err != nil {
		folded = strings.ToLower(text)
	}

	terms := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if _, stop := spanishStopwords[tok]; stop {
			continue
		}
		if r := []rune(tok); len(r) > stemLength {
			tok = string(r[:stemLength])
		}
		terms[tok] = struct{}{}
	}
	return terms
}
