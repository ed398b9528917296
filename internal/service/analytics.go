package service

import (
	"context"
	"time"

	"github.com/set-night/eduassist/internal/domain"
)

const analyticsPrecision = 2

type AnalyticsService struct {
	repo    AnalyticsRepository
	timeout time.Duration
}

func NewAnalyticsService(repo AnalyticsRepository, timeout time.Duration) *AnalyticsService {
	return &AnalyticsService{repo: repo, timeout: timeout}
}

func (s *AnalyticsService) FeedbackSummary(ctx context.Context, since time.Time) (domain.FeedbackSummary, error) {
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	summary, err := s.repo.FeedbackSummary(ctx, since)
	if err != nil {
		return domain.FeedbackSummary{}, storageErr("feedback summary", err)
	}
	summary.AverageRating = summary.AverageRating.Round(analyticsPrecision)
	return summary, nil
}

// IntentQuality lists intents with the worst rated first and unrated intents last.
func (s *AnalyticsService) IntentQuality(ctx context.Context, since time.Time) ([]domain.IntentQuality, error) {
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.IntentQuality(ctx, since)
	if err != nil {
		return nil, storageErr("intent quality", err)
	}
	for i := range rows {
		rows[i].AverageRating = rows[i].AverageRating.Round(analyticsPrecision)
		rows[i].AverageConfidence = rows[i].AverageConfidence.Round(analyticsPrecision)
	}
	return rows, nil
}

// DailyMetrics reports the UTC calendar days from..to inclusive. Days without
// conversations are omitted.
func (s *AnalyticsService) DailyMetrics(ctx context.Context, from, to time.Time) ([]domain.DailyMetrics, error) {
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return nil, domain.ErrInvalidRange
	}

	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	days, err := s.repo.DailyMetrics(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, storageErr("daily metrics", err)
	}
	for i := range days {
		days[i].AvgMessagesPerConversation = days[i].AvgMessagesPerConversation.Round(analyticsPrecision)
		days[i].FallbackRate = days[i].FallbackRate.Round(analyticsPrecision)
		days[i].SatisfactionScore = days[i].SatisfactionScore.Round(analyticsPrecision)
	}
	return days, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
