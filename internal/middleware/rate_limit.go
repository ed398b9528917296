package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/eduassist/internal/config"
)

// WindowLimiter counts messages per chat in fixed windows.
type WindowLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time
	counts map[int64]*windowCount
}

type windowCount struct {
	start time.Time
	n     int
}

func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		counts: make(map[int64]*windowCount),
	}
}

// Allow records one message for chatID and reports whether it is within the limit.
// A non-positive limit disables limiting.
func (l *WindowLimiter) Allow(chatID int64) bool {
	if l.limit <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.counts[chatID]
	if !ok || now.Sub(c.start) >= l.window {
		c = &windowCount{start: now}
		l.counts[chatID] = c
		l.evict(now)
	}
	c.n++
	return c.n <= l.limit
}

// evict drops expired windows so idle chats do not accumulate.
func (l *WindowLimiter) evict(now time.Time) {
	for id, c := range l.counts {
		if now.Sub(c.start) >= l.window {
			delete(l.counts, id)
		}
	}
}

// RateLimit returns middleware that enforces per-chat rate limits on messages.
func RateLimit(limiter *WindowLimiter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			// Only rate limit messages (not callbacks or other updates)
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !limiter.Allow(chatID) {
				slog.Debug("rate limited", "chat_id", chatID, "limit", limiter.limit)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   config.UtterRateLimited,
				})
				return
			}

			next(ctx, b, update)
		}
	}
}
