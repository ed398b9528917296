package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewWindowLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1))
	assert.True(t, l.Allow(2), "chats are limited independently")

	now = now.Add(time.Minute)
	assert.True(t, l.Allow(1), "a new window resets the count")
}

func TestWindowLimiter_Disabled(t *testing.T) {
	l := NewWindowLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow(7))
	}
}

func TestSenderID(t *testing.T) {
	assert.Empty(t, SenderID(context.Background()))
	ctx := WithSenderID(context.Background(), TelegramSenderID(-100123))
	assert.Equal(t, "telegram--100123", SenderID(ctx))
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/chat", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
