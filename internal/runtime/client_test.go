package runtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/set-night/eduassist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntimeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model_file":"models/20240101.tar.gz","num_active_training_jobs":0}`))
	})
	mux.HandleFunc("POST /webhooks/rest/webhook", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if body["message"] == "silencio" {
			w.Write([]byte(`[]`))
			return
		}
		json.NewEncoder(w).Encode([]BotMessage{
			{RecipientID: body["sender"], Text: "eco: " + body["message"]},
		})
	})
	mux.HandleFunc("POST /model/train", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("filename", "20240102-nuevo.tar.gz")
		w.Header().Set("Content-Type", "application/gzip")
		w.Write([]byte{0x1f, 0x8b})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	srv := newRuntimeServer(t)
	c := NewClient(srv.URL+"/", "secret", 2*time.Second)
	ctx := context.Background()

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "models/20240101.tar.gz", status["model_file"])

	replies, err := c.SendMessage(ctx, "u-1", "hola")
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "eco: hola", replies[0].Text)
	assert.Equal(t, "u-1", replies[0].RecipientID)

	replies, err = c.SendMessage(ctx, "u-1", "silencio")
	require.NoError(t, err)
	assert.Empty(t, replies)

	trained, err := c.Train(ctx)
	require.NoError(t, err)
	assert.Equal(t, "20240102-nuevo.tar.gz", trained["filename"])
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.SendMessage(context.Background(), "u", "hola")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)

	closed := NewClient("http://127.0.0.1:1", "", 200*time.Millisecond)
	_, err = closed.Status(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
