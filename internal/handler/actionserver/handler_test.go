package actionserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/set-night/eduassist/internal/action"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/domain"
	"github.com/set-night/eduassist/internal/repository"
	"github.com/set-night/eduassist/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (http.Handler, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	_, err := store.InsertKnowledge(context.Background(), domain.KnowledgeEntry{
		Question: "¿Qué es la fotosíntesis?",
		Answer:   "Es el proceso por el cual las plantas convierten la luz en energía.",
	})
	require.NoError(t, err)

	d := action.NewDispatcher(action.Deps{
		Conversations: service.NewConversationService(store, time.Second),
		Knowledge:     service.NewKnowledgeService(store, time.Second),
		Pick:          func(int) int { return 0 },
	})
	return NewRouter(d), store
}

func postWebhook(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, webhookResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out webhookResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestWebhook_ConsultKnowledgeBase(t *testing.T) {
	h, _ := setupRouter(t)

	rec, out := postWebhook(t, h, `{
		"next_action": "action_consulta_knowledge_base",
		"sender_id": "abc",
		"tracker": {"sender_id": "abc", "slots": {}, "latest_message": {"text": "fotosíntesis", "intent": {"name": "consulta", "confidence": 0.9}}}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Invocation-ID"))
	require.Len(t, out.Responses, 1)
	assert.Equal(t, "Es el proceso por el cual las plantas convierten la luz en energía.", out.Responses[0].Text)
	assert.Empty(t, out.Events)
}

func TestWebhook_LogTurnThenFeedback(t *testing.T) {
	h, store := setupRouter(t)

	rec, out := postWebhook(t, h, `{
		"next_action": "action_guardar_mensaje",
		"tracker": {
			"sender_id": "abc",
			"slots": {"last_message_id": null},
			"latest_message": {
				"text": "me gustó la explicación",
				"intent": {"name": "feedback", "confidence": 0.8},
				"entities": [{"entity": "rating", "value": 4, "confidence_entity": 0.97}]
			}
		}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, out.Events, 1)
	assert.Equal(t, "slot", out.Events[0].Event)
	assert.Equal(t, config.SlotLastMessageID, out.Events[0].Name)
	assert.Equal(t, float64(1), out.Events[0].Value)

	entities, err := store.ListEntities(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "4", entities[0].Value)
	assert.Equal(t, 0.97, entities[0].Confidence)

	rec, out = postWebhook(t, h, `{
		"next_action": "action_registrar_feedback",
		"tracker": {
			"sender_id": "abc",
			"slots": {"last_message_id": 1},
			"latest_message": {"text": "4", "entities": [{"entity": "rating", "value": "4"}]}
		}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, out.Responses, 1)
	assert.Equal(t, "¡Gracias por tu feedback! Has calificado con 4 estrellas.", out.Responses[0].Text)
	require.Len(t, out.Events, 1)
	assert.Nil(t, out.Events[0].Value)
	assert.Contains(t, rec.Body.String(), `"value":null`)
}

func TestWebhook_UnknownAction(t *testing.T) {
	h, _ := setupRouter(t)

	rec, _ := postWebhook(t, h, `{"next_action": "action_inexistente", "tracker": {"sender_id": "abc"}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "action_inexistente", body["action_name"])
}

func TestWebhook_BadRequests(t *testing.T) {
	h, _ := setupRouter(t)

	rec, _ := postWebhook(t, h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = postWebhook(t, h, `{"tracker": {}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndActions(t *testing.T) {
	h, _ := setupRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/actions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var actions []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &actions))
	assert.Len(t, actions, 7)
}
