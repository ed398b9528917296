// Package actionserver exposes the action dispatcher over the dialogue runtime's
// custom action webhook protocol.
package actionserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/set-night/eduassist/internal/action"
	"github.com/set-night/eduassist/internal/domain"
	"github.com/set-night/eduassist/internal/handler/respond"
)

const maxRequestBytes = 1 << 20

type Handler struct {
	dispatcher *action.Dispatcher
}

func New(dispatcher *action.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/webhook", h.handleWebhook)
	r.Get("/health", h.handleHealth)
	r.Get("/actions", h.handleActions)
}

type intentPayload struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type entityPayload struct {
	Entity           string   `json:"entity"`
	Value            any      `json:"value"`
	Confidence       *float64 `json:"confidence"`
	ConfidenceEntity *float64 `json:"confidence_entity"`
}

type latestMessage struct {
	Text     string          `json:"text"`
	Intent   intentPayload   `json:"intent"`
	Entities []entityPayload `json:"entities"`
}

type trackerPayload struct {
	SenderID      string         `json:"sender_id"`
	Slots         map[string]any `json:"slots"`
	LatestMessage latestMessage  `json:"latest_message"`
}

type webhookRequest struct {
	NextAction string         `json:"next_action"`
	SenderID   string         `json:"sender_id"`
	Tracker    trackerPayload `json:"tracker"`
}

type slotEvent struct {
	Event     string  `json:"event"`
	Timestamp *string `json:"timestamp"`
	Name      string  `json:"name"`
	Value     any     `json:"value"`
}

type textResponse struct {
	Text string `json:"text"`
}

type webhookResponse struct {
	Events    []slotEvent    `json:"events"`
	Responses []textResponse `json:"responses"`
}

func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	invocationID := uuid.NewString()
	w.Header().Set("X-Invocation-ID", invocationID)

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.UseNumber()

	var req webhookRequest
	if err := dec.Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NextAction == "" {
		respond.Error(w, http.StatusBadRequest, "next_action is required")
		return
	}

	turn := toTurn(req)
	resp, err := h.dispatcher.Dispatch(r.Context(), req.NextAction, turn)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownAction) {
			respond.JSON(w, http.StatusNotFound, map[string]string{
				"error":       fmt.Sprintf("No registered action found for name '%s'.", req.NextAction),
				"action_name": req.NextAction,
			})
			return
		}
		slog.Error("action failed",
			"invocation_id", invocationID,
			"action", req.NextAction,
			"session_id", turn.SenderID,
			"error", err,
		)
		respond.JSON(w, http.StatusInternalServerError, map[string]string{
			"error":       "action failed",
			"action_name": req.NextAction,
		})
		return
	}

	slog.Info("action executed",
		"invocation_id", invocationID,
		"action", req.NextAction,
		"session_id", turn.SenderID,
		"utterances", len(resp.Utterances),
		"slot_updates", len(resp.SlotUpdates),
		"duration", time.Since(start),
	)
	respond.JSON(w, http.StatusOK, toWebhookResponse(resp))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleActions(w http.ResponseWriter, r *http.Request) {
	names := h.dispatcher.Actions()
	out := make([]map[string]string, len(names))
	for i, n := range names {
		out[i] = map[string]string{"name": n}
	}
	respond.JSON(w, http.StatusOK, out)
}

func toTurn(req webhookRequest) action.TurnContext {
	msg := req.Tracker.LatestMessage

	senderID := req.Tracker.SenderID
	if senderID == "" {
		senderID = req.SenderID
	}

	entities := make([]domain.EntityInput, 0, len(msg.Entities))
	for _, e := range msg.Entities {
		if e.Entity == "" {
			continue
		}
		confidence := 0.0
		switch {
		case e.Confidence != nil:
			confidence = *e.Confidence
		case e.ConfidenceEntity != nil:
			confidence = *e.ConfidenceEntity
		}
		value := ""
		if e.Value != nil {
			value = fmt.Sprint(e.Value)
		}
		entities = append(entities, domain.EntityInput{
			Name:       e.Entity,
			Value:      value,
			Confidence: confidence,
		})
	}

	return action.TurnContext{
		SenderID:         senderID,
		Text:             msg.Text,
		Intent:           msg.Intent.Name,
		IntentConfidence: msg.Intent.Confidence,
		Entities:         entities,
		Slots:            req.Tracker.Slots,
	}
}

func toWebhookResponse(resp *action.Response) webhookResponse {
	out := webhookResponse{
		Events:    make([]slotEvent, 0, len(resp.SlotUpdates)),
		Responses: make([]textResponse, 0, len(resp.Utterances)),
	}
	for _, u := range resp.SlotUpdates {
		out.Events = append(out.Events, slotEvent{Event: "slot", Name: u.Name, Value: u.Value})
	}
	for _, text := range resp.Utterances {
		out.Responses = append(out.Responses, textResponse{Text: text})
	}
	return out
}
