// Package gateway is the public HTTP API in front of the dialogue runtime.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/documents"
	"github.com/set-night/eduassist/internal/domain"
	"github.com/set-night/eduassist/internal/handler/respond"
	"github.com/set-night/eduassist/internal/runtime"
	"github.com/set-night/eduassist/internal/service"
)

const (
	defaultSender    = "default"
	multipartMemory  = 1 << 20
	maxChatBodyBytes = 64 << 10
)

// Runtime is the subset of the dialogue runtime client the gateway needs.
type Runtime interface {
	Status(ctx context.Context) (map[string]any, error)
	SendMessage(ctx context.Context, sender, message string) ([]runtime.BotMessage, error)
	Train(ctx context.Context) (map[string]any, error)
}

type Handler struct {
	runtime       Runtime
	documents     *documents.Store
	conversations *service.ConversationService
	analytics     *service.AnalyticsService
	upgrader      websocket.Upgrader
	now           func() time.Time
}

// Deps contains all dependencies required to construct a Handler.
// Conversations and Analytics are optional; their routes are skipped when nil.
type Deps struct {
	Runtime       Runtime
	Documents     *documents.Store
	Conversations *service.ConversationService
	Analytics     *service.AnalyticsService
}

func New(deps Deps) *Handler {
	return &Handler{
		runtime:       deps.Runtime,
		documents:     deps.Documents,
		conversations: deps.Conversations,
		analytics:     deps.Analytics,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		now: time.Now,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Post("/chat", h.handleChat)
	r.Get("/chat/ws", h.handleChatWebSocket)
	r.Post("/upload", h.handleUpload)
	r.Get("/documents", h.handleListDocuments)
	r.Post("/train", h.handleTrain)

	if h.analytics != nil {
		r.Get("/analytics/feedback", h.handleFeedbackSummary)
		r.Get("/analytics/intents", h.handleIntentQuality)
		r.Get("/analytics/daily", h.handleDailyMetrics)
	}
	if h.conversations != nil {
		r.Post("/conversations/{id}/end", h.handleEndConversation)
		r.Get("/conversations/{id}/messages", h.handleListMessages)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ts := h.now().Format(time.RFC3339)

	status, err := h.runtime.Status(r.Context())
	if err != nil {
		slog.Error("health check failed", "component", "gateway", "op", "health", "error", err)
		respond.JSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "error",
			"message":   "dialogue runtime unavailable",
			"timestamp": ts,
		})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"timestamp":   ts,
		"rasa_status": status,
	})
}

type chatRequest struct {
	Sender  string `json:"sender"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

func (c chatRequest) sender() string {
	switch {
	case strings.TrimSpace(c.Sender) != "":
		return c.Sender
	case strings.TrimSpace(c.UserID) != "":
		return c.UserID
	}
	return defaultSender
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respond.Error(w, http.StatusBadRequest, "No message provided")
		return
	}

	replies, err := h.relay(r.Context(), req.sender(), req.Message)
	if err != nil {
		respond.Error(w, http.StatusBadGateway, "dialogue runtime unavailable")
		return
	}
	respond.JSON(w, http.StatusOK, replies)
}

// relay forwards one message and substitutes the default reply when the runtime is silent.
func (h *Handler) relay(ctx context.Context, sender, message string) ([]runtime.BotMessage, error) {
	replies, err := h.runtime.SendMessage(ctx, sender, message)
	if err != nil {
		slog.Error("failed to relay message",
			"component", "gateway",
			"op", "send_message",
			"session_id", sender,
			"error", err,
		)
		return nil, err
	}
	if len(replies) == 0 {
		return []runtime.BotMessage{{Text: config.UtterDefaultReply}}, nil
	}
	return replies, nil
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.documents.MaxBytes()+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		respond.Error(w, http.StatusBadRequest, "No file part")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	doc, err := h.documents.Save(header.Filename, file)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmptyFileName):
		respond.Error(w, http.StatusBadRequest, "No selected file")
		return
	case errors.Is(err, domain.ErrFileTypeNotAllowed):
		respond.Error(w, http.StatusBadRequest,
			"File type not allowed. Allowed types: "+strings.Join(h.documents.AllowedTypes(), ", "))
		return
	case errors.Is(err, domain.ErrFileTooLarge):
		respond.Error(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	default:
		slog.Error("failed to store upload", "component", "gateway", "op", "upload", "filename", header.Filename, "error", err)
		respond.Error(w, http.StatusInternalServerError, "could not store file")
		return
	}

	slog.Info("document uploaded", "filename", doc.Filename, "size", doc.Size)
	respond.JSON(w, http.StatusOK, map[string]any{
		"message":   "File uploaded successfully",
		"filename":  doc.Filename,
		"filepath":  doc.Filepath,
		"size":      doc.Size,
		"type":      doc.Type,
		"timestamp": h.now().Format(time.RFC3339),
	})
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.List()
	if err != nil {
		slog.Error("failed to list documents", "component", "gateway", "op", "list_documents", "error", err)
		respond.Error(w, http.StatusInternalServerError, "could not list documents")
		return
	}
	respond.JSON(w, http.StatusOK, docs)
}

func (h *Handler) handleTrain(w http.ResponseWriter, r *http.Request) {
	status, err := h.runtime.Train(r.Context())
	if err != nil {
		slog.Error("failed to start training", "component", "gateway", "op", "train", "error", err)
		respond.Error(w, http.StatusBadGateway, "dialogue runtime unavailable")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Training started successfully",
		"status":  status,
	})
}

func (h *Handler) handleFeedbackSummary(w http.ResponseWriter, r *http.Request) {
	since, ok := parseSince(w, r)
	if !ok {
		return
	}
	summary, err := h.analytics.FeedbackSummary(r.Context(), since)
	if err != nil {
		slog.Error("failed to summarize feedback", "component", "gateway", "op", "feedback_summary", "error", err)
		respond.Error(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	respond.JSON(w, http.StatusOK, summary)
}

func (h *Handler) handleIntentQuality(w http.ResponseWriter, r *http.Request) {
	since, ok := parseSince(w, r)
	if !ok {
		return
	}
	rows, err := h.analytics.IntentQuality(r.Context(), since)
	if err != nil {
		slog.Error("failed to compute intent quality", "component", "gateway", "op", "intent_quality", "error", err)
		respond.Error(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	respond.JSON(w, http.StatusOK, rows)
}

func (h *Handler) handleDailyMetrics(w http.ResponseWriter, r *http.Request) {
	to, ok := parseDay(w, r, "to", time.Now().UTC())
	if !ok {
		return
	}
	from, ok := parseDay(w, r, "from", to.AddDate(0, 0, -(config.DailyMetricsDefaultDays - 1)))
	if !ok {
		return
	}
	days, err := h.analytics.DailyMetrics(r.Context(), from, to)
	if errors.Is(err, domain.ErrInvalidRange) {
		respond.Error(w, http.StatusBadRequest, "from must not be after to")
		return
	}
	if err != nil {
		slog.Error("failed to compute daily metrics", "component", "gateway", "op", "daily_metrics", "error", err)
		respond.Error(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	respond.JSON(w, http.StatusOK, days)
}

func (h *Handler) handleEndConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.conversations.EndConversation(r.Context(), id); err != nil {
		h.conversationError(w, "end_conversation", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	msgs, err := h.conversations.ListMessages(r.Context(), id)
	if err != nil {
		h.conversationError(w, "list_messages", id, err)
		return
	}
	respond.JSON(w, http.StatusOK, msgs)
}

func (h *Handler) conversationError(w http.ResponseWriter, op string, id int64, err error) {
	if errors.Is(err, domain.ErrConversationNotFound) {
		respond.Error(w, http.StatusNotFound, "conversation not found")
		return
	}
	slog.Error("conversation request failed", "component", "gateway", "op", op, "conversation_id", id, "error", err)
	respond.Error(w, http.StatusServiceUnavailable, "storage unavailable")
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "invalid conversation id")
		return 0, false
	}
	return id, true
}

// parseSince reads the optional RFC 3339 "since" query parameter. Absent means all time.
func parseSince(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return time.Time{}, true
	}
	since, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "since must be an RFC 3339 timestamp")
		return time.Time{}, false
	}
	return since, true
}

// parseDay reads an optional YYYY-MM-DD query parameter.
func parseDay(w http.ResponseWriter, r *http.Request, key string, def time.Time) (time.Time, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, key+" must be a YYYY-MM-DD date")
		return time.Time{}, false
	}
	return day, true
}
