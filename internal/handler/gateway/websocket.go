package gateway

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/set-night/eduassist/internal/runtime"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsReadLimit    = 64 << 10
)

type inboundMessage struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type outboundMessage struct {
	Type     string               `json:"type"`
	Messages []runtime.BotMessage `json:"messages,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// handleChatWebSocket relays each inbound frame to the runtime and writes the replies back.
// The sender defaults to the "sender" query parameter, or a fresh id per connection.
func (h *Handler) handleChatWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	sender := r.URL.Query().Get("sender")
	if sender == "" {
		sender = uuid.NewString()
	}
	slog.Info("websocket chat opened", "session_id", sender)

	ctx := r.Context()
	for {
		var in inboundMessage
		if err := conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket read ended", "session_id", sender, "error", err)
			}
			return
		}

		out := outboundMessage{Type: "reply"}
		if strings.TrimSpace(in.Message) == "" {
			out = outboundMessage{Type: "error", Error: "No message provided"}
		} else {
			from := sender
			if in.Sender != "" {
				from = in.Sender
			}
			replies, err := h.relay(ctx, from, in.Message)
			if err != nil {
				out = outboundMessage{Type: "error", Error: "dialogue runtime unavailable"}
			} else {
				out.Messages = replies
			}
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(out); err != nil {
			slog.Debug("websocket write failed", "session_id", sender, "error", err)
			return
		}
	}
}
