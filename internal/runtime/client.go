// Package runtime talks to the dialogue runtime's REST API.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/set-night/eduassist/internal/domain"
)

// Button is a quick reply attached to a bot message.
type Button struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// BotMessage is one reply from the REST channel webhook.
type BotMessage struct {
	RecipientID string          `json:"recipient_id,omitempty"`
	Text        string          `json:"text,omitempty"`
	Image       string          `json:"image,omitempty"`
	Buttons     []Button        `json:"buttons,omitempty"`
	Custom      json.RawMessage `json:"custom,omitempty"`
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		c.SetQueryParam("token", token)
	}
	return &Client{http: c}
}

// Status returns the runtime's /status document.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	var status map[string]any
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&status).
		Get("/status")
	if err := checkResponse("status", resp, err); err != nil {
		return nil, err
	}
	return status, nil
}

// SendMessage posts a user message to the REST channel and returns the bot replies.
func (c *Client) SendMessage(ctx context.Context, sender, message string) ([]BotMessage, error) {
	var replies []BotMessage
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"sender": sender, "message": message}).
		SetResult(&replies).
		Post("/webhooks/rest/webhook")
	if err := checkResponse("send message", resp, err); err != nil {
		return nil, err
	}
	return replies, nil
}

// Train asks the runtime to train a model. The runtime answers with the model archive,
// so only its filename header is reported back when the body is not JSON.
func (c *Client) Train(ctx context.Context) (map[string]any, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Post("/model/train")
	if err := checkResponse("train", resp, err); err != nil {
		return nil, err
	}

	var status map[string]any
	if err := json.Unmarshal(resp.Body(), &status); err == nil {
		return status, nil
	}
	return map[string]any{
		"status":   "trained",
		"filename": resp.Header().Get("filename"),
	}, nil
}

func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrUpstreamUnavailable, op, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s: status %d", domain.ErrUpstreamUnavailable, op, resp.StatusCode())
	}
	return nil
}
