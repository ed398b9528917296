// Package action implements the custom actions invoked by the dialogue runtime.
package action

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/set-night/eduassist/internal/domain"
)

const (
	ConsultKnowledgeBase = "action_consulta_knowledge_base"
	LogTurn              = "action_guardar_mensaje"
	RecordFeedback       = "action_registrar_feedback"
	DetectEmotion        = "action_detect_and_respond_to_emotion"
	GreetWithTime        = "action_greet_with_time_awareness"
	HandleSmallTalk      = "action_handle_small_talk"
	MaintainContext      = "action_maintain_conversation_context"
)

// TurnContext is the read-only view of the current user turn.
type TurnContext struct {
	SenderID         string
	Text             string
	Intent           string
	IntentConfidence float64
	Entities         []domain.EntityInput
	Slots            map[string]any
}

func (t TurnContext) Slot(name string) (any, bool) {
	v, ok := t.Slots[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// SlotString returns a slot rendered as a trimmed string.
func (t TurnContext) SlotString(name string) string {
	v, ok := t.Slot(name)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	}
	return ""
}

// SlotInt64 reads an integer slot written either as a JSON number or a numeric string.
func (t TurnContext) SlotInt64(name string) (int64, bool) {
	v, ok := t.Slot(name)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return wholeFloat(n)
	case json.Number:
		return parseWhole(n.String())
	case string:
		return parseWhole(strings.TrimSpace(n))
	}
	return 0, false
}

// parseWhole accepts integers and whole decimals such as "12.0".
func parseWhole(s string) (int64, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return wholeFloat(f)
}

func wholeFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// LatestEntityValue returns the value of the last entity with the given name.
func (t TurnContext) LatestEntityValue(name string) (string, bool) {
	for i := len(t.Entities) - 1; i >= 0; i-- {
		if t.Entities[i].Name == name {
			return t.Entities[i].Value, true
		}
	}
	return "", false
}

// ResponseSink is the write-only side of an action: utterances and slot updates.
type ResponseSink interface {
	Utter(text string)
	SetSlot(name string, value any)
	ClearSlot(name string)
}

// SlotUpdate sets a slot. A nil Value clears it.
type SlotUpdate struct {
	Name  string
	Value any
}

// Response collects what a handler emitted, in order.
type Response struct {
	Utterances  []string
	SlotUpdates []SlotUpdate
}

func (r *Response) Utter(text string) {
	r.Utterances = append(r.Utterances, text)
}

func (r *Response) SetSlot(name string, value any) {
	r.SlotUpdates = append(r.SlotUpdates, SlotUpdate{Name: name, Value: value})
}

func (r *Response) ClearSlot(name string) {
	r.SlotUpdates = append(r.SlotUpdates, SlotUpdate{Name: name})
}

// HandlerFunc runs one action for one turn. Handlers degrade to a polite utterance
// on failure; a returned error means the invocation itself could not be served.
type HandlerFunc func(ctx context.Context, turn TurnContext, sink ResponseSink) error
