package action

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/set-night/eduassist/internal/domain"
	"github.com/set-night/eduassist/internal/emotion"
	"github.com/set-night/eduassist/internal/service"
)

// Dispatcher maps action names to handlers.
type Dispatcher struct {
	conversations *service.ConversationService
	knowledge     *service.KnowledgeService
	analyzer      *emotion.Analyzer
	pick          func(n int) int
	now           func() time.Time
	handlers      map[string]HandlerFunc
}

// Deps contains all dependencies required to construct a Dispatcher.
type Deps struct {
	Conversations *service.ConversationService
	Knowledge     *service.KnowledgeService
	Analyzer      *emotion.Analyzer

	// Pick returns an index in [0, n). Defaults to a shared random source.
	Pick func(n int) int

	// Now defaults to time.Now.
	Now func() time.Time
}

func NewDispatcher(deps Deps) *Dispatcher {
	d := &Dispatcher{
		conversations: deps.Conversations,
		knowledge:     deps.Knowledge,
		analyzer:      deps.Analyzer,
		pick:          deps.Pick,
		now:           deps.Now,
	}
	if d.analyzer == nil {
		d.analyzer = emotion.NewAnalyzer()
	}
	for _, label := range d.analyzer.Labels() {
		if len(EmotionResponses[label]) == 0 {
			slog.Warn("emotion has no responses, generic help is used", "component", "action", "emotion", label)
		}
	}
	if d.pick == nil {
		d.pick = rand.IntN
	}
	if d.now == nil {
		d.now = time.Now
	}

	d.handlers = map[string]HandlerFunc{
		ConsultKnowledgeBase: d.consultKnowledgeBase,
		LogTurn:              d.logTurn,
		RecordFeedback:       d.recordFeedback,
		DetectEmotion:        d.detectEmotion,
		GreetWithTime:        d.greetWithTime,
		HandleSmallTalk:      d.handleSmallTalk,
		MaintainContext:      d.maintainContext,
	}
	return d
}

// Dispatch runs the named action. Unknown names return domain.ErrUnknownAction.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, turn TurnContext) (*Response, error) {
	h, ok := d.handlers[name]
	if !ok {
		return nil, fmt.Errorf("dispatch %q: %w", name, domain.ErrUnknownAction)
	}
	resp := &Response{}
	if err := h(ctx, turn, resp); err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	return resp, nil
}

// Actions lists the registered action names in sorted order.
func (d *Dispatcher) Actions() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Dispatcher) choose(candidates []string) string {
	return candidates[d.pick(len(candidates))]
}
