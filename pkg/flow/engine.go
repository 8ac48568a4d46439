// Package flow is the conversation state machine.
//
// A Registry maps every domain.StepID to a Step (prompt + handler). The Engine interprets one
// inbound turn: global commands pre-empt the current step, otherwise the step's handler validates
// the answer, writes it into the session data and picks the next step. Back navigation follows a
// per-session visited-step stack rather than a static predecessor table.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/validation"
)

// Engine processes turns against a Registry.
type Engine struct {
	registry  Registry
	validator validation.Validator
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithValidator replaces the default validation rules.
func WithValidator(v validation.Validator) Option {
	return func(e *Engine) {
		e.validator = v
	}
}

// WithClock injects the clock used for consent and submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRegistry replaces the built-in step table. Mostly useful in tests.
func WithRegistry(r Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// NewEngine builds an engine over the built-in step table.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:    time.Now,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.validator == nil {
		e.validator = validation.NewRules(validation.WithClock(e.now))
	}
	if e.registry == nil {
		e.registry = NewRegistry(e.validator, e.now)
	}
	return e
}

// Registry exposes the step table.
func (e *Engine) Registry() Registry {
	return e.registry
}

// Prompt renders the question of the session's current step.
func (e *Engine) Prompt(s *domain.Session) string {
	st, err := e.registry.Lookup(s.CurrentStep)
	if err != nil {
		return welcomeMenu(s.Data)
	}
	return st.Prompt(s)
}

// Process interprets one turn and applies the outcome to s: current step, back-navigation stack,
// paused step and the ended flag. s must be a copy owned by the caller for this turn only.
func (e *Engine) Process(ctx context.Context, s *domain.Session, raw string) Result {
	input := normalize(raw)
	from := s.CurrentStep

	var res Result
	if cmd, ok := globalCommands[input]; ok {
		res = cmd(e, s)
		res.Command = input
	} else {
		res = e.handle(ctx, s, raw)
	}

	if res.Next != domain.StepNone {
		if _, err := e.registry.Lookup(res.Next); err != nil {
			e.logger.ErrorContext(ctx, "transition to unregistered step", "session_id", s.ID, "step", string(res.Next), "err", err)
			res = Result{Response: invalidStep + "\n\n" + welcomeMenu(s.Data), Next: domain.StepWelcome, Command: res.Command}
		}
	}
	e.apply(s, from, res)

	e.logger.DebugContext(ctx, "turn processed",
		"session_id", s.ID,
		"from", string(from),
		"to", string(res.Next),
		"command", res.Command,
		"rejected", res.Rejected,
		"persist", res.Persist,
	)
	return res
}

func (e *Engine) handle(ctx context.Context, s *domain.Session, raw string) Result {
	st, err := e.registry.Lookup(s.CurrentStep)
	if err != nil {
		e.logger.ErrorContext(ctx, "unregistered step", "session_id", s.ID, "step", string(s.CurrentStep), "err", err)
		return Result{Response: invalidStep + "\n\n" + welcomeMenu(s.Data), Next: domain.StepWelcome}
	}

	snapshot := s.Data.Clone()
	res, err := e.invoke(st, raw, s)
	if err != nil {
		s.Data = snapshot
		e.logger.ErrorContext(ctx, "step handler failed", "session_id", s.ID, "step", string(st.ID), "err", err)
		return Result{Response: genericRetry, Next: st.ID}
	}
	if res.Rejected {
		s.Data = snapshot
	}

	if res.Next != domain.StepNone && (res.Next != st.ID || res.Reprompt) {
		res.Response = joinParagraphs(res.Response, e.prompt(res.Next, s))
	}
	return res
}

// invoke runs the handler, turning a panic into an error.
func (e *Engine) invoke(st Step, raw string, s *domain.Session) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step %s panicked: %v", st.ID, r)
		}
	}()
	return st.Handle(raw, s)
}

// apply commits the navigation side of a result onto the session.
func (e *Engine) apply(s *domain.Session, from domain.StepID, res Result) {
	if res.Reset {
		s.Data = domain.ApplicationData{}
		s.History = nil
		s.PausedAt = domain.StepNone
		s.CurrentStep = res.Next
		return
	}

	if res.Next == domain.StepNone {
		s.Ended = true
		return
	}

	if res.Command == "" {
		switch {
		case res.Jump:
			s.History = nil
		case res.Next != from && from.IsForm() && res.Next.IsForm():
			s.PushHistory(from)
		}
	}
	if res.Next.IsForm() {
		s.PausedAt = domain.StepNone
	} else if from.IsForm() && res.Next != from {
		s.PausedAt = from
	}
	s.CurrentStep = res.Next
}

func (e *Engine) prompt(id domain.StepID, s *domain.Session) string {
	st, err := e.registry.Lookup(id)
	if err != nil {
		return ""
	}
	// Prompts read the session as it will be after the transition.
	view := *s
	view.CurrentStep = id
	return st.Prompt(&view)
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func joinParagraphs(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
