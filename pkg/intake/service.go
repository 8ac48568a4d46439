// Package intake runs inbound turns end to end.
//
// A Service takes one (address, text) pair through input sanitation, the greeting short-circuit,
// the per-address lock, the session store, the flow engine, the commit back into the store, the
// write-through to the record store and finally the reply. A Dispatcher feeds it so that turns
// for one address never run concurrently, while different addresses proceed in parallel.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
	"github.com/aretw0/intake/pkg/persistence"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/session"
)

const (
	errorReply      = "Sorry, something went wrong. Please try again or type HELP for assistance."
	tooLongReply    = "⚠️ That message is too long. Please send a shorter answer."
	unreadableReply = "⚠️ We couldn't read that message. Please type your answer as plain text."
)

// Reply is the outcome of one turn.
type Reply struct {
	SessionID string
	Text      string
	Step      domain.StepID
	// Greeting is set when the turn was answered without touching any session.
	Greeting bool
	Ended    bool
	Rejected bool
	Command  string
	// Outcome is empty when no write-through was attempted.
	Outcome domain.PersistOutcome
}

// Service handles turns.
type Service struct {
	engine   *flow.Engine
	sessions *session.Store
	writer   *persistence.Writer
	sender   ports.Sender
	metrics  *Metrics
	logger   *slog.Logger
	maxInput int
}

// Option configures the Service.
type Option func(*Service)

// WithWriter enables write-through.
func WithWriter(w *persistence.Writer) Option {
	return func(s *Service) {
		s.writer = w
	}
}

// WithSender makes Handle deliver the reply itself.
func WithSender(sender ports.Sender) Option {
	return func(s *Service) {
		s.sender = sender
	}
}

// WithMetrics records turn metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMaxInputSize overrides DefaultMaxInputSize.
func WithMaxInputSize(n int) Option {
	return func(s *Service) {
		s.maxInput = n
	}
}

// NewService wires the engine to the session store.
func NewService(engine *flow.Engine, sessions *session.Store, opts ...Option) *Service {
	s := &Service{
		engine:   engine,
		sessions: sessions,
		writer:   persistence.NewWriter(nil),
		logger:   logging.NewNop(),
		maxInput: DefaultMaxInputSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle processes one inbound turn and, when a sender is configured, delivers the reply.
//
// The returned Reply always carries text to send, even when an error is returned.
func (s *Service) Handle(ctx context.Context, address, text string) (Reply, error) {
	start := time.Now()
	reply, err := s.handle(ctx, address, text)
	if s.metrics != nil {
		s.metrics.TurnDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.metrics.turn(kindError)
		s.logger.ErrorContext(ctx, "Turn failed",
			"address", logging.MaskAddress(address),
			"session_id", reply.SessionID,
			"err", err,
		)
		reply.Text = errorReply
	}

	if s.sender != nil {
		if sendErr := s.sender.Send(ctx, address, reply.Text); sendErr != nil {
			s.logger.ErrorContext(ctx, "Failed to send reply",
				"address", logging.MaskAddress(address),
				"err", sendErr,
			)
			err = errors.Join(err, fmt.Errorf("send reply: %w", sendErr))
		}
	}
	return reply, err
}

func (s *Service) handle(ctx context.Context, address, text string) (Reply, error) {
	clean, err := Sanitize(text, s.maxInput)
	if err != nil {
		s.metrics.turn(kindInvalid)
		s.logger.WarnContext(ctx, "Inbound text rejected", "address", logging.MaskAddress(address), "err", err)
		if errors.Is(err, ErrInputTooLarge) {
			return Reply{Text: tooLongReply}, nil
		}
		return Reply{Text: unreadableReply}, nil
	}

	if IsGreeting(clean) {
		s.metrics.turn(kindGreeting)
		return Reply{Text: flow.GreetingMessage, Greeting: true}, nil
	}

	var reply Reply
	err = s.sessions.WithLock(ctx, address, func(ctx context.Context) error {
		var err error
		reply, err = s.turn(ctx, address, clean)
		return err
	})
	s.metrics.sessions(s.sessions.Len())
	return reply, err
}

// turn runs under the address lock.
func (s *Service) turn(ctx context.Context, address, text string) (Reply, error) {
	id, err := s.sessions.GetOrCreate(ctx, address)
	if err != nil {
		return Reply{}, fmt.Errorf("get or create session: %w", err)
	}
	sess, err := s.sessions.Get(id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		// Expired between the two calls: begin again.
		if id, err = s.sessions.GetOrCreate(ctx, address); err != nil {
			return Reply{}, fmt.Errorf("get or create session: %w", err)
		}
		sess, err = s.sessions.Get(id)
	}
	if err != nil {
		return Reply{SessionID: id}, fmt.Errorf("load session: %w", err)
	}

	res := s.engine.Process(ctx, sess, text)

	if res.Reset {
		if err := s.sessions.ResetData(id); err != nil {
			return Reply{SessionID: id}, fmt.Errorf("reset session: %w", err)
		}
	} else if err := s.sessions.UpdateData(id, sess.Data); err != nil {
		return Reply{SessionID: id}, fmt.Errorf("commit session data: %w", err)
	}

	reply := Reply{
		SessionID: id,
		Text:      res.Response,
		Step:      sess.CurrentStep,
		Ended:     sess.Ended,
		Rejected:  res.Rejected,
		Command:   res.Command,
	}

	// A failed write is retried on the next turn. A restart blanks the stored row.
	if res.Persist || res.Reset || sess.Ended || sess.PendingWrite {
		outcome, werr := s.writer.Write(ctx, sess)
		reply.Outcome = outcome
		s.metrics.persisted(outcome)
		switch outcome {
		case domain.OutcomeFailed:
			sess.PendingWrite = true
		case domain.OutcomePersisted:
			sess.PendingWrite = false
		}
		if werr != nil {
			s.logger.WarnContext(ctx, "Write-through not completed",
				"session_id", id,
				"outcome", string(outcome),
				"err", werr,
			)
		}
	}

	if err := s.sessions.Update(id, session.PatchFrom(sess)); err != nil {
		return reply, fmt.Errorf("commit session: %w", err)
	}

	switch {
	case res.Rejected:
		s.metrics.turn(kindRejected)
	case res.Command != "":
		s.metrics.turn(kindCommand)
	default:
		s.metrics.turn(kindAnswer)
	}
	s.logger.InfoContext(ctx, "Turn handled",
		"session_id", id,
		"step", string(sess.CurrentStep),
		"ended", sess.Ended,
		"outcome", string(reply.Outcome),
	)
	return reply, nil
}
