package transport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/ports"
)

// DefaultChunkDelay spaces consecutive chunks of one reply so they arrive in order.
const DefaultChunkDelay = 500 * time.Millisecond

// ChunkedSender splits replies and sends the chunks in order through the wrapped sender.
type ChunkedSender struct {
	next      ports.Sender
	maxLength int
	delay     time.Duration
	logger    *slog.Logger
}

var _ ports.Sender = (*ChunkedSender)(nil)

// Option configures the ChunkedSender.
type Option func(*ChunkedSender)

// WithMaxLength overrides DefaultMaxLength.
func WithMaxLength(n int) Option {
	return func(s *ChunkedSender) {
		if n > 0 {
			s.maxLength = n
		}
	}
}

// WithDelay overrides DefaultChunkDelay. Zero disables the pause.
func WithDelay(d time.Duration) Option {
	return func(s *ChunkedSender) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *ChunkedSender) {
		s.logger = logger
	}
}

// NewChunkedSender wraps next.
func NewChunkedSender(next ports.Sender, opts ...Option) *ChunkedSender {
	s := &ChunkedSender{
		next:      next,
		maxLength: DefaultMaxLength,
		delay:     DefaultChunkDelay,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send delivers text as one or more messages. It stops at the first failed chunk and
// returns early, without sending the rest, when ctx is cancelled during a pause.
func (s *ChunkedSender) Send(ctx context.Context, to, text string) error {
	chunks := Split(text, s.maxLength)
	for i, chunk := range chunks {
		if i > 0 && s.delay > 0 {
			timer := time.NewTimer(s.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if err := s.next.Send(ctx, to, chunk); err != nil {
			return fmt.Errorf("failed to send chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	if len(chunks) > 1 {
		s.logger.DebugContext(ctx, "Reply sent in chunks",
			"address", logging.MaskAddress(to),
			"chunks", len(chunks),
		)
	}
	return nil
}
