package ports

import "context"

// Sender delivers a single outbound text message. Implementations do not split text;
// chunking happens before Send is called.
type Sender interface {
	Send(ctx context.Context, to, text string) error
}
