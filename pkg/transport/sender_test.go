package transport_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/intake/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	at   []time.Time
	err  error
}

func (r *recordingSender) Send(_ context.Context, _, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, text)
	r.at = append(r.at, time.Now())
	return nil
}

func TestChunkedSender_SendsInOrder(t *testing.T) {
	rec := &recordingSender{}
	s := transport.NewChunkedSender(rec, transport.WithMaxLength(10), transport.WithDelay(5*time.Millisecond))

	err := s.Send(context.Background(), "27821234567", "aaaa\nbbbb\ncccc")
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, rec.sent)
	assert.GreaterOrEqual(t, rec.at[1].Sub(rec.at[0]), 5*time.Millisecond)
}

func TestChunkedSender_SingleChunkNoDelay(t *testing.T) {
	rec := &recordingSender{}
	s := transport.NewChunkedSender(rec, transport.WithDelay(time.Hour))

	done := make(chan error, 1)
	go func() { done <- s.Send(context.Background(), "27821234567", "hi") }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("single chunk should not wait")
	}
	assert.Equal(t, []string{"hi"}, rec.sent)
}

func TestChunkedSender_CancelDuringDelay(t *testing.T) {
	rec := &recordingSender{}
	s := transport.NewChunkedSender(rec, transport.WithMaxLength(5), transport.WithDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := s.Send(ctx, "27821234567", strings.Repeat("abcde\n", 3))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, rec.sent, 1)
}

func TestChunkedSender_StopsOnError(t *testing.T) {
	rec := &recordingSender{err: errors.New("rate limited")}
	s := transport.NewChunkedSender(rec, transport.WithDelay(0))

	err := s.Send(context.Background(), "27821234567", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk 1/1")
}
