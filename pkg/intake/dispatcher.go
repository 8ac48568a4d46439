package intake

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/intake/internal/logging"
)

const (
	// DefaultQueueSize bounds the turns waiting for one address.
	DefaultQueueSize = 32
	// DefaultIdleTimeout stops an address worker after this long without turns.
	DefaultIdleTimeout = time.Minute
)

var (
	// ErrDispatcherClosed is returned by Submit after Close.
	ErrDispatcherClosed = errors.New("dispatcher closed")
	// ErrQueueFull is returned by Submit when an address has too many turns waiting.
	ErrQueueFull = errors.New("address queue full")
)

// TurnHandler processes one turn. *Service implements it.
type TurnHandler interface {
	Handle(ctx context.Context, address, text string) (Reply, error)
}

type job struct {
	ctx  context.Context
	text string
}

type queue struct {
	jobs chan job
}

// Dispatcher runs turns for each address sequentially, in arrival order, on a worker
// goroutine that exists only while the address has work.
type Dispatcher struct {
	handler   TurnHandler
	queueSize int
	idle      time.Duration
	metrics   *Metrics
	logger    *slog.Logger

	mu     sync.Mutex
	queues map[string]*queue
	closed bool
	wg     sync.WaitGroup
}

// DispatcherOption configures the Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithQueueSize overrides DefaultQueueSize.
func WithQueueSize(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

// WithIdleTimeout overrides DefaultIdleTimeout.
func WithIdleTimeout(t time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if t > 0 {
			d.idle = t
		}
	}
}

// WithDispatcherMetrics counts dropped messages.
func WithDispatcherMetrics(m *Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithDispatcherLogger sets a custom structured logger.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher over handler.
func NewDispatcher(handler TurnHandler, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		handler:   handler,
		queueSize: DefaultQueueSize,
		idle:      DefaultIdleTimeout,
		logger:    logging.NewNop(),
		queues:    make(map[string]*queue),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit queues a turn for address. It never blocks.
func (d *Dispatcher) Submit(ctx context.Context, address, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDispatcherClosed
	}
	q, ok := d.queues[address]
	if !ok {
		q = &queue{jobs: make(chan job, d.queueSize)}
		d.queues[address] = q
		d.wg.Add(1)
		go d.work(address, q)
	}

	select {
	case q.jobs <- job{ctx: ctx, text: text}:
		return nil
	default:
		d.metrics.dropped()
		d.logger.Warn("Dropping message, queue full", "address", logging.MaskAddress(address))
		return ErrQueueFull
	}
}

func (d *Dispatcher) work(address string, q *queue) {
	defer d.wg.Done()

	timer := time.NewTimer(d.idle)
	defer timer.Stop()

	for {
		select {
		case j, ok := <-q.jobs:
			if !ok {
				return
			}
			d.run(address, j)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(d.idle)

		case <-timer.C:
			// Retire only when nothing arrived meanwhile; Submit holds mu while enqueueing.
			d.mu.Lock()
			if len(q.jobs) == 0 && !d.closed {
				delete(d.queues, address)
				d.mu.Unlock()
				return
			}
			d.mu.Unlock()
			timer.Reset(d.idle)
		}
	}
}

func (d *Dispatcher) run(address string, j job) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Turn panicked", "address", logging.MaskAddress(address), "panic", r)
		}
	}()
	if _, err := d.handler.Handle(j.ctx, address, j.text); err != nil {
		d.logger.Debug("Turn returned error", "address", logging.MaskAddress(address), "err", err)
	}
}

// Active returns the number of addresses with a live worker.
func (d *Dispatcher) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queues)
}

// Close stops accepting turns and waits for queued ones to finish, or for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, q := range d.queues {
			close(q.jobs)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
