// Package persistence writes applications through to the external record store.
//
// A write is create-or-update: the row keyed by the session id is updated when it exists and
// created otherwise. Every column is written, so answers discarded in the session are blanked
// in the row too. The outcome is reported as a value; failures never reach the applicant.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/records"
)

// Writer performs write-through for finished turns.
type Writer struct {
	store  ports.RecordStore
	now    func() time.Time
	logger *slog.Logger
}

// Option configures the Writer.
type Option func(*Writer)

// WithClock injects the clock stamped into the Last Updated column.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// WithLogger sets a custom structured logger for the writer.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

// NewWriter creates a writer over store. A nil store defers every write.
func NewWriter(store ports.RecordStore, opts ...Option) *Writer {
	w := &Writer{
		store:  store,
		now:    time.Now,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Enabled reports whether a record store is configured.
func (w *Writer) Enabled() bool {
	return w.store != nil
}

// Write persists the session's application.
//
// No row is created before consent. A session without consent, as after a restart, only
// blanks the row it may already own. The outcome is deferred when no store is configured or
// ctx is already done. A failed write returns domain.OutcomeFailed and the error.
func (w *Writer) Write(ctx context.Context, sess *domain.Session) (domain.PersistOutcome, error) {
	if w.store == nil {
		return domain.OutcomeDeferred, nil
	}
	if err := ctx.Err(); err != nil {
		return domain.OutcomeDeferred, err
	}
	if !sess.Data.ConsentGiven {
		return w.clear(ctx, sess)
	}

	fields := records.Encode(sess.ID, sess.Address, sess.Data, w.now())

	err := w.store.UpdateRecord(ctx, sess.ID, fields)
	if errors.Is(err, domain.ErrRecordNotFound) {
		_, err = w.store.CreateRecord(ctx, fields)
		if err != nil {
			err = fmt.Errorf("failed to create record: %w", err)
		}
	} else if err != nil {
		err = fmt.Errorf("failed to update record: %w", err)
	}

	if err != nil {
		w.logger.WarnContext(ctx, "Write-through failed",
			"session_id", sess.ID,
			"address", logging.MaskAddress(sess.Address),
			"err", err,
		)
		return domain.OutcomeFailed, err
	}

	w.logger.DebugContext(ctx, "Application persisted",
		"session_id", sess.ID,
		"status", fields[records.FieldStatus],
	)
	return domain.OutcomePersisted, nil
}

// clear overwrites an existing row with an empty application. A missing row is left missing.
func (w *Writer) clear(ctx context.Context, sess *domain.Session) (domain.PersistOutcome, error) {
	fields := records.Encode(sess.ID, sess.Address, domain.ApplicationData{}, w.now())

	err := w.store.UpdateRecord(ctx, sess.ID, fields)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.OutcomeDeferred, nil
	}
	if err != nil {
		err = fmt.Errorf("failed to clear record: %w", err)
		w.logger.WarnContext(ctx, "Write-through failed",
			"session_id", sess.ID,
			"address", logging.MaskAddress(sess.Address),
			"err", err,
		)
		return domain.OutcomeFailed, err
	}

	w.logger.DebugContext(ctx, "Application cleared", "session_id", sess.ID)
	return domain.OutcomePersisted, nil
}
