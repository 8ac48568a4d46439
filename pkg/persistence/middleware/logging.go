package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.RecordStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every record store call at debug level, and failures at warn.
// domain.ErrRecordNotFound is an expected answer and is not treated as a failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = logging.NewNop()
	}
	return func(next ports.RecordStore) ports.RecordStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) CreateRecord(ctx context.Context, fields domain.Fields) (_ string, err error) {
	defer m.log(ctx, "create", time.Now(), &err)
	return m.next.CreateRecord(ctx, fields)
}

func (m *loggingMiddleware) UpdateRecord(ctx context.Context, sessionID string, fields domain.Fields) (err error) {
	defer m.log(ctx, "update", time.Now(), &err, "session_id", sessionID)
	return m.next.UpdateRecord(ctx, sessionID, fields)
}

func (m *loggingMiddleware) FindBySessionID(ctx context.Context, sessionID string) (_ domain.Fields, err error) {
	defer m.log(ctx, "find", time.Now(), &err, "session_id", sessionID)
	return m.next.FindBySessionID(ctx, sessionID)
}

func (m *loggingMiddleware) FindIncompleteApplication(ctx context.Context, address string) (_ *domain.IncompleteApplication, err error) {
	defer m.log(ctx, "find_incomplete", time.Now(), &err, "address", logging.MaskAddress(address))
	return m.next.FindIncompleteApplication(ctx, address)
}

func (m *loggingMiddleware) ListRecords(ctx context.Context) (_ []domain.Fields, err error) {
	defer m.log(ctx, "list", time.Now(), &err)
	return listRecords(ctx, m.next)
}

func (m *loggingMiddleware) log(ctx context.Context, op string, start time.Time, err *error, extra ...any) {
	attrs := append([]any{"op", op, "duration", time.Since(start)}, extra...)
	if *err != nil && !isExpected(*err) {
		m.logger.WarnContext(ctx, "Record store call failed", append(attrs, "err", *err)...)
		return
	}
	m.logger.DebugContext(ctx, "Record store call", attrs...)
}
