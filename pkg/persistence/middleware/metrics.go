package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics holds the collectors shared by every instrumented store.
type StoreMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewStoreMetrics creates and registers the record store collectors on reg.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "record_store",
			Name:      "calls_total",
			Help:      "Record store calls by operation and result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "intake",
			Subsystem: "record_store",
			Name:      "call_duration_seconds",
			Help:      "Record store call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.calls, m.duration)
	}
	return m
}

type metricsMiddleware struct {
	next    ports.RecordStore
	metrics *StoreMetrics
}

// NewMetricsMiddleware counts and times every record store call.
func NewMetricsMiddleware(m *StoreMetrics) Middleware {
	return func(next ports.RecordStore) ports.RecordStore {
		return &metricsMiddleware{next: next, metrics: m}
	}
}

func (m *metricsMiddleware) CreateRecord(ctx context.Context, fields domain.Fields) (_ string, err error) {
	defer m.observe("create", time.Now(), &err)
	return m.next.CreateRecord(ctx, fields)
}

func (m *metricsMiddleware) UpdateRecord(ctx context.Context, sessionID string, fields domain.Fields) (err error) {
	defer m.observe("update", time.Now(), &err)
	return m.next.UpdateRecord(ctx, sessionID, fields)
}

func (m *metricsMiddleware) FindBySessionID(ctx context.Context, sessionID string) (_ domain.Fields, err error) {
	defer m.observe("find", time.Now(), &err)
	return m.next.FindBySessionID(ctx, sessionID)
}

func (m *metricsMiddleware) FindIncompleteApplication(ctx context.Context, address string) (_ *domain.IncompleteApplication, err error) {
	defer m.observe("find_incomplete", time.Now(), &err)
	return m.next.FindIncompleteApplication(ctx, address)
}

func (m *metricsMiddleware) ListRecords(ctx context.Context) (_ []domain.Fields, err error) {
	defer m.observe("list", time.Now(), &err)
	return listRecords(ctx, m.next)
}

func (m *metricsMiddleware) observe(op string, start time.Time, err *error) {
	m.metrics.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	m.metrics.calls.WithLabelValues(op, result(*err)).Inc()
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isExpected(err):
		return "not_found"
	default:
		return "error"
	}
}

func isExpected(err error) bool {
	return errors.Is(err, domain.ErrRecordNotFound)
}
