package intake

import (
	"github.com/aretw0/intake/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the turn-level collectors.
type Metrics struct {
	Turns           *prometheus.CounterVec
	PersistOutcomes *prometheus.CounterVec
	TurnDuration    prometheus.Histogram
	ActiveSessions  prometheus.Gauge
	Dropped         prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_turns_total",
			Help: "Inbound turns by how they were handled.",
		}, []string{"kind"}),
		PersistOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_persist_outcomes_total",
			Help: "Write-through attempts by outcome.",
		}, []string{"outcome"}),
		TurnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "intake_turn_duration_seconds",
			Help:    "Time from receiving a turn to having its reply.",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "intake_active_sessions",
			Help: "Sessions held in memory.",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intake_dropped_messages_total",
			Help: "Inbound messages rejected because the address queue was full.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Turns, m.PersistOutcomes, m.TurnDuration, m.ActiveSessions, m.Dropped)
	}
	return m
}

const (
	kindGreeting = "greeting"
	kindRejected = "rejected"
	kindCommand  = "command"
	kindAnswer   = "answer"
	kindInvalid  = "invalid_input"
	kindError    = "error"
)

func (m *Metrics) turn(kind string) {
	if m != nil {
		m.Turns.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) persisted(o domain.PersistOutcome) {
	if m != nil {
		m.PersistOutcomes.WithLabelValues(string(o)).Inc()
	}
}

func (m *Metrics) sessions(n int) {
	if m != nil {
		m.ActiveSessions.Set(float64(n))
	}
}

func (m *Metrics) dropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}
