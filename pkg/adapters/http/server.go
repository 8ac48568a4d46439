// Package http is the HTTP front door: the WhatsApp webhook, health, session introspection and
// Prometheus metrics.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/adapters/whatsapp"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Inbox accepts inbound turns for asynchronous processing.
type Inbox interface {
	Submit(ctx context.Context, address, text string) error
}

// Sessions is the introspection view of the session store.
type Sessions interface {
	List() []session.Summary
	FindByAddress(address string) (*domain.Session, bool)
	Delete(id string)
}

// Server serves the front door routes.
type Server struct {
	Inbox       Inbox
	Sessions    Sessions
	VerifyToken string
	Version     string

	metrics http.Handler
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithVerifyToken sets the token expected by the webhook subscription handshake.
func WithVerifyToken(token string) Option {
	return func(s *Server) {
		s.VerifyToken = token
	}
}

// WithMetricsHandler mounts h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithVersion is reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClock injects the clock used for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(inbox Inbox, sessions Sessions, opts ...Option) http.Handler {
	server := &Server{
		Inbox:    inbox,
		Sessions: sessions,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(server.requestLogger)

	r.Get("/webhook", server.VerifyWebhook)
	r.Post("/webhook", server.ReceiveWebhook)
	r.Get("/health", server.GetHealth)
	r.Route("/api/sessions", func(r chi.Router) {
		r.Get("/", server.ListSessions)
		r.Get("/{address}", server.GetSession)
		r.Delete("/{address}", server.ResetSession)
	})
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// VerifyWebhook handles the GET /webhook subscription handshake.
func (s *Server) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	echo, ok, missing := whatsapp.VerifyChallenge(q.Get("hub.mode"), q.Get("hub.verify_token"), q.Get("hub.challenge"), s.VerifyToken)
	switch {
	case ok:
		s.logger.Info("Webhook verified")
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(echo))
	case missing:
		s.logger.Warn("Webhook verification failed: missing parameters")
		w.WriteHeader(http.StatusBadRequest)
	default:
		s.logger.Warn("Webhook verification failed: invalid token")
		w.WriteHeader(http.StatusForbidden)
	}
}

// ReceiveWebhook handles the POST /webhook notification. Messages are queued and acknowledged
// immediately; replies are sent by the turn service.
func (s *Server) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	n, err := whatsapp.ParseWebhook(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		s.logger.Warn("Webhook: invalid body", "err", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	for _, m := range n.Messages {
		if m.From == "" {
			continue
		}
		s.logger.Info("Processing message",
			"address", logging.MaskAddress(m.From),
			"type", m.Type,
			"length", len(m.Text),
		)
		// The request context ends with this response; the turn must outlive it.
		if err := s.Inbox.Submit(context.WithoutCancel(r.Context()), m.From, m.Text); err != nil {
			s.logger.Error("Failed to queue message", "address", logging.MaskAddress(m.From), "err", err)
		}
	}
	for _, st := range n.Statuses {
		s.logger.Debug("Message status update",
			"address", logging.MaskAddress(st.RecipientID),
			"status", st.Status,
			"message_id", st.ID,
		)
	}
	w.WriteHeader(http.StatusOK)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":    "ok",
		"sessions":  len(s.Sessions.List()),
		"timestamp": s.now().UTC().Format(time.RFC3339),
	}
	if s.Version != "" {
		resp["version"] = s.Version
	}
	writeJSON(w, http.StatusOK, resp)
}

type sessionsResponse struct {
	Success       bool              `json:"success"`
	TotalSessions int               `json:"total_sessions"`
	Sessions      []session.Summary `json:"sessions"`
	Timestamp     string            `json:"timestamp"`
}

// ListSessions handles the GET /api/sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	list := s.Sessions.List()
	writeJSON(w, http.StatusOK, sessionsResponse{
		Success:       true,
		TotalSessions: len(list),
		Sessions:      list,
		Timestamp:     s.now().UTC().Format(time.RFC3339),
	})
}

type sessionDetail struct {
	SessionID    string                 `json:"session_id"`
	Step         domain.StepID          `json:"step"`
	LastActivity string                 `json:"last_activity"`
	Data         domain.ApplicationData `json:"data"`
}

type sessionResponse struct {
	Success bool           `json:"success"`
	Exists  bool           `json:"exists"`
	Session *sessionDetail `json:"session"`
}

// GetSession handles the GET /api/sessions/{address} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.Sessions.FindByAddress(chi.URLParam(r, "address"))
	resp := sessionResponse{Success: true, Exists: ok}
	if ok {
		resp.Session = &sessionDetail{
			SessionID:    sess.ID,
			Step:         sess.CurrentStep,
			LastActivity: sess.LastActivityAt.UTC().Format(time.RFC3339),
			Data:         sess.Data,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ResetSession handles the DELETE /api/sessions/{address} request. Only the in-memory session
// is dropped; stored records are untouched.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	sess, ok := s.Sessions.FindByAddress(address)
	if ok {
		s.Sessions.Delete(sess.ID)
		s.logger.Info("Session reset", "session_id", sess.ID, "address", logging.MaskAddress(address))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": ok,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}
