package session

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/progress"
	"github.com/aretw0/intake/pkg/records"
	"github.com/google/uuid"
)

const (
	// DefaultInactivityTimeout evicts sessions that have been idle this long.
	DefaultInactivityTimeout = time.Hour
	// DefaultResumabilityTimeout is how old a stored incomplete application may be and still be resumed.
	DefaultResumabilityTimeout = 24 * time.Hour
	// DefaultSweepInterval is the cadence Run uses when given a non-positive interval.
	DefaultSweepInterval = 5 * time.Minute
	// DefaultLockTTL bounds how long a crashed replica can hold an address.
	DefaultLockTTL = 30 * time.Second
)

// Store owns the live sessions.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*domain.Session
	byAddress map[string]string

	records ports.RecordStore
	locker  ports.DistributedLocker
	locks   *locks

	inactivity   time.Duration
	resumability time.Duration
	lockTTL      time.Duration
	now          func() time.Time
	newID        func() string
	logger       *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithRecordStore enables resumption of incomplete applications from rs.
func WithRecordStore(rs ports.RecordStore) Option {
	return func(s *Store) {
		s.records = rs
	}
}

// WithLocker configures a distributed locker for multi-replica deployments.
func WithLocker(l ports.DistributedLocker) Option {
	return func(s *Store) {
		s.locker = l
	}
}

// WithLogger sets a custom structured logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock injects the clock used for activity and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithInactivityTimeout overrides DefaultInactivityTimeout.
func WithInactivityTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.inactivity = d
		}
	}
}

// WithResumabilityTimeout overrides DefaultResumabilityTimeout.
func WithResumabilityTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.resumability = d
		}
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTTL = d
		}
	}
}

// WithIDGenerator replaces the random session id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// NewStore creates an empty session store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions:     make(map[string]*domain.Session),
		byAddress:    make(map[string]string),
		locks:        newLocks(),
		inactivity:   DefaultInactivityTimeout,
		resumability: DefaultResumabilityTimeout,
		lockTTL:      DefaultLockTTL,
		now:          time.Now,
		newID:        uuid.NewString,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the id of the live session for address.
//
// An idle-expired or ended session is evicted first. Then, if a record store is configured and it
// holds an incomplete application for address that is recent enough, the session is rehydrated from
// it under its stored id. Otherwise a fresh session starts at consent.
//
// Record store failures are logged and fall back to a fresh session.
func (s *Store) GetOrCreate(ctx context.Context, address string) (string, error) {
	now := s.now()

	s.mu.Lock()
	if id, ok := s.byAddress[address]; ok {
		sess := s.sessions[id]
		if sess != nil && !sess.Ended && !s.expired(sess, now) {
			sess.LastActivityAt = now
			s.mu.Unlock()
			return id, nil
		}
		s.evictLocked(id)
	}
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	sess := s.resume(ctx, address, now)
	if sess == nil {
		sess = &domain.Session{
			ID:          s.newID(),
			Address:     address,
			CurrentStep: domain.StepConsent,
			CreatedAt:   now,
		}
	}
	sess.LastActivityAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent caller for the same address won; WithLock prevents this in the service.
	if id, ok := s.byAddress[address]; ok {
		if cur := s.sessions[id]; cur != nil && !cur.Ended && !s.expired(cur, now) {
			return id, nil
		}
		s.evictLocked(id)
	}
	s.sessions[sess.ID] = sess
	s.byAddress[address] = sess.ID

	s.logger.Info("Session started",
		"session_id", sess.ID,
		"address", logging.MaskAddress(address),
		"step", string(sess.CurrentStep),
		"resumed", sess.Resumed,
	)
	return sess.ID, nil
}

// resume rehydrates the latest incomplete application for address, or returns nil.
func (s *Store) resume(ctx context.Context, address string, now time.Time) *domain.Session {
	if s.records == nil {
		return nil
	}

	inc, err := s.records.FindIncompleteApplication(ctx, address)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			s.logger.Warn("Failed to look up incomplete application",
				"address", logging.MaskAddress(address),
				"err", err,
			)
		}
		return nil
	}
	if inc == nil {
		return nil
	}
	if now.Sub(inc.LastUpdatedAt) > s.resumability {
		s.logger.Debug("Incomplete application too old to resume",
			"session_id", inc.SessionID,
			"last_updated", inc.LastUpdatedAt,
		)
		return nil
	}

	fields, err := s.records.FindBySessionID(ctx, inc.SessionID)
	if err != nil {
		s.logger.Warn("Failed to load incomplete application",
			"session_id", inc.SessionID,
			"err", err,
		)
		return nil
	}
	rec, err := records.Decode(fields, now)
	if err != nil {
		s.logger.Warn("Failed to decode incomplete application",
			"session_id", inc.SessionID,
			"err", err,
		)
		return nil
	}

	id := inc.SessionID
	if id == "" {
		id = s.newID()
	}
	return &domain.Session{
		ID:          id,
		Address:     address,
		CurrentStep: progress.ResumeStep(rec.Data),
		CreatedAt:   now,
		Data:        rec.Data,
		Resumed:     true,
	}
}

// Get returns a copy of the session and refreshes its activity timestamp.
// An inactivity-expired session is evicted and reported as domain.ErrSessionNotFound.
func (s *Store) Get(id string) (*domain.Session, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.expired(sess, now) {
		s.evictLocked(id)
		return nil, domain.ErrSessionNotFound
	}
	sess.LastActivityAt = now
	return sess.Clone(), nil
}

// Patch is a partial update of the navigation state. Nil fields are left untouched.
type Patch struct {
	CurrentStep  *domain.StepID
	History      *[]domain.StepID
	PausedAt     *domain.StepID
	Ended        *bool
	PendingWrite *bool
}

// PatchFrom builds a Patch carrying every navigation field of turn.
func PatchFrom(turn *domain.Session) Patch {
	history := append([]domain.StepID(nil), turn.History...)
	return Patch{
		CurrentStep:  &turn.CurrentStep,
		History:      &history,
		PausedAt:     &turn.PausedAt,
		Ended:        &turn.Ended,
		PendingWrite: &turn.PendingWrite,
	}
}

// Update applies p to the session and refreshes its activity timestamp.
func (s *Store) Update(id string, p Patch) error {
	return s.mutate(id, func(sess *domain.Session) {
		if p.CurrentStep != nil {
			sess.CurrentStep = *p.CurrentStep
		}
		if p.History != nil {
			sess.History = append([]domain.StepID(nil), (*p.History)...)
		}
		if p.PausedAt != nil {
			sess.PausedAt = *p.PausedAt
		}
		if p.Ended != nil {
			sess.Ended = *p.Ended
		}
		if p.PendingWrite != nil {
			sess.PendingWrite = *p.PendingWrite
		}
	})
}

// UpdateData merges data into the session's application. Present values are never dropped.
func (s *Store) UpdateData(id string, data domain.ApplicationData) error {
	return s.mutate(id, func(sess *domain.Session) {
		sess.Data.Merge(data.Clone())
	})
}

// ResetData discards the session's application and navigation history.
func (s *Store) ResetData(id string) error {
	return s.mutate(id, func(sess *domain.Session) {
		sess.Data = domain.ApplicationData{}
		sess.History = nil
		sess.PausedAt = domain.StepNone
	})
}

func (s *Store) mutate(id string, fn func(*domain.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	fn(sess)
	sess.LastActivityAt = s.now()
	return nil
}

// Delete removes the session. Unknown ids are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(id)
}

// Sweep evicts every idle-expired session and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	var expired []string
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		s.evictLocked(id)
	}
	s.mu.Unlock()

	if len(expired) > 0 {
		s.logger.Info("Swept expired sessions", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps on every tick until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Summary is the introspection view of one session.
type Summary struct {
	ID           string        `json:"id"`
	Address      string        `json:"phone_number"`
	Step         domain.StepID `json:"step"`
	LastActivity time.Time     `json:"last_activity"`
	ConsentGiven bool          `json:"consent_given"`
	Progress     int           `json:"progress"`
	Ended        bool          `json:"ended,omitempty"`
	PendingWrite bool          `json:"pending_write,omitempty"`
}

func summarize(sess *domain.Session) Summary {
	return Summary{
		ID:           sess.ID,
		Address:      sess.Address,
		Step:         sess.CurrentStep,
		LastActivity: sess.LastActivityAt,
		ConsentGiven: sess.Data.ConsentGiven,
		Progress:     progress.PercentComplete(sess.Data),
		Ended:        sess.Ended,
		PendingWrite: sess.PendingWrite,
	}
}

// List summarizes the live sessions, most recently active first. It does not refresh activity.
func (s *Store) List() []Summary {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, summarize(sess))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastActivity.Equal(out[j].LastActivity) {
			return out[i].ID < out[j].ID
		}
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out
}

// FindByAddress returns a copy of the session held for address without touching its activity.
func (s *Store) FindByAddress(address string) (*domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byAddress[address]
	if !ok {
		return nil, false
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return sess.Clone(), true
}

// Len returns the number of sessions held in memory.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) expired(sess *domain.Session, now time.Time) bool {
	return now.Sub(sess.LastActivityAt) > s.inactivity
}

func (s *Store) evictLocked(id string) {
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	delete(s.sessions, id)
	if s.byAddress[sess.Address] == id {
		delete(s.byAddress, sess.Address)
	}
}
