package memory

import (
	"context"
	"sync"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/records"
	"github.com/google/uuid"
)

var (
	_ ports.RecordStore  = (*Store)(nil)
	_ ports.RecordLister = (*Store)(nil)
)

// Store implements ports.RecordStore in memory.
// Safe for concurrent use.
type Store struct {
	rows map[string]domain.Fields // by session id
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		rows: make(map[string]domain.Fields),
	}
}

// CreateRecord stores a copy of fields keyed by its session id column and returns that key.
// A row without a session id is given a fresh one.
func (s *Store) CreateRecord(ctx context.Context, fields domain.Fields) (string, error) {
	meta, err := records.ReadMeta(fields)
	if err != nil {
		return "", err
	}
	row := records.Clone(fields)
	if meta.SessionID == "" {
		meta.SessionID = uuid.NewString()
		row[records.FieldSessionID] = meta.SessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[meta.SessionID] = row
	return meta.SessionID, nil
}

// UpdateRecord merges fields into the stored row.
func (s *Store) UpdateRecord(ctx context.Context, sessionID string, fields domain.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.rows[sessionID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	s.rows[sessionID] = records.Merge(existing, records.Clone(fields))
	return nil
}

// FindBySessionID returns a copy of the row so callers can't mutate the store.
func (s *Store) FindBySessionID(ctx context.Context, sessionID string) (domain.Fields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[sessionID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return records.Clone(row), nil
}

// FindIncompleteApplication scans every row.
func (s *Store) FindIncompleteApplication(ctx context.Context, address string) (*domain.IncompleteApplication, error) {
	rows, err := s.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	found, ok := records.LatestIncomplete(rows, address)
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return found, nil
}

// ListRecords returns copies of all rows.
func (s *Store) ListRecords(ctx context.Context) ([]domain.Fields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]domain.Fields, 0, len(s.rows))
	for _, row := range s.rows {
		rows = append(rows, records.Clone(row))
	}
	return rows, nil
}
