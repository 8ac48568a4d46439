package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/records"
	backend "github.com/redis/go-redis/v9"
)

var (
	_ ports.RecordStore  = (*Store)(nil)
	_ ports.RecordLister = (*Store)(nil)
)

// maxUpdateAttempts bounds optimistic retries when a row changes under WATCH.
const maxUpdateAttempts = 5

// Store implements ports.RecordStore using Redis.
//
// Keys:
//
//	<prefix><session>            JSON row
//	<prefix>address:<address>    ZSET of session ids scored by last update
//	<prefix>index                ZSET of every session id
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for rows.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for rows.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromURL creates a store from a redis:// URL.
func NewFromURL(url string, opts ...Option) (*Store, error) {
	o, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(o), opts...), nil
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "intake:record:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *Store) addressKey(address string) string {
	return s.prefix + "address:" + address
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// CreateRecord stores the row and indexes it. The record id is the session id.
func (s *Store) CreateRecord(ctx context.Context, fields domain.Fields) (string, error) {
	meta, err := records.ReadMeta(fields)
	if err != nil {
		return "", err
	}
	if meta.SessionID == "" {
		return "", errors.New("record has no session id")
	}

	pipe := s.client.TxPipeline()
	if err := s.queueWrite(ctx, pipe, meta, fields); err != nil {
		return "", err
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to save to redis: %w", err)
	}
	return meta.SessionID, nil
}

// UpdateRecord merges fields into the stored row under WATCH, retrying on concurrent writes.
func (s *Store) UpdateRecord(ctx context.Context, sessionID string, fields domain.Fields) error {
	key := s.key(sessionID)
	txf := func(tx *backend.Tx) error {
		existing, err := s.load(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		merged := records.Merge(existing, fields)
		meta, err := records.ReadMeta(merged)
		if err != nil {
			return err
		}
		meta.SessionID = sessionID

		_, err = tx.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
			return s.queueWrite(ctx, pipe, meta, merged)
		})
		return err
	}

	for i := 0; i < maxUpdateAttempts; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, backend.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update of %s kept conflicting: %w", sessionID, backend.TxFailedErr)
}

// FindBySessionID loads one row.
func (s *Store) FindBySessionID(ctx context.Context, sessionID string) (domain.Fields, error) {
	return s.load(ctx, s.client, sessionID)
}

// FindIncompleteApplication walks the address index newest first.
func (s *Store) FindIncompleteApplication(ctx context.Context, address string) (*domain.IncompleteApplication, error) {
	ids, err := s.client.ZRevRange(ctx, s.addressKey(address), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read address index: %w", err)
	}

	for _, id := range ids {
		row, err := s.load(ctx, s.client, id)
		if errors.Is(err, domain.ErrRecordNotFound) {
			// Expired row; drop the stale index entry.
			s.client.ZRem(ctx, s.addressKey(address), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		meta, err := records.ReadMeta(row)
		if err != nil || !meta.Status.Incomplete() {
			continue
		}
		return &domain.IncompleteApplication{
			SessionID:     meta.SessionID,
			LastUpdatedAt: meta.LastUpdated,
			Status:        meta.Status,
		}, nil
	}
	return nil, domain.ErrRecordNotFound
}

// ListRecords returns every indexed row, pruning index entries whose row has expired.
func (s *Store) ListRecords(ctx context.Context) ([]domain.Fields, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	rows := make([]domain.Fields, 0, len(ids))
	for _, id := range ids {
		row, err := s.load(ctx, s.client, id)
		if errors.Is(err, domain.ErrRecordNotFound) {
			s.client.ZRem(ctx, s.indexKey(), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) load(ctx context.Context, c backend.Cmdable, sessionID string) (domain.Fields, error) {
	val, err := c.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var fields domain.Fields
	if err := json.Unmarshal([]byte(val), &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return fields, nil
}

func (s *Store) queueWrite(ctx context.Context, pipe backend.Pipeliner, meta records.Meta, fields domain.Fields) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	score := float64(meta.LastUpdated.Unix())
	pipe.Set(ctx, s.key(meta.SessionID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: meta.SessionID})
	if meta.Address != "" {
		pipe.ZAdd(ctx, s.addressKey(meta.Address), backend.Z{Score: score, Member: meta.SessionID})
	}
	return nil
}
