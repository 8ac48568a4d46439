package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/intake/internal/logging"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// locks is a set of per-key mutexes garbage collected by reference counting.
type locks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

func newLocks() *locks {
	return &locks{entries: make(map[string]*lockEntry)}
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (l *locks) acquire(key string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.entries[key]
	if !exists {
		entry = &lockEntry{}
		l.entries[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (l *locks) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.entries[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(l.entries, key)
	}
}

func (l *locks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// WithLock runs fn while holding the lock for address: the local mutex first, then the
// distributed lock when one is configured.
func (s *Store) WithLock(ctx context.Context, address string, fn func(context.Context) error) error {
	entry := s.locks.acquire(address)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		s.locks.release(address)
	}()

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, address, s.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// The turn context may already be cancelled; release anyway.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"address", logging.MaskAddress(address),
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
