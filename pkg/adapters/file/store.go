package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/records"
)

var (
	_ ports.RecordStore  = (*Store)(nil)
	_ ports.RecordLister = (*Store)(nil)
)

// Store implements ports.RecordStore using the local filesystem.
// Each application is one JSON file named after its session id.
type Store struct {
	BasePath string

	// mu serializes read-modify-write cycles of UpdateRecord within this process.
	mu sync.Mutex
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".intake/records".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".intake", "records")
	}
	return &Store{BasePath: basePath}
}

// CreateRecord writes a new row. The record id is the session id.
func (s *Store) CreateRecord(ctx context.Context, fields domain.Fields) (string, error) {
	meta, err := records.ReadMeta(fields)
	if err != nil {
		return "", err
	}
	if err := checkID(meta.SessionID); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(meta.SessionID, fields); err != nil {
		return "", err
	}
	return meta.SessionID, nil
}

// UpdateRecord merges fields into the stored row.
func (s *Store) UpdateRecord(ctx context.Context, sessionID string, fields domain.Fields) error {
	if err := checkID(sessionID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(sessionID)
	if err != nil {
		return err
	}
	return s.write(sessionID, records.Merge(existing, fields))
}

// FindBySessionID reads the row of sessionID.
func (s *Store) FindBySessionID(ctx context.Context, sessionID string) (domain.Fields, error) {
	if err := checkID(sessionID); err != nil {
		return nil, err
	}
	return s.read(sessionID)
}

// FindIncompleteApplication scans every file in the directory.
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

// ListRecords reads all rows. Files that are not valid rows are skipped.
func (s *Store) ListRecords(ctx context.Context) ([]domain.Fields, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Fields{}, nil
		}
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	var rows []domain.Fields
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		row, err := s.read(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) path(sessionID string) string {
	return filepath.Join(s.BasePath, sessionID+".json")
}

func (s *Store) read(sessionID string) (domain.Fields, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var fields domain.Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return fields, nil
}

// write persists the row atomically: temp file in the same directory, fsync, rename.
func (s *Store) write(sessionID string, fields domain.Fields) error {
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure record directory: %w", err)
	}

	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+sessionID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := s.path(sessionID)
	// os.Rename fails on Windows when the destination exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing record file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to record: %w", err)
	}
	return nil
}

var errInvalidID = errors.New("invalid session id")

func checkID(sessionID string) error {
	if sessionID == "" || strings.ContainsAny(sessionID, `/\`) || sessionID == "." || sessionID == ".." {
		return fmt.Errorf("%w: %q", errInvalidID, sessionID)
	}
	return nil
}
