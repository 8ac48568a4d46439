package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// RecordStore defines the contract with the external record store.
// Rows are flat domain.Fields keyed by column name; the store indexes them by the
// session id, address, status and last-updated columns.
type RecordStore interface {
	// CreateRecord inserts a new row and returns the store's record id.
	CreateRecord(ctx context.Context, fields domain.Fields) (string, error)

	// UpdateRecord overlays fields onto the row of sessionID. Columns absent from fields keep
	// their stored values. Returns domain.ErrRecordNotFound if no row matches.
	UpdateRecord(ctx context.Context, sessionID string, fields domain.Fields) error

	// FindBySessionID returns the row of sessionID or domain.ErrRecordNotFound.
	FindBySessionID(ctx context.Context, sessionID string) (domain.Fields, error)

	// FindIncompleteApplication returns the most recently updated Draft or In Progress
	// application of address, or domain.ErrRecordNotFound.
	FindIncompleteApplication(ctx context.Context, address string) (*domain.IncompleteApplication, error)
}

// RecordLister is implemented by stores that can enumerate their rows.
// It backs introspection tooling only; the conversation core never lists.
type RecordLister interface {
	ListRecords(ctx context.Context) ([]domain.Fields, error)
}
