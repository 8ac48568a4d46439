package middleware

import (
	"context"
	"errors"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

// Middleware allows wrapping a RecordStore to add behavior.
type Middleware func(ports.RecordStore) ports.RecordStore

// ErrListingUnsupported is returned by ListRecords when the wrapped store cannot enumerate rows.
var ErrListingUnsupported = errors.New("record store does not support listing")

// Chain applies mws to store. The first middleware is the outermost.
func Chain(store ports.RecordStore, mws ...Middleware) ports.RecordStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

// listRecords delegates to next when it is a ports.RecordLister.
func listRecords(ctx context.Context, next ports.RecordStore) ([]domain.Fields, error) {
	lister, ok := next.(ports.RecordLister)
	if !ok {
		return nil, ErrListingUnsupported
	}
	return lister.ListRecords(ctx)
}
