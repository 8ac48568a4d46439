package records

import (
	"github.com/aretw0/intake/pkg/domain"
)

// Clone copies a row, including list values, so stores never share maps with callers.
func Clone(f domain.Fields) domain.Fields {
	if f == nil {
		return nil
	}
	out := make(domain.Fields, len(f))
	for k, v := range f {
		switch list := v.(type) {
		case []string:
			out[k] = append([]string(nil), list...)
		case []any:
			out[k] = append([]any(nil), list...)
		default:
			out[k] = v
		}
	}
	return out
}

// LatestIncomplete scans rows for the most recently updated incomplete application of address.
// Rows that cannot be decoded are skipped.
func LatestIncomplete(rows []domain.Fields, address string) (*domain.IncompleteApplication, bool) {
	var best *domain.IncompleteApplication
	for _, row := range rows {
		meta, err := ReadMeta(row)
		if err != nil || meta.Address != address || !meta.Status.Incomplete() {
			continue
		}
		if best == nil || meta.LastUpdated.After(best.LastUpdatedAt) {
			best = &domain.IncompleteApplication{
				SessionID:     meta.SessionID,
				LastUpdatedAt: meta.LastUpdated,
				Status:        meta.Status,
			}
		}
	}
	return best, best != nil
}
