package middleware

import (
	"context"
	"regexp"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/records"
)

// DefaultPIIPatterns match the columns that identify the applicant directly.
var DefaultPIIPatterns = []string{
	`^South African ID$`,
	`^Phone Number$`,
	`^Email( Address)?$`,
	`^WhatsApp Number$`,
	`^Street Address$`,
}

type piiMiddleware struct {
	next     ports.RecordStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks values of columns matching the patterns
// on the read path. Writes pass through untouched, so the stored rows keep their values.
//
// Reads are what resumption relies on; only wrap stores used for display or export.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.RecordStore) ports.RecordStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) CreateRecord(ctx context.Context, fields domain.Fields) (string, error) {
	return m.next.CreateRecord(ctx, fields)
}

func (m *piiMiddleware) UpdateRecord(ctx context.Context, sessionID string, fields domain.Fields) error {
	return m.next.UpdateRecord(ctx, sessionID, fields)
}

func (m *piiMiddleware) FindBySessionID(ctx context.Context, sessionID string) (domain.Fields, error) {
	fields, err := m.next.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return m.mask(fields), nil
}

func (m *piiMiddleware) FindIncompleteApplication(ctx context.Context, address string) (*domain.IncompleteApplication, error) {
	return m.next.FindIncompleteApplication(ctx, address)
}

func (m *piiMiddleware) ListRecords(ctx context.Context) ([]domain.Fields, error) {
	rows, err := listRecords(ctx, m.next)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Fields, len(rows))
	for i, row := range rows {
		out[i] = m.mask(row)
	}
	return out, nil
}

// mask returns a masked copy; the store's own row is never modified.
func (m *piiMiddleware) mask(fields domain.Fields) domain.Fields {
	out := records.Clone(fields)
	for k, v := range out {
		for _, p := range m.patterns {
			if p.MatchString(k) {
				out[k] = maskValue(v)
				break
			}
		}
	}
	return out
}

// maskValue keeps the last four characters of strings long enough to stay unidentifiable.
// Blank columns stay blank.
func maskValue(v any) any {
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return "***"
	}
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "***"
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
