package domain

import "time"

// Fields is the flat mapping exchanged with the external record store:
// canonical field name to a primitive value or, for multi-select answers, a []string.
type Fields map[string]any

// IncompleteApplication is the lookup result used to offer resumption to a returning address.
type IncompleteApplication struct {
	SessionID     string
	LastUpdatedAt time.Time
	Status        ApplicationStatus
}
