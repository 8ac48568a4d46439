package domain

// ApplicationStatus mirrors the status column of the external record store.
type ApplicationStatus string

const (
	StatusDraft      ApplicationStatus = "Draft"
	StatusInProgress ApplicationStatus = "In Progress"
	StatusSubmitted  ApplicationStatus = "Submitted"
)

// Incomplete reports whether an application with this status may be offered for resumption.
func (s ApplicationStatus) Incomplete() bool {
	return s == StatusDraft || s == StatusInProgress
}

// PersistOutcome is the result of one write-through attempt to the record store.
type PersistOutcome string

const (
	// OutcomePersisted means the record store acknowledged the write.
	OutcomePersisted PersistOutcome = "persisted"
	// OutcomeDeferred means no write was attempted (no store configured, or the turn was cancelled).
	OutcomeDeferred PersistOutcome = "deferred"
	// OutcomeFailed means the record store rejected the write or was unreachable.
	OutcomeFailed PersistOutcome = "failed"
)
