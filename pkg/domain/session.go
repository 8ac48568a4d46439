package domain

import "time"

// Session is the live state of one applicant's conversation.
//
// It is owned by the session store; the flow engine works on a copy for the duration of one turn
// and the store commits the result afterwards.
type Session struct {
	ID             string          `json:"id"`
	Address        string          `json:"address"`
	CurrentStep    StepID          `json:"current_step"`
	LastActivityAt time.Time       `json:"last_activity_at"`
	CreatedAt      time.Time       `json:"created_at"`
	Data           ApplicationData `json:"data"`

	// History is the visited-step stack used by "back". Pushed on forward transitions,
	// cleared when the applicant jumps through a menu.
	History []StepID `json:"history,omitempty"`
	// PausedAt remembers the form step that was interrupted by a menu or the save flow.
	PausedAt StepID `json:"paused_at,omitempty"`
	// Ended is set once a step returned a terminal transition (submission, cancel, save-and-exit).
	Ended bool `json:"ended,omitempty"`
	// PendingWrite is set when the last write-through to the record store failed.
	PendingWrite bool `json:"pending_write,omitempty"`
	// Resumed is set when the session was rehydrated from the record store.
	Resumed bool `json:"resumed,omitempty"`
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Data = s.Data.Clone()
	if s.History != nil {
		out.History = make([]StepID, len(s.History))
		copy(out.History, s.History)
	}
	return &out
}

// PushHistory records step as the most recent forward position.
func (s *Session) PushHistory(step StepID) {
	if n := len(s.History); n > 0 && s.History[n-1] == step {
		return
	}
	s.History = append(s.History, step)
}

// PopHistory removes and returns the most recent visited step.
func (s *Session) PopHistory() (StepID, bool) {
	n := len(s.History)
	if n == 0 {
		return StepNone, false
	}
	step := s.History[n-1]
	s.History = s.History[:n-1]
	return step, true
}
