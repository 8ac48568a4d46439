package flow

import (
	"fmt"
	"sort"

	"github.com/aretw0/intake/pkg/domain"
)

// Result is what a step handler (or a global command) decides for one turn.
type Result struct {
	// Response is the text sent back. For handler results the engine appends the prompt of
	// Next when the step changes.
	Response string
	// Next is the step to move to. domain.StepNone ends the conversation.
	Next domain.StepID
	// Persist asks the caller to write the application through to the record store.
	Persist bool
	// Completed marks a successful submission.
	Completed bool
	// Reset asks the caller to discard the stored application data.
	Reset bool
	// Jump marks a menu-driven move to an arbitrary section. It starts a new back-navigation segment.
	Jump bool
	// Rejected is set when the input failed validation. Nothing was written.
	Rejected bool
	// Reprompt appends the prompt of Next even when the step does not change.
	Reprompt bool
	// Command names the global command that handled the turn, if any.
	Command string
}

// Handler consumes raw input for the session's current step.
// It may mutate s.Data; if it returns an error or panics, the engine discards those mutations.
type Handler func(raw string, s *domain.Session) (Result, error)

// StepKind tags the variant a Step was built from.
type StepKind int

const (
	KindField StepKind = iota
	KindChoice
	KindMultiChoice
	KindYesNo
	KindMenu
	KindCustom
)

func (k StepKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindChoice:
		return "choice"
	case KindMultiChoice:
		return "multi_choice"
	case KindYesNo:
		return "yes_no"
	case KindMenu:
		return "menu"
	case KindCustom:
		return "custom"
	}
	return "unknown"
}

// Step is an immutable entry of the Registry.
type Step struct {
	ID     domain.StepID
	Kind   StepKind
	Prompt func(s *domain.Session) string
	Handle Handler
	// Targets lists every step Handle may move to besides staying in place.
	Targets []domain.StepID
}

// Registry maps every StepID to its Step.
type Registry map[domain.StepID]Step

// Lookup returns the step registered for id.
func (r Registry) Lookup(id domain.StepID) (Step, error) {
	st, ok := r[id]
	if !ok {
		return Step{}, fmt.Errorf("%w: %q", domain.ErrUnknownStep, id)
	}
	return st, nil
}

// Verify checks that the registry covers domain.AllSteps exactly and that every declared
// transition target is itself registered.
func (r Registry) Verify() error {
	for _, id := range domain.AllSteps {
		st, ok := r[id]
		if !ok {
			return fmt.Errorf("%w: %q is not registered", domain.ErrUnknownStep, id)
		}
		if st.ID != id {
			return fmt.Errorf("step %q registered under %q", st.ID, id)
		}
		if st.Prompt == nil || st.Handle == nil {
			return fmt.Errorf("step %q is incomplete", id)
		}
		for _, t := range st.Targets {
			if _, ok := r[t]; !ok {
				return fmt.Errorf("%w: %q targets %q", domain.ErrUnknownStep, id, t)
			}
		}
	}
	for id := range r {
		if !id.Valid() {
			return fmt.Errorf("%w: %q is registered but not declared", domain.ErrUnknownStep, id)
		}
	}
	return nil
}

// IDs returns the registered step ids, sorted.
func (r Registry) IDs() []domain.StepID {
	ids := make([]domain.StepID, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r Registry) add(st Step) {
	r[st.ID] = st
}
