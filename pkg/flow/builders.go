package flow

import (
	"fmt"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/validation"
)

// fieldDef describes a step that validates one answer and stores it.
type fieldDef struct {
	id      domain.StepID
	prompt  string
	rule    validation.Kind
	options []string
	// retry is appended to the rejection reason.
	retry string
	// ack acknowledges an accepted answer; the engine appends the next prompt.
	ack   string
	apply func(v any, s *domain.Session) error
	next  domain.StepID
	// branch overrides next based on the accepted value. Every possible result must be in detours.
	branch  func(v any, s *domain.Session) domain.StepID
	detours []domain.StepID
	persist bool

	promptFn func(s *domain.Session) string
	ackFn    func(v any, s *domain.Session) string
}

type builder struct {
	validator validation.Validator
	now       func() time.Time
}

func (b *builder) field(def fieldDef) Step {
	return b.build(KindField, def)
}

func (b *builder) choice(def fieldDef) Step {
	def.rule = validation.KindSelection
	return b.build(KindChoice, def)
}

func (b *builder) multiChoice(def fieldDef) Step {
	def.rule = validation.KindMultiSelection
	return b.build(KindMultiChoice, def)
}

func (b *builder) yesNo(def fieldDef) Step {
	def.rule = validation.KindYesNo
	return b.build(KindYesNo, def)
}

func (b *builder) build(kind StepKind, def fieldDef) Step {
	prompt := def.promptFn
	if prompt == nil {
		text := def.prompt
		prompt = func(*domain.Session) string { return text }
	}
	targets := append([]domain.StepID{def.next}, def.detours...)

	handle := func(raw string, s *domain.Session) (Result, error) {
		res := b.validator.Validate(def.rule, raw, def.options)
		if !res.Valid {
			return Result{Response: rejection(res.Message, def.retry), Next: def.id, Rejected: true}, nil
		}
		if err := def.apply(res.Value, s); err != nil {
			return Result{}, fmt.Errorf("apply %s: %w", def.id, err)
		}
		next := def.next
		if def.branch != nil {
			next = def.branch(res.Value, s)
		}
		ack := def.ack
		if def.ackFn != nil {
			ack = def.ackFn(res.Value, s)
		}
		return Result{Response: ack, Next: next, Persist: def.persist}, nil
	}

	return Step{ID: def.id, Kind: kind, Prompt: prompt, Handle: handle, Targets: targets}
}

func rejection(reason, retry string) string {
	if retry == "" {
		return "❌ " + reason
	}
	return "❌ " + reason + "\n\n" + retry
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func asInt(v any) (int, error) {
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("expected int, got %T", v)
	}
	return n, nil
}

func asSelection(v any) (domain.Selection, error) {
	sel, ok := v.(domain.Selection)
	if !ok {
		return nil, fmt.Errorf("expected selection, got %T", v)
	}
	return sel, nil
}

// setString adapts a string setter to an apply function.
func setString(set func(s *domain.Session, v string)) func(any, *domain.Session) error {
	return func(v any, s *domain.Session) error {
		str, err := asString(v)
		if err != nil {
			return err
		}
		set(s, str)
		return nil
	}
}

func setInt(set func(s *domain.Session, v int)) func(any, *domain.Session) error {
	return func(v any, s *domain.Session) error {
		n, err := asInt(v)
		if err != nil {
			return err
		}
		set(s, n)
		return nil
	}
}

func setSelection(set func(s *domain.Session, v domain.Selection)) func(any, *domain.Session) error {
	return func(v any, s *domain.Session) error {
		sel, err := asSelection(v)
		if err != nil {
			return err
		}
		set(s, sel)
		return nil
	}
}

func errUnexpected(v any) error {
	return fmt.Errorf("unexpected value %T", v)
}
