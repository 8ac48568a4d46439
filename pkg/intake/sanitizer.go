package intake

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize is 4KB, the size of the largest text a WhatsApp message can carry.
// Service.Handle uses it unless WithMaxInputSize overrides it.
const DefaultMaxInputSize = 4096

var (
	// ErrInputTooLarge is wrapped with the offending size and the limit.
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	// ErrInvalidUTF8 is returned as is; the message cannot be shown back to the applicant.
	ErrInvalidUTF8 = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitize cleans inbound text before it reaches the flow engine.
//
// It runs three checks in order:
//   - the size limit: text longer than limit bytes fails with ErrInputTooLarge
//     (a limit of zero or less means DefaultMaxInputSize);
//   - UTF-8 validity: malformed sequences fail with ErrInvalidUTF8;
//   - control characters: everything but newline, tab and carriage return is stripped.
//
// Clean text is returned unchanged without allocating.
func Sanitize(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	// 1. Size. Reject rather than truncate: a truncated answer could still validate.
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	// 2. Encoding
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// 3. Control characters. ESC, NUL and BEL would corrupt logs and the chat terminal.
	if strings.IndexFunc(input, unsafeControl) < 0 {
		return input, nil
	}
	return strings.Map(func(r rune) rune {
		if unsafeControl(r) {
			return -1
		}
		return r
	}, input), nil
}

func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

// greetings are the openers answered with the greeting message instead of starting a session.
var greetings = map[string]struct{}{
	"hi":             {},
	"hello":          {},
	"hey":            {},
	"good morning":   {},
	"good afternoon": {},
	"good evening":   {},
	"howdy":          {},
}

// IsGreeting reports whether text is empty or nothing but a greeting.
// Matching ignores case and surrounding whitespace; "hi there" is not a greeting.
func IsGreeting(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return true
	}
	_, ok := greetings[t]
	return ok
}
