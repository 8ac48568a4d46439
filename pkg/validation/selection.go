package validation

import (
	"strconv"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
)

// minFuzzyLen is the shortest input considered for a contains-match, so that a stray
// letter does not select the first option containing it.
const minFuzzyLen = 2

// Select resolves one answer against options.
// Resolution order: exact label (case-insensitive), 1-based index, contains-match either way.
func Select(raw string, options []string) Result {
	input := strings.TrimSpace(raw)
	if input == "" {
		return reject("Please make a selection")
	}
	if label, found := resolve(input, options); found {
		return ok(label)
	}
	return reject("Please select one of: " + strings.Join(options, ", "))
}

// SelectMany resolves a comma-separated list of answers into an ordered, de-duplicated
// domain.Selection. Unresolvable tokens are dropped; it fails only when nothing resolves.
func SelectMany(raw string, options []string) Result {
	var sel domain.Selection
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if label, found := resolve(token, options); found {
			sel = sel.Add(label)
		}
	}
	if sel.Empty() {
		return reject("Please select from: " + strings.Join(options, ", "))
	}
	return ok(sel)
}

func resolve(input string, options []string) (string, bool) {
	needle := strings.ToLower(input)
	for _, opt := range options {
		if strings.ToLower(strings.TrimSpace(opt)) == needle {
			return opt, true
		}
	}
	if n, err := strconv.Atoi(needle); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}
	if len(needle) < minFuzzyLen {
		return "", false
	}
	for _, opt := range options {
		o := strings.ToLower(opt)
		if strings.Contains(o, needle) || strings.Contains(needle, o) {
			return opt, true
		}
	}
	return "", false
}
