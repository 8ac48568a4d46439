package domain

import "strings"

// Selection is an ordered, de-duplicated set of option labels.
// It is the single internal representation of multi-select answers.
type Selection []string

// NewSelection builds a Selection from labels, keeping first occurrences and dropping blanks.
func NewSelection(labels ...string) Selection {
	var s Selection
	for _, l := range labels {
		s = s.Add(l)
	}
	return s
}

// Add appends label unless it is blank or already present (case-insensitive).
func (s Selection) Add(label string) Selection {
	label = strings.TrimSpace(label)
	if label == "" || s.Contains(label) {
		return s
	}
	return append(s, label)
}

// Contains reports whether label is part of the selection (case-insensitive).
func (s Selection) Contains(label string) bool {
	for _, v := range s {
		if strings.EqualFold(v, label) {
			return true
		}
	}
	return false
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s) == 0
}

// Clone returns a copy that shares no backing array with s.
func (s Selection) Clone() Selection {
	if s == nil {
		return nil
	}
	out := make(Selection, len(s))
	copy(out, s)
	return out
}

// String joins the labels for display.
func (s Selection) String() string {
	return strings.Join(s, ", ")
}
