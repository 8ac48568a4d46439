// Package transport delivers replies over channels with a per-message size limit.
package transport

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the largest text body sent in one message, in characters.
const DefaultMaxLength = 4000

// Split breaks text into chunks of at most max characters.
//
// Lines are kept whole where possible, then words, and only a single word longer than max is
// cut mid-word. Text that already fits is returned as a single chunk, even when empty.
func Split(text string, max int) []string {
	if max <= 0 {
		max = DefaultMaxLength
	}
	if utf8.RuneCountInString(text) <= max {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
		}
		cur.Reset()
		curLen = 0
	}
	add := func(sep, part string, partLen int) {
		if curLen > 0 {
			cur.WriteString(sep)
			curLen++
		}
		cur.WriteString(part)
		curLen += partLen
	}

	for _, line := range strings.Split(text, "\n") {
		lineLen := utf8.RuneCountInString(line)
		if curLen > 0 && curLen+1+lineLen <= max {
			add("\n", line, lineLen)
			continue
		}
		flush()
		if lineLen <= max {
			add("\n", line, lineLen)
			continue
		}

		for _, word := range strings.Split(line, " ") {
			wordLen := utf8.RuneCountInString(word)
			if curLen > 0 && curLen+1+wordLen > max {
				flush()
			}
			for wordLen > max {
				flush()
				head, tail := cutRunes(word, max)
				chunks = append(chunks, head)
				word, wordLen = tail, wordLen-max
			}
			add(" ", word, wordLen)
		}
		flush()
	}
	flush()
	return chunks
}

func cutRunes(s string, n int) (string, string) {
	i := 0
	for j := range s {
		if i == n {
			return s[:j], s[j:]
		}
		i++
	}
	return s, ""
}
