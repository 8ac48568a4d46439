package tui

import (
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a function that renders a chat reply for the terminal.
// With styled false, or when glamour cannot start, replies are passed through unchanged.
func NewRenderer(styled bool) func(string) (string, error) {
	plain := func(text string) (string, error) {
		return strings.TrimRight(text, "\n") + "\n", nil
	}
	if !styled {
		return plain
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return plain
	}

	return func(text string) (string, error) {
		return r.Render(ToMarkdown(text))
	}
}

var whatsappBold = regexp.MustCompile(`\*([^*\n]+)\*`)

// ToMarkdown converts WhatsApp message formatting to markdown.
// *bold* becomes **bold** and every line break is kept as a hard break.
func ToMarkdown(text string) string {
	text = whatsappBold.ReplaceAllString(text, "**$1**")

	lines := strings.Split(text, "\n")
	for i, line := range lines[:len(lines)-1] {
		if strings.TrimSpace(line) != "" && strings.TrimSpace(lines[i+1]) != "" {
			lines[i] = line + "  "
		}
	}
	return strings.Join(lines, "\n")
}
