package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner_PlainWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "v0.3.0\n")

	out := buf.String()
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, `|_|_| |_|\__\__,_|_|\_\___|`)
	assert.Contains(t, out, "funding application intake v0.3.0")
}

func TestNewRenderer_Plain(t *testing.T) {
	render := NewRenderer(false)

	out, err := render("*Step 1*\nPick one:\n\n")
	require.NoError(t, err)
	assert.Equal(t, "*Step 1*\nPick one:\n", out)
}

func TestToMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold", "*Welcome* back", "**Welcome** back"},
		{"hard breaks", "1. Yes\n2. No", "1. Yes  \n2. No"},
		{"paragraphs kept", "Hello\n\nBye", "Hello\n\nBye"},
		{"lone asterisk", "5 * 3", "5 * 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToMarkdown(tt.in))
		})
	}
}
