package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`  _       _        _        `, "#34d399"},
	{` (_)_ __ | |_ __ _| | _____ `, "#2dd4bf"},
	{` | | '_ \| __/ _`+"`"+` | |/ / _ \`, "#22d3ee"},
	{` | | | | | || (_| |   <  __/`, "#38bdf8"},
	{` |_|_| |_|\__\__,_|_|\_\___|`, "#60a5fa"},
}

// PrintBanner writes the intake banner to w. Colors are dropped when w is not a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, out.String("  funding application intake "+v).Faint())
	}
	fmt.Fprintln(w)
}
