package configcmder

import (
	"io"

	"github.com/Killi-Poyi/TheCredX/pkg/cliui"
)

// Styles are only applied when writing to a terminal so that piped output
// stays plain.

func keyStyle(w io.Writer, s string) string {
	if !cliui.IsTerminal(w) {
		return s
	}
	return cliui.KeyStyle.Render(s)
}

func valueStyle(w io.Writer, s string) string {
	if !cliui.IsTerminal(w) {
		return s
	}
	return cliui.ValueStyle.Render(s)
}

func dimStyle(w io.Writer, s string) string {
	if !cliui.IsTerminal(w) {
		return s
	}
	return cliui.DimStyle.Render(s)
}

func successMark(w io.Writer) string {
	if !cliui.IsTerminal(w) {
		return "✓"
	}
	return cliui.SuccessMark
}
