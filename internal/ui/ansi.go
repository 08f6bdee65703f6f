package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	symCheck = "✔"
	symCross = "✖"
	symBang  = "!"
)

// Color modes accepted by SetColorMode.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var colorMode = ColorAuto

// SetColorMode controls styling for every renderer created afterwards.
func SetColorMode(mode string) {
	switch strings.ToLower(mode) {
	case ColorAlways, ColorNever:
		colorMode = strings.ToLower(mode)
	default:
		colorMode = ColorAuto
	}
}

// newLipgloss returns a lipgloss renderer for w honoring the color mode.
// A nil w selects the default renderer, bound to stdout.
func newLipgloss(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.DefaultRenderer()
	if w != nil {
		r = lipgloss.NewRenderer(w)
	}
	switch colorMode {
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case ColorAlways:
		r.SetColorProfile(termenv.TrueColor)
	}
	return r
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth is the column count of w, or 80 when w is not a terminal.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && isTTY(w) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	return 80
}

func OK(w io.Writer, msg string) {
	th := NewTheme(DefaultThemeName, newLipgloss(w))
	fmt.Fprintln(w, th.Success.Render(symCheck+" "+msg))
}

func Fail(w io.Writer, msg string) {
	th := NewTheme(DefaultThemeName, newLipgloss(w))
	fmt.Fprintln(w, th.Error.Render(symCross+" "+msg))
}

// Notice prints a framed message the user has to read, like a duplicate
// task warning.
func Notice(w io.Writer, msg string) {
	th := NewTheme(DefaultThemeName, newLipgloss(w))
	box := th.Box().BorderForeground(th.ErrorColor)
	fmt.Fprintln(w, box.Render(th.Error.Render(symBang+" "+msg)))
}

// Hint prints a muted follow-up line.
func Hint(w io.Writer, msg string) {
	th := NewTheme(DefaultThemeName, newLipgloss(w))
	fmt.Fprintln(w, th.Muted.Render(msg))
}
