// Package display provides terminal styling for the CLI output.
//
// It respects the NO_COLOR environment variable (https://no-color.org/) and
// detects whether stdout is a terminal. Colors are automatically disabled when
// output is piped or redirected, or when NO_COLOR is set.
package display

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette.
var (
	colorGreen  = lipgloss.Color("2")
	colorYellow = lipgloss.Color("3")
	colorCyan   = lipgloss.Color("6")
	colorGray   = lipgloss.Color("8")
	colorRed    = lipgloss.Color("1")
)

var (
	renderer = lipgloss.NewRenderer(os.Stdout)
	enabled  bool
)

func init() {
	SetEnabled(shouldEnable())
}

// shouldEnable determines whether to use color output.
func shouldEnable() bool {
	// Respect NO_COLOR (https://no-color.org/).
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	// Respect FORCE_COLOR for testing.
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return isTerminal(os.Stdout)
}

// isTerminal reports whether f is connected to a terminal.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// SetEnabled overrides the auto-detected color state.
// Useful for testing or when --json forces plain output.
func SetEnabled(b bool) {
	enabled = b
	if b {
		renderer.SetColorProfile(termenv.ANSI)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return enabled
}

// Renderer returns the lipgloss renderer carrying the color state. The
// watch UI builds its styles from it.
func Renderer() *lipgloss.Renderer {
	return renderer
}

func style() lipgloss.Style {
	return renderer.NewStyle()
}

// Bold returns text rendered in bold.
func Bold(text string) string {
	return style().Bold(true).Render(text)
}

// Dim returns text rendered in dim/faint.
func Dim(text string) string {
	return style().Faint(true).Render(text)
}

// Green returns text rendered in green. Used for the current prayer.
func Green(text string) string {
	return style().Foreground(colorGreen).Render(text)
}

// Yellow returns text rendered in yellow. Used for iqama countdowns.
func Yellow(text string) string {
	return style().Foreground(colorYellow).Render(text)
}

// Red returns text rendered in red.
func Red(text string) string {
	return style().Foreground(colorRed).Render(text)
}

// Cyan returns text rendered in cyan.
func Cyan(text string) string {
	return style().Foreground(colorCyan).Render(text)
}

// Gray returns text rendered in gray.
func Gray(text string) string {
	return style().Foreground(colorGray).Render(text)
}

// Accent returns text rendered in the accent color (cyan + bold).
// Used for the "next prayer" highlight.
func Accent(text string) string {
	return style().Bold(true).Foreground(colorCyan).Render(text)
}

// Boldf formats and bolds a string.
func Boldf(format string, a ...interface{}) string {
	return Bold(fmt.Sprintf(format, a...))
}
