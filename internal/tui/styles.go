package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/salah-times/internal/display"
)

// Color palette
var (
	colorPrimary = lipgloss.Color("6")
	colorSuccess = lipgloss.Color("2")
	colorWarning = lipgloss.Color("3")
	colorError   = lipgloss.Color("1")
	colorMuted   = lipgloss.Color("8")
)

// styles are built on the display renderer so NO_COLOR and piping apply
// here too.
type styles struct {
	title     lipgloss.Style
	countdown lipgloss.Style
	iqama     lipgloss.Style
	muted     lipgloss.Style
	err       lipgloss.Style
	ok        lipgloss.Style
	box       lipgloss.Style
}

func newStyles() styles {
	r := display.Renderer()
	return styles{
		title:     r.NewStyle().Bold(true).Foreground(colorPrimary),
		countdown: r.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1),
		iqama:     r.NewStyle().Bold(true).Foreground(colorWarning).Padding(0, 1),
		muted:     r.NewStyle().Foreground(colorMuted),
		err:       r.NewStyle().Foreground(colorError),
		ok:        r.NewStyle().Foreground(colorSuccess),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1),
	}
}
