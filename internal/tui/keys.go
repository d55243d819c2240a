package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Refresh  key.Binding
	Language key.Binding
	Clock    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Language: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "language"),
	),
	Clock: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "12h/24h"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Language, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Language, k.Clock},
		{k.Help, k.Quit},
	}
}
