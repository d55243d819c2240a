// Package tui is the full-screen watch view: a live countdown to the next
// prayer and the iqama, redrawn every second.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/salah-times/internal/display"
	"github.com/smokyabdulrahman/salah-times/internal/engine"
	"github.com/smokyabdulrahman/salah-times/internal/hijri"
	"github.com/smokyabdulrahman/salah-times/internal/logger"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
	"github.com/smokyabdulrahman/salah-times/internal/settings"
)

const (
	layout24 = "15:04"
	layout12 = "3:04 PM"
)

type tickMsg time.Time

type refreshedMsg struct {
	out engine.Outcome
	err error
}

// Options configures the watch view.
type Options struct {
	Lang       string
	TimeLayout string
	// Hijri is optional; without it no Islamic date is shown.
	Hijri *hijri.Service
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx context.Context
	eng *engine.Engine
	hij *hijri.Service

	lang   string
	layout string

	now        time.Time
	state      prayer.State
	snap       engine.Snapshot
	hasSnap    bool
	refreshing bool
	lastErr    error

	width    int
	showHelp bool
	help     help.Model
	styles   styles
}

// New returns a Model reading its schedule from eng.
func New(ctx context.Context, eng *engine.Engine, opts Options) Model {
	h := help.New()
	h.ShowAll = false

	if opts.Lang == "" {
		opts.Lang = "en"
	}
	if opts.TimeLayout == "" {
		opts.TimeLayout = layout24
	}
	m := Model{
		ctx:    ctx,
		eng:    eng,
		hij:    opts.Hijri,
		lang:   opts.Lang,
		layout: opts.TimeLayout,
		help:   h,
		styles: newStyles(),
	}
	m.observe(eng.Now())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(false), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh loads the schedule for today without blocking the UI.
func (m Model) refresh(force bool) tea.Cmd {
	ctx, eng := m.ctx, m.eng
	return func() tea.Msg {
		if force {
			out, err := eng.Reload(ctx, eng.Now())
			return refreshedMsg{out: out, err: err}
		}
		res := <-eng.Refresh(ctx)
		return refreshedMsg{out: res.Outcome, err: res.Err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			return m, nil
		case key.Matches(msg, keys.Language):
			m.lang = nextLanguage(m.lang)
			return m, nil
		case key.Matches(msg, keys.Clock):
			if m.layout == layout24 {
				m.layout = layout12
			} else {
				m.layout = layout24
			}
			return m, nil
		case key.Matches(msg, keys.Refresh):
			if m.refreshing {
				return m, nil
			}
			m.refreshing = true
			return m, m.refresh(true)
		}
		return m, nil

	case tickMsg:
		now := m.eng.Now()
		var cmd tea.Cmd
		if m.hasSnap && !m.refreshing && now.Format(prayer.DateLayout) != m.snap.Times.Date {
			logger.Debug("watch: date changed, refreshing", "date", now.Format(prayer.DateLayout))
			m.refreshing = true
			cmd = m.refresh(false)
		}
		m.observe(now)
		return m, tea.Batch(cmd, tickCmd())

	case refreshedMsg:
		m.refreshing = false
		m.lastErr = msg.err
		if msg.err == nil && msg.out.FetchErr != nil {
			m.lastErr = msg.out.FetchErr
		}
		m.observe(m.eng.Now())
		return m, nil
	}
	return m, nil
}

func (m *Model) observe(now time.Time) {
	m.now = now
	m.state = m.eng.Evaluate(now)
	if snap, err := m.eng.Snapshot(); err == nil {
		m.snap, m.hasSnap = snap, true
	}
}

func nextLanguage(lang string) string {
	langs := settings.SupportedLanguages
	for i, l := range langs {
		if l == lang {
			return langs[(i+1)%len(langs)]
		}
	}
	return langs[0]
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if !m.hasSnap {
		b.WriteString(m.styles.muted.Render("  Loading prayer times..."))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(keys))
		return b.String()
	}

	b.WriteString(display.ScheduleTable(m.snap.Times, m.state, display.ScheduleOptions{
		Lang:       m.lang,
		TimeLayout: m.layout,
		Iqama:      m.eng.IqamaConfig(),
	}))
	b.WriteString("\n")
	b.WriteString(m.renderCountdown())
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.title.Render("Salah Times")
	if !m.hasSnap {
		return title
	}
	parts := []string{title, m.snap.City.Display(m.lang), m.now.Format("Mon 02 Jan 2006 15:04:05")}
	if m.hij != nil {
		parts = append(parts, m.hij.For(m.ctx, m.now).Format(m.lang))
	}
	return strings.Join(parts, m.styles.muted.Render("  ·  "))
}

func (m Model) renderCountdown() string {
	st := m.state
	if !st.HasData {
		return m.styles.box.Render(prayer.Placeholder)
	}

	next := fmt.Sprintf("%s  %s", st.Next.Name(m.lang), m.styles.countdown.Render(st.Countdown()))
	if st.NextIsTomorrow {
		next += m.styles.muted.Render(" (tomorrow)")
	}
	lines := []string{next}
	if iq, ok := st.IqamaCountdown(); ok {
		lines = append(lines, fmt.Sprintf("Iqama %s  %s", st.Iqama.Slot.Name(m.lang), m.styles.iqama.Render(iq)))
	}
	return m.styles.box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderStatus() string {
	src := fmt.Sprintf("source: %s", m.snap.Source)
	if m.snap.Provider != "" {
		src += " (" + m.snap.Provider + ")"
	}
	switch {
	case m.refreshing:
		return m.styles.muted.Render(src + "  refreshing...")
	case m.lastErr != nil:
		return m.styles.muted.Render(src) + "  " + m.styles.err.Render(m.lastErr.Error())
	case m.snap.Source == engine.SourceFetch || m.snap.Source == engine.SourceCache:
		return m.styles.ok.Render(src)
	}
	return m.styles.muted.Render(src)
}

// Run starts the watch view and blocks until the user quits or ctx is done.
func Run(ctx context.Context, eng *engine.Engine, opts Options) error {
	p := tea.NewProgram(New(ctx, eng, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
