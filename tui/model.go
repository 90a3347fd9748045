// Package tui is a terminal front end for one browsing session.
package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kilianp07/classgrid/core/browser"
)

type keyMap struct {
	Prev     key.Binding
	Next     key.Binding
	Lock     key.Binding
	Unlock   key.Binding
	Generate key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Lock, k.Generate, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next}, {k.Lock, k.Unlock}, {k.Generate, k.Help, k.Quit}}
}

func defaultKeys() keyMap {
	return keyMap{
		Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Lock:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "lock/unlock section")),
		Unlock:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "clear locks")),
		Generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "regenerate")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type generatedMsg struct{ err error }

// Model is the bubbletea model wrapping a browser.Session.
type Model struct {
	ctx     context.Context
	session *browser.Session
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	loading bool
	err     error
	width   int
}

// New returns a Model that generates schedules on start.
func New(ctx context.Context, s *browser.Session) Model {
	return Model{
		ctx:     ctx,
		session: s,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.generate())
}

func (m Model) generate() tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		return generatedMsg{err: s.Generate(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case generatedMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case m.loading:
	case key.Matches(msg, m.keys.Prev):
		m.session.Navigate(-1)
	case key.Matches(msg, m.keys.Next):
		m.session.Navigate(1)
	case key.Matches(msg, m.keys.Lock):
		m.toggleNth(msg.String())
	case key.Matches(msg, m.keys.Unlock):
		for _, id := range m.session.View().Selection.Locks {
			m.session.ToggleLock(id)
		}
	case key.Matches(msg, m.keys.Generate):
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.generate())
	}
	return m, nil
}

// toggleNth locks the n-th section (1-based) of the current schedule.
func (m Model) toggleNth(digit string) {
	n, err := strconv.Atoi(digit)
	if err != nil {
		return
	}
	cur := m.session.View().Selection.Current
	if n < 1 || n > len(cur) {
		return
	}
	m.session.ToggleLock(cur[n-1].ID())
}

func (m Model) View() string {
	if m.loading {
		return m.spinner.View() + " Generating schedules...\n\n" + m.help.View(m.keys)
	}
	v := m.session.View()
	out := RenderView(v)
	if m.err != nil && v.Message == "" {
		out += errorStyle.Render(m.err.Error()) + "\n"
	}
	return out + "\n" + m.help.View(m.keys)
}
