// Package tui implements the interactive terminal interface of jot.
//
// Two tabs show the active notes and the story of finished notes. Each tab is
// a presenter View; the model routes key presses to the presenter of the
// visible tab and reloads a tab whenever it appears or its collection
// changes.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/presenter"
)

const (
	tabNotes = iota
	tabStory
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

type (
	loadMsg         struct{ tab int }
	eventMsg        core.Event
	eventsClosedMsg struct{}
)

// Model is the bubbletea model of the jot TUI.
type Model struct {
	ctx    context.Context
	keys   KeyMap
	styles styles
	help   help.Model

	notes   *presenter.NotePresenter
	story   *presenter.StoryPresenter
	screens [2]*screen
	tab     int

	mode  mode
	title textinput.Model
	body  textinput.Model

	events <-chan core.Event
	width  int
}

var _ tea.Model = (*Model)(nil)

// New creates the model over repo. If repo is also a core.Watchable its
// events keep the hidden tab current.
func New(ctx context.Context, repo presenter.Repository) *Model {
	m := &Model{
		ctx:    ctx,
		keys:   DefaultKeyMap(),
		styles: defaultStyles(),
		help:   help.New(),
		title:  newInput("Title", 120),
		body:   newInput("Body (optional)", 1024),
	}

	notesScreen := &screen{name: "Notes", collection: core.Active}
	m.notes = presenter.NewNotePresenter(notesScreen, repo)
	notesScreen.list = m.notes

	storyScreen := &screen{name: "Story", collection: core.Archive}
	m.story = presenter.NewStoryPresenter(storyScreen, repo)
	storyScreen.list = m.story

	m.screens = [2]*screen{notesScreen, storyScreen}

	if w, ok := repo.(core.Watchable); ok {
		if ch, err := w.Watch(ctx); err == nil {
			m.events = ch
		}
	}
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 50
	return ti
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, repo presenter.Repository) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(ctx, repo), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("jot"),
		load(tabNotes),
		load(tabStory),
		m.waitForEvent(),
	)
}

func load(tab int) tea.Cmd {
	return func() tea.Msg { return loadMsg{tab: tab} }
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-m.events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(e)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case loadMsg:
		m.lister(msg.tab).Load(m.ctx)
		return m, nil

	case eventMsg:
		// The visible tab already applied its own row deltas.
		if tab := tabFor(msg.Collection); tab != m.tab {
			m.lister(tab).Load(m.ctx)
		}
		return m, m.waitForEvent()

	case eventsClosedMsg:
		m.events = nil
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAdd(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.current()
	s.err = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Switch):
		m.tab = 1 - m.tab
		m.lister(m.tab).Load(m.ctx)

	case key.Matches(msg, m.keys.Up):
		s.move(-1)

	case key.Matches(msg, m.keys.Down):
		s.move(1)

	case key.Matches(msg, m.keys.Toggle):
		if s.list.Count() > 0 {
			s.list.Toggle(m.ctx, s.cursor)
		}

	case key.Matches(msg, m.keys.Delete):
		if s.list.Count() > 0 {
			s.list.Delete(m.ctx, s.cursor)
		}

	case key.Matches(msg, m.keys.Reload):
		s.list.Load(m.ctx)

	case key.Matches(msg, m.keys.Add):
		if m.tab != tabNotes {
			return m, nil
		}
		m.mode = modeAdd
		m.body.Blur()
		return m, tea.Batch(m.title.Focus(), textinput.Blink)
	}
	return m, nil
}

func (m *Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.screens[tabNotes]

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.closeForm()
		return m, nil

	case tea.KeyTab, tea.KeyShiftTab:
		return m, m.switchField()

	case tea.KeyEnter:
		if m.title.Focused() {
			return m, m.switchField()
		}
		title := strings.TrimSpace(m.title.Value())
		if title == "" {
			s.err = presenter.ErrorTitle + ": title is required"
			m.body.Blur()
			return m, m.title.Focus()
		}
		m.notes.Add(m.ctx, title, strings.TrimSpace(m.body.Value()))
		m.closeForm()
		return m, nil
	}

	var cmd tea.Cmd
	if m.title.Focused() {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

func (m *Model) switchField() tea.Cmd {
	if m.title.Focused() {
		m.title.Blur()
		return m.body.Focus()
	}
	m.body.Blur()
	return m.title.Focus()
}

func (m *Model) closeForm() {
	m.mode = modeList
	m.title.Reset()
	m.body.Reset()
	m.title.Blur()
	m.body.Blur()
}

func (m *Model) current() *screen {
	return m.screens[m.tab]
}

func (m *Model) lister(tab int) lister {
	return m.screens[tab].list
}

func tabFor(c core.Collection) int {
	if c == core.Archive {
		return tabStory
	}
	return tabNotes
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	tabs := make([]string, len(m.screens))
	for i, s := range m.screens {
		label := fmt.Sprintf("%s (%d)", s.name, s.list.Count())
		if i == m.tab {
			tabs[i] = m.styles.ActiveTab.Render(label)
		} else {
			tabs[i] = m.styles.InactiveTab.Render(label)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	s := m.current()
	switch {
	case s.loading:
		b.WriteString(m.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	case s.list.Count() == 0:
		b.WriteString(m.styles.Muted.Render(emptyText(m.tab)))
		b.WriteString("\n")
	default:
		m.renderRows(&b, s)
	}

	if s.err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(s.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.mode == modeAdd {
		b.WriteString(m.styles.Label.Render("New note"))
		b.WriteString("\n")
		b.WriteString(m.title.View())
		b.WriteString("\n")
		b.WriteString(m.body.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("enter: next/save • tab: switch field • esc: cancel"))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderRows(b *strings.Builder, s *screen) {
	titleStyle := m.styles.Title
	if s.collection == core.Archive {
		titleStyle = m.styles.Done
	}
	for i := range s.list.Count() {
		note, _ := s.list.NoteAt(i)
		cursor := "  "
		if i == s.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}
		fmt.Fprintf(b, "%s%s %s\n", cursor, presenter.Icon(note.Complete), titleStyle.Render(note.Title))
		if note.Body != "" {
			b.WriteString(m.styles.Body.Render(note.Body))
			b.WriteString("\n")
		}
	}
}

func emptyText(tab int) string {
	if tab == tabStory {
		return "Nothing finished yet."
	}
	return "No notes. Press a to add one."
}
