// Package tui implements the terminal dictation client: capture speech
// through the local recognizer, edit the transcript, and submit it for
// analysis.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/diarioapp/diario/internal/model"
	"github.com/diarioapp/diario/internal/speech"
)

const refreshInterval = 200 * time.Millisecond

// State represents the current state of the TUI.
type State int

// TUI states.
const (
	StateIdle State = iota
	StateEditing
	StateSubmitting
)

// Config wires the dictation model's dependencies.
type Config struct {
	Session   *speech.Session
	Submitter Submitter
}

// Model holds the dictation TUI state.
type Model struct {
	session   *speech.Session
	submitter Submitter
	editor    textarea.Model
	spinner   spinner.Model
	keymap    KeyMap
	cards     []model.Card
	lastError error
	state     State
	width     int
	height    int
	quitting  bool
}

// NewModel creates the dictation model.
func NewModel(cfg Config) Model {
	editor := textarea.New()
	editor.Placeholder = "Dictate or type your journal entry..."
	editor.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusStyle

	return Model{
		session:   cfg.Session,
		submitter: cfg.Submitter,
		editor:    editor,
		spinner:   sp,
		keymap:    DefaultKeyMap(),
		state:     StateIdle,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.spinner.Tick)
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(msg.Width - 6)
		return m, nil

	case tea.FocusMsg:
		m.session.Resume()
		return m, nil

	case tea.BlurMsg:
		m.session.Suspend()
		return m, nil

	case tickMsg:
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submitResultMsg:
		m.state = StateIdle
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.lastError = nil
		m.cards = msg.cards
		m.session.Reset()
		m.editor.SetValue("")
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == StateEditing {
		if key.Matches(msg, m.keymap.Back) {
			m.session.SetText(m.editor.Value())
			m.editor.Blur()
			m.state = StateIdle
			return m, nil
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		m.session.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Record):
		if m.state == StateSubmitting {
			return m, nil
		}
		if m.session.IsListening() {
			m.session.Stop()
		} else {
			m.session.Start()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Edit):
		if m.state == StateSubmitting {
			return m, nil
		}
		m.session.Stop()
		m.editor.SetValue(m.session.Text())
		m.editor.Focus()
		m.state = StateEditing
		return m, nil

	case key.Matches(msg, m.keymap.Clear):
		if m.state == StateSubmitting {
			return m, nil
		}
		m.session.Reset()
		m.cards = nil
		m.lastError = nil
		return m, nil

	case key.Matches(msg, m.keymap.Submit):
		// One submission at a time; re-submission stays disabled until
		// the outstanding one resolves.
		if m.state == StateSubmitting || m.session.Text() == "" {
			return m, nil
		}
		m.session.Stop()
		m.state = StateSubmitting
		m.lastError = nil
		return m, m.submit(m.session.Text())
	}

	return m, nil
}

func (m Model) submit(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		cards, err := m.submitter.Submit(ctx, text)
		return submitResultMsg{cards: cards, err: err}
	}
}
