package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// DefaultSlot is the save slot used by local play.
const DefaultSlot = "default"

// SessionStore persists an unfinished game between runs.
type SessionStore interface {
	SaveState(slot string, data []byte) error
	LoadState(slot string) ([]byte, error)
	DeleteState(slot string) error
}

// StartSession resumes the game saved in slot, or starts a new one.
// It reports whether a saved game was resumed.
func StartSession(e *t2048.Engine, sessions SessionStore, slot string, logger *log.Logger) bool {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if sessions == nil {
		e.InitGame()
		return false
	}

	data, err := sessions.LoadState(slot)
	if err != nil {
		logger.Warn("cannot load saved game", "slot", slot, "err", err)
	}
	if data == nil {
		e.InitGame()
		return false
	}

	if _, err := e.Resume(data); err != nil {
		logger.Warn("saved game discarded", "slot", slot, "err", err)
		e.InitGame()
		return false
	}
	if e.Snapshot().Over {
		e.InitGame()
		return false
	}
	return true
}

// Model is the Bubble Tea model for a single 2048 session.
type Model struct {
	engine   *t2048.Engine
	sessions SessionStore
	slot     string
	logger   *log.Logger
	keys     GameKeyMap
	help     help.Model
	width    int
	height   int
	message  string
	quitting bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithSessionStore saves the game to slot on quit.
func WithSessionStore(s SessionStore, slot string) ModelOption {
	return func(m *Model) {
		m.sessions = s
		m.slot = slot
	}
}

// WithModelLogger sets the logger for save errors.
func WithModelLogger(l *log.Logger) ModelOption {
	return func(m *Model) { m.logger = l }
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) ModelOption {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// WithMessage sets the initial status line.
func WithMessage(msg string) ModelOption {
	return func(m *Model) { m.message = msg }
}

// NewModel creates a model around an initialized engine.
func NewModel(engine *t2048.Engine, opts ...ModelOption) Model {
	m := Model{
		engine: engine,
		slot:   DefaultSlot,
		keys:   DefaultGameKeyMap(),
		help:   help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	m.help.Width = m.width
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.saveSession()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		m.engine.Restart()
		m.message = "New game"
		return m, nil
	}

	snap := m.engine.Snapshot()
	if m.winPending() {
		if key.Matches(msg, m.keys.Continue) {
			m.engine.SetCanContinue(true)
			m.message = "Keep going!"
		}
		return m, nil
	}
	if snap.Over {
		return m, nil
	}

	d, ok := m.keys.Direction(msg)
	if !ok {
		return m, nil
	}

	wasWon := snap.Won
	if !m.engine.Move(d) {
		m.message = "Nothing moves " + d.String()
		return m, nil
	}
	m.message = ""

	after := m.engine.Snapshot()
	switch {
	case after.Over:
		m.message = "No moves left"
		m.clearSession()
	case after.Won && !wasWon:
		// Hold moves until the player chooses to keep going
		m.engine.SetCanContinue(false)
	}
	return m, nil
}

// winPending reports whether the win overlay is waiting for the player.
func (m Model) winPending() bool {
	snap := m.engine.Snapshot()
	return snap.Won && !snap.CanContinue && !snap.Over
}

func (m Model) saveSession() {
	if m.sessions == nil {
		return
	}
	if m.engine.Snapshot().Over {
		m.clearSession()
		return
	}
	data, err := m.engine.Save()
	if err != nil {
		m.logger.Error("cannot serialize game", "err", err)
		return
	}
	if err := m.sessions.SaveState(m.slot, data); err != nil {
		m.logger.Error("cannot save game", "slot", m.slot, "err", err)
	}
}

func (m Model) clearSession() {
	if m.sessions == nil {
		return
	}
	if err := m.sessions.DeleteState(m.slot); err != nil {
		m.logger.Error("cannot delete saved game", "slot", m.slot, "err", err)
	}
}

// Engine returns the engine driven by the model.
func (m Model) Engine() *t2048.Engine {
	return m.engine
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.engine.Snapshot()
	rules := m.engine.Rules()

	var b strings.Builder
	b.WriteString(renderHUD(snap, rules.WinTile))
	b.WriteString("\n\n")
	b.WriteString(renderBoard(snap.Grid))
	b.WriteString("\n")

	switch {
	case snap.Over:
		b.WriteString(renderOverlay(
			"GAME OVER",
			fmt.Sprintf("Score %d  Max tile %d", snap.Score, m.engine.Stats().MaxTile),
			"r: new game   q: quit",
		))
		b.WriteString("\n")
	case m.winPending():
		b.WriteString(renderOverlay(
			fmt.Sprintf("YOU REACHED %d!", rules.WinTile),
			"c: keep playing   r: new game",
		))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString(messageStyle.Render(m.message))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	if m.width == 0 || m.height == 0 {
		return b.String()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

// Run starts the Bubble Tea program for the given engine.
func Run(engine *t2048.Engine, opts ...ModelOption) error {
	p := tea.NewProgram(
		NewModel(engine, opts...),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
