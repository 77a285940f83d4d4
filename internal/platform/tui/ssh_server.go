// Package tui provides the terminal UI for 2048, including SSH server support via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/scoring"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.t2048/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Rules apply to every session.
	Rules t2048.Rules

	// HistorySize caps the games returned by each session's history.
	HistorySize int

	// Logger defaults to a timestamped stderr logger.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.t2048/scores.db",
		IdleTimeout: 30 * time.Minute,
		Rules:       t2048.DefaultRules(),
		HistorySize: scoring.DefaultHistorySize,
	}
}

// SSHServer wraps a Wish SSH server. Every session plays its own game;
// the scores database is shared.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "t2048-ssh",
		})
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".t2048", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model, err := s.newSessionModel(sshSession.User(), pty.Window.Width, pty.Window.Height)
	if err != nil {
		s.logger.Error("cannot start session", "user", sshSession.User(), "error", err)
		return nil, nil
	}

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// newSessionModel wires an engine and tracker for one player.
func (s *SSHServer) newSessionModel(user string, width, height int) (SessionModel, error) {
	logger := s.logger.With("user", user)

	mem := scoring.NewMemoryRecorder()
	var (
		rec      scoring.Recorder = mem
		sessions SessionStore
		source   ScoreSource = mem
	)
	if s.store != nil {
		rec, sessions, source = s.store, s.store, s.store
	}

	tracker, err := scoring.NewTracker(rec,
		scoring.WithHistorySize(s.config.HistorySize),
		scoring.WithLogger(logger),
	)
	if err != nil {
		return SessionModel{}, err
	}

	engine := t2048.New(
		t2048.WithRules(s.config.Rules),
		t2048.WithScoreKeeper(tracker),
		t2048.WithLogger(logger),
	)

	slot := "ssh:" + user
	msg := ""
	if StartSession(engine, sessions, slot, logger) {
		msg = "Welcome back, " + user
	}

	game := NewModel(engine,
		WithSessionStore(sessions, slot),
		WithModelLogger(logger),
		WithSize(width, height),
		WithMessage(msg),
	)
	return NewSessionModel(game, source, width, height), nil
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel is the top-level model for SSH sessions: the game, with
// the scoreboard one key away.
type SessionModel struct {
	game       Model
	source     ScoreSource
	scores     ScoreboardModel
	showScores bool
	toggle     key.Binding
	width      int
	height     int
}

// NewSessionModel creates a new session model.
func NewSessionModel(game Model, source ScoreSource, width, height int) SessionModel {
	return SessionModel{
		game:   game,
		source: source,
		toggle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "scores"),
		),
		width:  width,
		height: height,
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.game.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
		// Both screens track the size
		g, _ := m.game.Update(msg)
		m.game = g.(Model)
		if m.showScores {
			sb, _ := m.scores.Update(msg)
			m.scores = sb.(ScoreboardModel)
		}
		return m, nil
	}

	if m.showScores {
		return m.updateScores(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.toggle) {
		m.scores = NewScoreboardModel(m.source, m.width, m.height)
		m.showScores = true
		return m, nil
	}

	g, cmd := m.game.Update(msg)
	m.game = g.(Model)
	return m, cmd
}

// updateScores handles updates while the scoreboard is shown.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.scores.keys.Back), key.Matches(km, m.toggle):
			m.showScores = false
			return m, nil
		case key.Matches(km, m.scores.keys.Quit):
			// Quit through the game so the session is saved
			g, cmd := m.game.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
			m.game = g.(Model)
			return m, cmd
		}
	}

	sb, cmd := m.scores.Update(msg)
	m.scores = sb.(ScoreboardModel)
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.showScores {
		return m.scores.View()
	}
	return m.game.View()
}
