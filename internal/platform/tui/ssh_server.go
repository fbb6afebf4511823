package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/sneakbit/internal/client"
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/engine"
	"github.com/vovakirdan/sneakbit/internal/metrics"
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/storage"
	"github.com/vovakirdan/sneakbit/internal/tilemap"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.sneakbit/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Engine is the configuration of every session's engine. Each SSH
	// user plays on the save data of the profile named after them.
	Engine      engine.Config
	TickRate    int
	SoundBuffer int
	Joystick    client.JoystickConfig
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Engine:      engine.DefaultConfig(),
		TickRate:    30,
	}
}

// SSHServer wraps a Wish SSH server running one engine per session.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	store   *storage.Store   // May be nil
	cache   *tilemap.Cache   // May be nil
	metrics *metrics.Metrics // May be nil
	logger  *log.Logger

	sessions *multiplayer.SessionRegistry
}

// sessionKey is the ssh.Context key of the multiplayer.SessionID.
type sessionKey struct{}

// SSHOption configures an SSHServer.
type SSHOption func(*SSHServer)

// WithStore keeps save data and match history in store.
func WithStore(store *storage.Store) SSHOption {
	return func(s *SSHServer) { s.store = store }
}

// WithCache shares one raster cache between sessions.
func WithCache(c *tilemap.Cache) SSHOption {
	return func(s *SSHServer) { s.cache = c }
}

// WithMetrics counts sessions and frames in m.
func WithMetrics(m *metrics.Metrics) SSHOption {
	return func(s *SSHServer) { s.metrics = m }
}

// WithServerLogger sets the logger.
func WithServerLogger(l *log.Logger) SSHOption {
	return func(s *SSHServer) { s.logger = l }
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, opts ...SSHOption) (*SSHServer, error) {
	srv := &SSHServer{config: cfg, sessions: multiplayer.NewSessionRegistry()}
	for _, opt := range opts {
		opt(srv)
	}
	if srv.logger == nil {
		srv.logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "sneakbit-ssh",
		})
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".sneakbit", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// gameSlot is the game currently running in one SSH session.
type gameSlot struct {
	mu   sync.Mutex
	game *Session
}

// set replaces the running game, closing the previous one.
func (g *gameSlot) set(s *Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.game != nil {
		//nolint:errcheck // Save data is flushed best-effort
		g.game.Close()
	}
	g.game = s
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	rt := core.DefaultConfig()
	rt.ScreenW = pty.Window.Width
	rt.ScreenH = pty.Window.Height
	rt.TickRate = s.config.TickRate

	// The game of a session is closed when the session ends.
	slot := &gameSlot{}
	sessionID, _ := sshSession.Context().Value(sessionKey{}).(multiplayer.SessionID)
	if sess, ok := s.sessions.Get(sessionID); ok {
		go func() {
			<-sess.Done()
			slot.set(nil)
		}()
	}

	factory := func(creative, newGame bool) (*Session, error) {
		cfg := s.config.Engine
		cfg.Profile = profileFor(sshSession.User())
		game, err := NewSession(SessionConfig{
			Engine:      cfg,
			Creative:    creative,
			NewGame:     newGame,
			Store:       s.store,
			Profile:     cfg.Profile,
			Cache:       s.cache,
			Metrics:     s.metrics,
			SoundBuffer: s.config.SoundBuffer,
			Logger:      s.logger.With("session", string(sessionID)),
			Joystick:    s.config.Joystick,
		})
		if err != nil {
			return nil, err
		}
		slot.set(game)
		return game, nil
	}

	model := NewSessionModel(s.store, profileFor(sshSession.User()), rt, factory, slot)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// profileFor returns the save data profile of an SSH user.
func profileFor(user string) string {
	if user == "" {
		return storage.DefaultProfile
	}
	return user
}

// sessionMiddleware registers SSH sessions, logs and counts them. Ending a
// session closes its game.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		sess := multiplayer.NewSession(multiplayer.SessionID(uuid.NewString()), sshSession.User(), time.Now())
		sshSession.Context().SetValue(sessionKey{}, sess.ID)
		s.sessions.Register(sess)
		s.logger.Info("session started",
			"session", string(sess.ID),
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"active", s.sessions.Count(),
		)
		if s.metrics != nil {
			s.metrics.SessionStarted()
			defer s.metrics.SessionEnded()
		}

		next(sshSession)

		s.sessions.Unregister(sess.ID)
		s.logger.Info("session ended",
			"session", string(sess.ID),
			"user", sshSession.User(),
			"duration", time.Since(sess.StartedAt).Round(time.Second),
		)
	}
}

// Sessions returns the connected sessions, oldest first.
func (s *SSHServer) Sessions() []*multiplayer.Session {
	return s.sessions.List()
}

// ListenAndServe starts the SSH server and blocks until a signal arrives
// or ctx is done.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.sessions.CloseAll()
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// GameFactory starts a game for the session.
type GameFactory func(creative, newGame bool) (*Session, error)

// SessionModel manages the full session flow: launcher -> game or history
// -> launcher.
type SessionModel struct {
	store   *storage.Store
	profile string
	config  core.RuntimeConfig
	factory GameFactory
	slot    *gameSlot

	menu     MenuModel
	history  *HistoryModel
	game     *Model
	errorMsg string
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, profile string, cfg core.RuntimeConfig, factory GameFactory, slot *gameSlot) SessionModel {
	return SessionModel{
		store:   store,
		profile: profile,
		config:  cfg,
		factory: factory,
		slot:    slot,
		menu:    NewMenuModel(store, profile, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch {
	case m.game != nil:
		return m.updateGame(msg)
	case m.history != nil:
		return m.updateHistory(msg)
	}
	return m.updateMenu(msg)
}

// backToMenu resets the launcher.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.game = nil
	m.history = nil
	m.menu = NewMenuModel(m.store, m.profile, m.config)
	return m, m.menu.Init()
}

// updateMenu handles updates when in the launcher. The launcher ends its own
// program with tea.Quit, which the session swallows.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	var creative, newGame bool
	switch m.menu.Choice() {
	case LaunchNone:
		return m, cmd
	case LaunchQuit:
		m.quitting = true
		return m, tea.Quit
	case LaunchHistory:
		h := NewHistoryModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.history = &h
		return m, h.Init()
	case LaunchNewGame:
		newGame = true
	case LaunchCreative:
		creative = true
	}

	game, err := m.factory(creative, newGame)
	if err != nil {
		m.errorMsg = err.Error()
		return m.backToMenu()
	}
	m.errorMsg = ""
	model := NewModel(game, creative, m.config)
	model.exitToMenu = true
	m.game = &model
	return m, model.Init()
}

// updateHistory handles updates when the match history is open.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.history.Update(msg)
	if h, ok := newModel.(HistoryModel); ok {
		m.history = &h
	}
	if m.history.IsGoingBack() {
		return m.backToMenu()
	}
	if m.history.quitting {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.BackToMenu() {
		m.slot.set(nil)
		return m.backToMenu()
	}
	if m.game.quitting {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	switch {
	case m.quitting:
		return ""
	case m.game != nil:
		return m.game.View()
	case m.history != nil:
		return m.history.View()
	}
	if m.errorMsg != "" {
		return m.menu.View() + "\n" + centerText(hudWarnStyle.Render(m.errorMsg), m.config.ScreenW)
	}
	return m.menu.View()
}
