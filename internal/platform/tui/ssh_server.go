package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-tavern/internal/registry"
	"github.com/vovakirdan/tui-tavern/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tavern/host_key.
	HostKeyPath string

	// DBPath is the path to the tavern database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the frame rate of every session.
	TickRate int

	// SceneConfig overrides the built-in scene search order.
	SceneConfig string
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.tavern/tavern.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
	}
}

// SSHServer serves one tavern connection per SSH session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	online atomic.Int64 // Connections currently open
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tavern-ssh",
	})

	hostKeyPath, err := resolveHostKey(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		// Scenes still run; captures and session records are skipped
		logger.Warn("could not open tavern database", "error", err)
		store = nil
	}

	srv := &SSHServer{config: cfg, store: store, logger: logger}

	// Middlewares run last to first: logging wraps the PTY check, which
	// wraps the program.
	srv.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			activeterm.Middleware(),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	return srv, nil
}

// resolveHostKey returns the host key location, defaulting to
// ~/.tavern/host_key, and makes sure its directory exists. Wish generates
// the key on first start.
func resolveHostKey(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".tavern", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

// teaHandler builds the connection model of one SSH session. Styles are
// rendered with the client's colour profile, not the server's.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sshSession.Pty()

	model := NewConnectionModel(ConnectionConfig{
		Context:     sshSession.Context(),
		Store:       s.store,
		User:        sshSession.User(),
		TickRate:    s.config.TickRate,
		SceneConfig: s.config.SceneConfig,
		Logger:      s.logger.With("user", sshSession.User()),
		Renderer:    bubbletea.MakeRenderer(sshSession),
		Width:       pty.Window.Width,
		Height:      pty.Window.Height,
	})

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("connection opened",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"online", s.online.Add(1),
		)
		next(sshSession)
		s.logger.Info("connection closed",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
			"online", s.online.Add(-1),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

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

// ConnectionConfig describes one remote connection.
type ConnectionConfig struct {
	Context     context.Context // Cancelled when the connection drops
	Store       *storage.Store
	User        string
	TickRate    int
	SceneConfig string
	Logger      *log.Logger
	Renderer    *lipgloss.Renderer // Client colour profile; nil uses the local one
	Width       int
	Height      int
}

// activeScene tracks the scene a connection is playing so it can be
// stopped when the connection drops. It is shared by every copy of the
// connection model.
type activeScene struct {
	mu      sync.Mutex
	session *Session
}

func (a *activeScene) set(s *Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
}

// finish stops the current scene, if any, and records it.
func (a *activeScene) finish(store *storage.Store, reason string) {
	a.mu.Lock()
	s := a.session
	a.session = nil
	a.mu.Unlock()

	if s == nil {
		return
	}
	if err := s.Stop(); err != nil {
		reason = "error"
	}
	s.Record(store, reason)
}

// ConnectionModel manages the full flow of a connection: menu -> scene -> menu.
// This is the top-level model used for SSH sessions.
type ConnectionModel struct {
	cfg      ConnectionConfig
	active   *activeScene
	menu     MenuModel
	scene    *Model
	status   string
	quitting bool
}

// NewConnectionModel creates a new connection model. The running scene is
// stopped when cfg.Context is cancelled.
func NewConnectionModel(cfg ConnectionConfig) ConnectionModel {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	m := ConnectionModel{
		cfg:    cfg,
		active: &activeScene{},
	}
	m.menu = m.newMenu()

	go func(ctx context.Context, active *activeScene, store *storage.Store) {
		<-ctx.Done()
		active.finish(store, "disconnect")
	}(cfg.Context, m.active, cfg.Store)

	return m
}

// Init initializes the connection.
func (m ConnectionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the connection.
func (m ConnectionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.cfg.Width = wsm.Width
		m.cfg.Height = wsm.Height
	}

	if m.scene != nil {
		return m.updateScene(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m ConnectionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	// The history screen is local only
	if m.menu.WantsHistory() {
		m.menu = m.newMenu()
		return m, nil
	}

	if selected := m.menu.Selected(); selected != nil {
		session, err := m.startScene(selected.ID)
		if err != nil {
			m.status = fmt.Sprintf("cannot open %s: %v", selected.Title, err)
			m.menu = m.newMenu()
			return m, nil
		}

		scene := NewModel(session, m.cfg.Store, m.cfg.TickRate)
		scene.renderer = newRenderer(m.cfg.Renderer, session.Palette())
		scene.embedded = true
		scene.width, scene.height = m.cfg.Width, m.cfg.Height
		m.scene = &scene
		m.status = ""
		return m, m.scene.Init()
	}

	return m, cmd
}

func (m ConnectionModel) newMenu() MenuModel {
	return newMenuModel(m.cfg.Renderer, m.cfg.Width, m.cfg.Height)
}

func (m ConnectionModel) startScene(id string) (*Session, error) {
	scene, err := registry.Create(id, m.cfg.SceneConfig)
	if err != nil {
		return nil, err
	}
	session, err := NewSession(SessionConfig{
		Scene:    scene,
		TickRate: m.cfg.TickRate,
		User:     m.cfg.User,
		Logger:   m.cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	session.Start(m.cfg.Context)
	m.active.set(session)
	return session, nil
}

// updateScene handles updates while a scene is playing.
func (m ConnectionModel) updateScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scene.Update(msg)
	if sceneModel, ok := newModel.(Model); ok {
		m.scene = &sceneModel
	}

	if m.scene.BackToMenu() {
		if err := m.scene.Err(); err != nil {
			m.status = fmt.Sprintf("scene stopped: %v", err)
		}
		m.active.finish(m.cfg.Store, "quit")
		m.scene = nil
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	if m.scene.IsQuitting() {
		m.active.finish(m.cfg.Store, "quit")
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m ConnectionModel) View() string {
	if m.quitting {
		return ""
	}

	if m.scene != nil {
		return m.scene.View()
	}

	view := m.menu.View()
	if m.status != "" {
		view += "\n" + m.status + "\n"
	}
	return view
}
