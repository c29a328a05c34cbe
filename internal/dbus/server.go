package dbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/aurora-ide/aurora-notify/internal/model"
	"github.com/aurora-ide/aurora-notify/internal/stack"
)

// listTimeout bounds how long List waits for the UI thread.
const listTimeout = 2 * time.Second

// Backend is the notification host the server forwards to.
type Backend interface {
	ShowNotification(message string, severity model.Severity, duration time.Duration) (string, error)
	ShowMarkup(message string, severity model.Severity, duration time.Duration) (string, error)
	Dismiss(id string) error
	Clear() error
	List(ctx context.Context) ([]stack.CardInfo, error)
}

// Server implements the org.aurora.Notifications D-Bus interface.
type Server struct {
	backend Backend
	logger  *slog.Logger
	info    ServerInfo

	mu      sync.RWMutex
	conn    *dbus.Conn
	running bool
}

// NewServer creates a Server forwarding to backend.
func NewServer(backend Backend, info ServerInfo, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		backend: backend,
		logger:  logger,
		info:    info,
	}
}

// Start connects to the session bus and exports the service.
func (s *Server) Start() error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return s.StartOn(conn)
}

// StartOn exports the service on an existing connection.
func (s *Server) StartOn(conn *dbus.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	if err := conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: Path,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: methods(),
				Signals: signals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), Path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.conn = conn
	s.running = true

	s.logger.Info("D-Bus server started", "interface", Interface, "path", Path)
	return nil
}

// Stop releases the bus name. The shared session connection stays open.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(BusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	_ = s.conn.Export(nil, Path, Interface)

	s.logger.Info("D-Bus server stopped")
	return nil
}

// GetServerInformation returns information about the server.
// D-Bus method: GetServerInformation() -> (sss)
func (s *Server) GetServerInformation() (string, string, string, *dbus.Error) {
	return s.info.Name, s.info.Vendor, s.info.Version, nil
}

// Show displays a plain-text notification.
// D-Bus method: Show(s message, s severity, u duration_ms) -> s id
func (s *Server) Show(message, severity string, durationMS uint32) (string, *dbus.Error) {
	s.logger.Debug("Show called", "severity", severity, "duration_ms", durationMS)

	id, err := s.backend.ShowNotification(message, model.ParseSeverity(severity), msDuration(durationMS))
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return id, nil
}

// ShowMarkup displays a notification with inline markup.
// D-Bus method: ShowMarkup(s message, s severity, u duration_ms) -> s id
func (s *Server) ShowMarkup(message, severity string, durationMS uint32) (string, *dbus.Error) {
	s.logger.Debug("ShowMarkup called", "severity", severity, "duration_ms", durationMS)

	id, err := s.backend.ShowMarkup(message, model.ParseSeverity(severity), msDuration(durationMS))
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return id, nil
}

// Dismiss closes a notification by id.
// D-Bus method: Dismiss(s id)
func (s *Server) Dismiss(id string) *dbus.Error {
	s.logger.Debug("Dismiss called", "id", id)

	if err := s.backend.Dismiss(id); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// Clear closes every notification.
// D-Bus method: Clear()
func (s *Server) Clear() *dbus.Error {
	s.logger.Debug("Clear called")

	if err := s.backend.Clear(); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// List returns the current notifications, newest first.
// D-Bus method: List() -> a(ssssiuux)
func (s *Server) List() ([]WireCard, *dbus.Error) {
	ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
	defer cancel()

	cards, err := s.backend.List(ctx)
	if err != nil {
		return nil, dbus.MakeFailedError(err)
	}

	wire := make([]WireCard, 0, len(cards))
	for _, c := range cards {
		wire = append(wire, ToWire(c))
	}
	return wire, nil
}

func msDuration(ms uint32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func methods() []introspect.Method {
	show := []introspect.Arg{
		{Name: "message", Type: "s", Direction: "in"},
		{Name: "severity", Type: "s", Direction: "in"},
		{Name: "duration_ms", Type: "u", Direction: "in"},
		{Name: "id", Type: "s", Direction: "out"},
	}
	return []introspect.Method{
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "vendor", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
			},
		},
		{Name: "Show", Args: show},
		{Name: "ShowMarkup", Args: show},
		{
			Name: "Dismiss",
			Args: []introspect.Arg{
				{Name: "id", Type: "s", Direction: "in"},
			},
		},
		{Name: "Clear"},
		{
			Name: "List",
			Args: []introspect.Arg{
				{Name: "notifications", Type: "a(ssssiuux)", Direction: "out"},
			},
		},
	}
}

func signals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "NotificationClosed",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
				{Name: "reason", Type: "u"},
			},
		},
	}
}
