package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aurora-ide/aurora-notify/internal/config"
	"github.com/aurora-ide/aurora-notify/internal/model"
	"github.com/aurora-ide/aurora-notify/internal/stack"
)

// ErrStopped is returned when the UI thread no longer accepts work.
var ErrStopped = errors.New("notification host stopped")

// PostFunc schedules fn on the goroutine that owns the stack. It reports
// false if fn will never run.
type PostFunc func(fn func()) bool

// Sounder plays a sound for a newly shown notification.
type Sounder interface {
	Play(severity model.Severity)
}

// ClosedFunc observes cards leaving the stack. It runs on the stack's
// goroutine and must not block.
type ClosedFunc func(id string, reason model.CloseReason)

// Service is the goroutine-safe front of a Stack.
type Service struct {
	post   PostFunc
	stack  *stack.Stack
	logger *slog.Logger

	mu          sync.RWMutex
	allowMarkup bool
	sounder     Sounder
	onClosed    []ClosedFunc
}

// NewService creates a Service for st. It must be called before the
// owning goroutine starts processing posted work.
func NewService(post PostFunc, st *stack.Stack, cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Service{
		post:        post,
		stack:       st,
		logger:      logger,
		allowMarkup: cfg.Behavior.AllowMarkup,
	}
	st.OnClosed(s.closed)
	return s
}

// SetSounder sets the sound player. A nil Sounder disables sounds.
func (s *Service) SetSounder(sounder Sounder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sounder = sounder
}

// OnClosed registers fn to be told about every card that leaves the stack.
func (s *Service) OnClosed(fn ClosedFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClosed = append(s.onClosed, fn)
}

// ShowNotification queues a plain-text notification and returns the id it
// will carry. The card is created asynchronously on the UI thread.
func (s *Service) ShowNotification(message string, severity model.Severity, duration time.Duration) (string, error) {
	return s.push(stack.Notification{Message: message, Severity: severity, Duration: duration})
}

// ShowMarkup queues a rich-text notification. When markup is disabled in
// the configuration the message is shown as plain text.
func (s *Service) ShowMarkup(message string, severity model.Severity, duration time.Duration) (string, error) {
	s.mu.RLock()
	allow := s.allowMarkup
	s.mu.RUnlock()

	return s.push(stack.Notification{Message: message, Markup: allow, Severity: severity, Duration: duration})
}

func (s *Service) push(n stack.Notification) (string, error) {
	n.ID = model.NewID()
	n.Severity = n.Severity.Normalize()

	if !s.post(func() { s.stack.Push(n) }) {
		return "", ErrStopped
	}

	s.mu.RLock()
	sounder := s.sounder
	s.mu.RUnlock()
	if sounder != nil {
		sounder.Play(n.Severity)
	}

	s.logger.Debug("notification queued", "id", n.ID, "severity", n.Severity, "markup", n.Markup)
	return n.ID, nil
}

// Dismiss closes a card as if the user had clicked its close button.
func (s *Service) Dismiss(id string) error {
	return s.do(func() { s.stack.Dismiss(id) })
}

// Close closes a card programmatically.
func (s *Service) Close(id string) error {
	return s.do(func() { s.stack.Close(id) })
}

// Clear closes every card.
func (s *Service) Clear() error {
	return s.do(s.stack.Clear)
}

// List returns the current cards, newest first.
func (s *Service) List(ctx context.Context) ([]stack.CardInfo, error) {
	result := make(chan []stack.CardInfo, 1)
	if !s.post(func() { result <- s.stack.Snapshot() }) {
		return nil, ErrStopped
	}

	select {
	case cards := <-result:
		return cards, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// UpdateConfig applies a reloaded configuration to the running stack.
func (s *Service) UpdateConfig(cfg *config.Config) error {
	s.mu.Lock()
	s.allowMarkup = cfg.Behavior.AllowMarkup
	s.mu.Unlock()

	opts := cfg.StackOptions()
	return s.do(func() { s.stack.Reconfigure(opts) })
}

func (s *Service) do(fn func()) error {
	if !s.post(fn) {
		return ErrStopped
	}
	return nil
}

// closed runs on the stack's goroutine.
func (s *Service) closed(c *stack.Card, reason model.CloseReason) {
	s.mu.RLock()
	handlers := make([]ClosedFunc, len(s.onClosed))
	copy(handlers, s.onClosed)
	s.mu.RUnlock()

	for _, fn := range handlers {
		fn(c.ID, reason)
	}
}
