package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aurora-ide/aurora-notify/internal/model"
)

// Shower is the part of Service the InternalNotifier needs.
type Shower interface {
	ShowNotification(message string, severity model.Severity, duration time.Duration) (string, error)
}

// InternalNotifier reports the host's own events (config reloads, theme
// errors) as notifications. Repeats of the same event are rate limited.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	target Shower
	now    func() time.Time

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	duration       time.Duration

	enabled bool
}

// NewInternalNotifier creates an InternalNotifier that shows through target.
func NewInternalNotifier(target Shower, logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		target:         target,
		now:            time.Now,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		duration:       5 * time.Second,
		enabled:        true,
	}
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between notifications with the
// same key.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify shows message unless a notification with the same key was shown
// within the minimum interval. It reports whether anything was shown.
func (n *InternalNotifier) Notify(key, message string, severity model.Severity) bool {
	n.mu.Lock()
	if !n.enabled || n.target == nil {
		n.mu.Unlock()
		return false
	}

	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal notification rate-limited", "key", key)
		return false
	}
	n.lastNotifyTime[key] = now
	target, duration := n.target, n.duration
	n.mu.Unlock()

	if _, err := target.ShowNotification(message, severity, duration); err != nil {
		n.logger.Debug("internal notification dropped", "key", key, "error", err)
		return false
	}
	return true
}

// NotifyStartup announces that the host is running.
func (n *InternalNotifier) NotifyStartup(version string) {
	n.Notify("startup", "Notification host "+version+" is running.", model.SeverityInfo)
}

// NotifyConfigReloaded reports a successful configuration reload.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify("config-reload", "Configuration reloaded.", model.SeveritySuccess)
}

// NotifyConfigError reports a configuration file that failed to load.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify("config-error", "Configuration error: "+err.Error(), model.SeverityWarning)
}

// NotifyThemeReloaded reports a successful theme reload.
func (n *InternalNotifier) NotifyThemeReloaded(name string) {
	n.Notify("theme-reload", "Theme '"+name+"' reloaded.", model.SeveritySuccess)
}

// NotifyThemeError reports a theme that failed to load.
func (n *InternalNotifier) NotifyThemeError(err error) {
	n.Notify("theme-error", "Theme error: "+err.Error(), model.SeverityError)
}
