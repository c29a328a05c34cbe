package daemon

import (
	"log/slog"

	"github.com/aurora-ide/aurora-notify/internal/config"
)

// ConfigHook receives each validated configuration after the service has
// applied it.
type ConfigHook func(cfg *config.Config) error

// Reloader applies configuration changes from a config.Watcher.
type Reloader struct {
	service  *Service
	notifier *InternalNotifier
	hooks    []ConfigHook
	logger   *slog.Logger
}

// NewReloader creates a Reloader. notifier may be nil.
func NewReloader(service *Service, notifier *InternalNotifier, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{service: service, notifier: notifier, logger: logger}
}

// AddHook registers a component that needs the new configuration, such as
// the audio manager or the theme loader.
func (r *Reloader) AddHook(hook ConfigHook) {
	r.hooks = append(r.hooks, hook)
}

// Bind registers the Reloader's callbacks on w.
func (r *Reloader) Bind(w *config.Watcher) {
	w.SetReloadCallback(r.Apply)
	w.SetErrorCallback(r.Fail)
}

// Apply pushes cfg to the service and every hook.
func (r *Reloader) Apply(cfg *config.Config) {
	if err := r.service.UpdateConfig(cfg); err != nil {
		r.logger.Warn("failed to apply configuration", "error", err)
		return
	}

	for _, hook := range r.hooks {
		if err := hook(cfg); err != nil {
			r.logger.Warn("configuration hook failed", "error", err)
			r.fail(err)
			return
		}
	}

	if r.notifier != nil {
		r.notifier.NotifyConfigReloaded()
	}
}

// Fail reports a configuration that could not be loaded. The running
// configuration stays in effect.
func (r *Reloader) Fail(err error) {
	r.logger.Warn("keeping previous configuration", "error", err)
	r.fail(err)
}

func (r *Reloader) fail(err error) {
	if r.notifier != nil {
		r.notifier.NotifyConfigError(err)
	}
}
