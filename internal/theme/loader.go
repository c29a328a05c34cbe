package theme

import (
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/aurora-ide/aurora-notify/internal/config"
)

// Loader applies the configured theme through a GTK CSS provider.
// Load and Apply must run on the GTK main thread.
type Loader struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	provider *gtk.CSSProvider
	dir      string
	theme    *Theme
}

// NewLoader creates a loader reading user themes from dir.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		provider: gtk.NewCSSProvider(),
		dir:      dir,
	}
}

// Load resolves a theme and loads it into the provider. On error the
// default theme is loaded and the error returned for reporting.
func (l *Loader) Load(name string) error {
	theme, err := Resolve(name, l.dir)
	if err != nil {
		l.logger.Warn("theme unavailable, using default", "theme", name, "error", err)
	}

	l.mu.Lock()
	l.theme = theme
	l.mu.Unlock()

	l.provider.LoadFromString(theme.CSS)
	l.logger.Info("loaded theme", "name", theme.Name, "path", theme.Path, "bundled", theme.Bundled)
	return err
}

// Apply installs the provider on a display.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}

	gtk.StyleContextAddProviderForDisplay(
		display,
		l.provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
}

// UpdateConfig reloads the theme named by cfg. The file is re-read even
// when the name is unchanged so edits are picked up.
func (l *Loader) UpdateConfig(cfg *config.Config) error {
	return l.Load(cfg.Theme.Name)
}

// Theme returns the loaded theme.
func (l *Loader) Theme() *Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}
