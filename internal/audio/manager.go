package audio

import (
	"log/slog"
	"os"
	"sync"

	"github.com/aurora-ide/aurora-notify/internal/config"
	"github.com/aurora-ide/aurora-notify/internal/model"
)

// Manager plays the configured sound for each severity.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  *Player
	enabled bool
	sounds  map[model.Severity]string
}

// NewManager creates an audio manager from the configuration.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		logger: logger,
		player: NewPlayer(logger),
		sounds: make(map[model.Severity]string),
	}
	m.UpdateConfig(cfg)
	return m
}

// UpdateConfig applies a new configuration and re-resolves sound files.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}

	sounds := make(map[model.Severity]string)
	for _, severity := range model.Severities() {
		path := cfg.SoundFor(severity)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "severity", severity, "path", path)
			continue
		}
		if !SupportedFormat(path) {
			m.logger.Warn("unsupported sound file", "severity", severity, "path", path)
			continue
		}
		sounds[severity] = path
	}

	m.mu.Lock()
	m.enabled = cfg.Audio.Enabled
	m.sounds = sounds
	m.mu.Unlock()

	m.player.SetVolume(float64(cfg.Audio.Volume) / 100.0)
	m.player.ClearCache()

	m.logger.Debug("audio configured", "enabled", cfg.Audio.Enabled, "sounds", len(sounds))
}

// Preload decodes every configured sound so the first notification plays
// without delay.
func (m *Manager) Preload() {
	m.mu.RLock()
	enabled := m.enabled
	paths := make([]string, 0, len(m.sounds))
	for _, path := range m.sounds {
		paths = append(paths, path)
	}
	m.mu.RUnlock()

	if !enabled {
		return
	}
	for _, path := range paths {
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "path", path, "error", err)
		}
	}
}

// Sound returns the resolved sound file for a severity.
func (m *Manager) Sound(severity model.Severity) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path, ok := m.sounds[severity.Normalize()]
	return path, ok
}

// Enabled reports whether sounds are played at all.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// Play plays the sound for a severity. Failures are logged, never returned:
// a missing sound must not hold up the notification.
func (m *Manager) Play(severity model.Severity) {
	if !m.Enabled() {
		return
	}
	path, ok := m.Sound(severity)
	if !ok {
		return
	}
	if err := m.player.Play(path); err != nil {
		m.logger.Warn("failed to play sound", "severity", severity, "path", path, "error", err)
	}
}

// Close releases the audio device.
func (m *Manager) Close() {
	m.player.Close()
}
