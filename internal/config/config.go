// Package config handles configuration file loading and parsing.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/aurora-ide/aurora-notify/internal/model"
	"github.com/aurora-ide/aurora-notify/internal/stack"
)

// Config is the notification host configuration.
// Loaded from ~/.config/aurora-notify/config.toml
type Config struct {
	Display  DisplayConfig  `toml:"display"`
	Timeouts TimeoutConfig  `toml:"timeouts"`
	Behavior BehaviorConfig `toml:"behavior"`
	Audio    AudioConfig    `toml:"audio"`
	Theme    ThemeConfig    `toml:"theme"`
	Log      LogConfig      `toml:"log"`
}

// DisplayConfig contains placement and geometry settings.
type DisplayConfig struct {
	Position   string `toml:"position"`    // "bottom-left", "top-right", etc.
	OffsetX    int    `toml:"offset_x"`    // Pixels from screen edge
	OffsetY    int    `toml:"offset_y"`    // Pixels from screen edge
	Width      int    `toml:"width"`       // Card width in pixels
	CardHeight int    `toml:"card_height"` // Card height in pixels
	Gap        int    `toml:"gap"`         // Gap between stacked cards
	MaxVisible int    `toml:"max_visible"` // Cards shown before older ones are hidden
}

// TimeoutConfig contains countdown and animation durations.
type TimeoutConfig struct {
	Default Duration `toml:"default"` // Lifetime when the sender gives none
	Exit    Duration `toml:"exit"`    // Length of the exit animation
}

// BehaviorConfig contains interaction settings.
type BehaviorConfig struct {
	PauseOnHover  bool `toml:"pause_on_hover"`  // Freeze a card's countdown while hovered
	ExpandOnHover bool `toml:"expand_on_hover"` // Unpack the collapsed stack while hovered
	AllowMarkup   bool `toml:"allow_markup"`    // Honour rich text from ShowMarkup
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled"`
	Volume  int         `toml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds"`
}

// SoundConfig contains per-severity sound file paths.
type SoundConfig struct {
	Success string `toml:"success"`
	Error   string `toml:"error"`
	Warning string `toml:"warning"`
	Info    string `toml:"info"`
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name        string `toml:"name"`         // Theme name without .css extension
	ColorScheme string `toml:"color_scheme"` // "system", "light", or "dark"
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}

// Position represents the screen corner the stack grows from.
type Position string

const (
	PositionTopLeft      Position = "top-left"
	PositionTopRight     Position = "top-right"
	PositionTopCenter    Position = "top-center"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomCenter Position = "bottom-center"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopRight,
		PositionTopCenter,
		PositionBottomLeft,
		PositionBottomRight,
		PositionBottomCenter,
	}
}

// Bottom reports whether the stack is anchored to the bottom edge.
func (p Position) Bottom() bool {
	return strings.HasPrefix(string(p), "bottom-")
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Default returns a new Config with default values.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Position:   string(PositionBottomLeft),
			OffsetX:    24,
			OffsetY:    24,
			Width:      400,
			CardHeight: 88,
			Gap:        stack.DefaultGap,
			MaxVisible: stack.DefaultMaxVisible,
		},
		Timeouts: TimeoutConfig{
			Default: Duration(stack.DefaultDuration),
			Exit:    Duration(200 * time.Millisecond),
		},
		Behavior: BehaviorConfig{
			PauseOnHover:  true,
			ExpandOnHover: true,
			AllowMarkup:   true,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
		},
		Theme: ThemeConfig{
			Name:        "default",
			ColorScheme: string(ColorSchemeSystem),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns the configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "aurora-notify")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// ThemesDir returns the directory holding user theme overrides.
func ThemesDir() string {
	return filepath.Join(Dir(), "themes")
}

// Load loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns the default configuration if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(ValidPositions(), Position(c.Display.Position)) {
		return fmt.Errorf("invalid position %q, must be one of: %v", c.Display.Position, ValidPositions())
	}

	if c.Display.Width < 100 || c.Display.Width > 1000 {
		return fmt.Errorf("width must be between 100 and 1000, got %d", c.Display.Width)
	}
	if c.Display.CardHeight < 1 {
		return fmt.Errorf("card_height must be positive, got %d", c.Display.CardHeight)
	}
	if c.Display.MaxVisible < 1 || c.Display.MaxVisible > 20 {
		return fmt.Errorf("max_visible must be between 1 and 20, got %d", c.Display.MaxVisible)
	}
	if c.Display.Gap < 0 {
		return fmt.Errorf("gap must not be negative, got %d", c.Display.Gap)
	}

	if c.Timeouts.Default.Duration() <= 0 {
		return fmt.Errorf("default timeout must be positive, got %s", c.Timeouts.Default.Duration())
	}
	if c.Timeouts.Exit.Duration() < 0 {
		return fmt.Errorf("exit timeout must not be negative, got %s", c.Timeouts.Exit.Duration())
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	if !slices.Contains(ValidColorSchemes(), ColorScheme(c.Theme.ColorScheme)) {
		return fmt.Errorf("invalid color_scheme %q, must be one of: %v", c.Theme.ColorScheme, ValidColorSchemes())
	}

	if _, ok := logLevels[strings.ToLower(c.Log.Level)]; !ok {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	return nil
}

// StackOptions maps the configuration onto the stack's options.
func (c *Config) StackOptions() stack.Options {
	return stack.Options{
		MaxVisible:      c.Display.MaxVisible,
		Gap:             c.Display.Gap,
		DefaultDuration: c.Timeouts.Default.Duration(),
		PauseOnHover:    c.Behavior.PauseOnHover,
	}
}

// LogLevel returns the configured slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	if level, ok := logLevels[strings.ToLower(c.Log.Level)]; ok {
		return level
	}
	return slog.LevelInfo
}

// SoundFor returns the sound file for a severity, with ~ expanded.
// Empty means no sound.
func (c *Config) SoundFor(severity model.Severity) string {
	var path string
	switch severity.Normalize() {
	case model.SeveritySuccess:
		path = c.Audio.Sounds.Success
	case model.SeverityError:
		path = c.Audio.Sounds.Error
	case model.SeverityWarning:
		path = c.Audio.Sounds.Warning
	default:
		path = c.Audio.Sounds.Info
	}
	return expandPath(path)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
