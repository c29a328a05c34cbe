package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurora-ide/aurora-notify/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "bottom-left", cfg.Display.Position)
	assert.Equal(t, 3, cfg.Display.MaxVisible)
	assert.Equal(t, 12, cfg.Display.Gap)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Default.Duration())
	assert.Equal(t, 200*time.Millisecond, cfg.Timeouts.Exit.Duration())
	assert.True(t, cfg.Behavior.PauseOnHover)
	assert.True(t, cfg.Behavior.ExpandOnHover)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, "default", cfg.Theme.Name)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ParsesTOML(t *testing.T) {
	path := writeConfig(t, `
[display]
position = "top-right"
offset_x = 8
width = 320
card_height = 64
gap = 4
max_visible = 5

[timeouts]
default = "8s"
exit = 150

[behavior]
pause_on_hover = false
expand_on_hover = false
allow_markup = false

[audio]
enabled = true
volume = 40

[audio.sounds]
error = "/usr/share/sounds/error.wav"

[theme]
name = "midnight"
color_scheme = "dark"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "top-right", cfg.Display.Position)
	assert.Equal(t, 8, cfg.Display.OffsetX)
	assert.Equal(t, 24, cfg.Display.OffsetY)
	assert.Equal(t, 320, cfg.Display.Width)
	assert.Equal(t, 64, cfg.Display.CardHeight)
	assert.Equal(t, 4, cfg.Display.Gap)
	assert.Equal(t, 5, cfg.Display.MaxVisible)
	assert.Equal(t, 8*time.Second, cfg.Timeouts.Default.Duration())
	assert.Equal(t, 150*time.Millisecond, cfg.Timeouts.Exit.Duration())
	assert.False(t, cfg.Behavior.PauseOnHover)
	assert.False(t, cfg.Behavior.ExpandOnHover)
	assert.False(t, cfg.Behavior.AllowMarkup)
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, 40, cfg.Audio.Volume)
	assert.Equal(t, "/usr/share/sounds/error.wav", cfg.SoundFor(model.SeverityError))
	assert.Empty(t, cfg.SoundFor(model.SeverityInfo))
	assert.Equal(t, "midnight", cfg.Theme.Name)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoad_PartialConfig(t *testing.T) {
	path := writeConfig(t, `
[display]
max_visible = 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Display.MaxVisible)
	assert.Equal(t, "bottom-left", cfg.Display.Position)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Default.Duration())
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, `this is not valid toml [`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
[timeouts]
default = "soon"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_FailsValidation(t *testing.T) {
	path := writeConfig(t, `
[display]
max_visible = 0
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_visible")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad position", func(c *Config) { c.Display.Position = "middle" }, "position"},
		{"narrow", func(c *Config) { c.Display.Width = 50 }, "width"},
		{"wide", func(c *Config) { c.Display.Width = 2000 }, "width"},
		{"no height", func(c *Config) { c.Display.CardHeight = 0 }, "card_height"},
		{"too many visible", func(c *Config) { c.Display.MaxVisible = 21 }, "max_visible"},
		{"negative gap", func(c *Config) { c.Display.Gap = -1 }, "gap"},
		{"zero timeout", func(c *Config) { c.Timeouts.Default = 0 }, "default timeout"},
		{"negative exit", func(c *Config) { c.Timeouts.Exit = Duration(-time.Second) }, "exit timeout"},
		{"loud", func(c *Config) { c.Audio.Volume = 101 }, "volume"},
		{"bad scheme", func(c *Config) { c.Theme.ColorScheme = "sepia" }, "color_scheme"},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, "log level"},
		{"upper log level", func(c *Config) { c.Log.Level = "WARN" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "config.toml")

	cfg := Default()
	cfg.Display.MaxVisible = 7
	cfg.Timeouts.Default = Duration(90 * time.Second)
	cfg.Audio.Sounds.Warning = "/tmp/warn.ogg"

	require.NoError(t, cfg.Save(path))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestStackOptions(t *testing.T) {
	cfg := Default()
	cfg.Display.MaxVisible = 2
	cfg.Display.Gap = 6
	cfg.Timeouts.Default = Duration(3 * time.Second)
	cfg.Behavior.PauseOnHover = false

	opts := cfg.StackOptions()
	assert.Equal(t, 2, opts.MaxVisible)
	assert.Equal(t, 6, opts.Gap)
	assert.Equal(t, 3*time.Second, opts.DefaultDuration)
	assert.False(t, opts.PauseOnHover)
}

func TestSoundFor_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := Default()
	cfg.Audio.Sounds.Success = "~/sounds/ok.wav"
	assert.Equal(t, filepath.Join(home, "sounds", "ok.wav"), cfg.SoundFor(model.SeveritySuccess))
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"5s", 5 * time.Second, false},
		{"250ms", 250 * time.Millisecond, false},
		{"1m30s", 90 * time.Second, false},
		{"1500", 1500 * time.Millisecond, false},
		{"0", 0, false},
		{"later", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/aurora-notify/config.toml", Path())
	assert.Equal(t, "/custom/config/aurora-notify/themes", ThemesDir())
}

func TestPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, Path(), filepath.Join(".config", "aurora-notify", "config.toml"))
}

func TestPosition_Bottom(t *testing.T) {
	assert.True(t, PositionBottomLeft.Bottom())
	assert.True(t, PositionBottomCenter.Bottom())
	assert.False(t, PositionTopRight.Bottom())
}
