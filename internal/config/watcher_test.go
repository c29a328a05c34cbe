package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)

	reloaded := make(chan *Config, 1)
	w.SetReloadCallback(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("[display]\nmax_visible = 6\n"), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 6, cfg.Display.MaxVisible)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestWatcher_ReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)

	failed := make(chan error, 1)
	w.SetReloadCallback(func(*Config) { t.Error("invalid config must not be applied") })
	w.SetErrorCallback(func(err error) {
		select {
		case failed <- err:
		default:
		}
	})

	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("[audio]\nvolume = 400\n"), 0644))

	select {
	case err := <-failed:
		assert.Contains(t, err.Error(), "volume")
	case <-time.After(5 * time.Second):
		t.Fatal("error callback was not invoked")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)

	reloaded := make(chan struct{}, 1)
	w.SetReloadCallback(func(*Config) {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0644))

	select {
	case <-reloaded:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.toml"), nil)
	require.NoError(t, err)

	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
