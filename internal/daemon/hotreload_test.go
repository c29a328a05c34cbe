package daemon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurora-ide/aurora-notify/internal/config"
	"github.com/aurora-ide/aurora-notify/internal/model"
	"github.com/aurora-ide/aurora-notify/internal/stack"
)

func TestReloader_Apply(t *testing.T) {
	h := newHarness(t, config.Default())
	target := &fakeShower{}
	notifier, _ := newTestNotifier(target)

	r := NewReloader(h.svc, notifier, nil)
	var hooked *config.Config
	r.AddHook(func(cfg *config.Config) error {
		hooked = cfg
		return nil
	})

	cfg := config.Default()
	cfg.Display.Gap = 20
	r.Apply(cfg)

	var opts stack.Options
	h.on(t, func() { opts = h.stack.Options() })
	assert.Equal(t, 20, opts.Gap)
	assert.Same(t, cfg, hooked)
	require.Len(t, target.shown, 1)
	assert.Equal(t, model.SeveritySuccess, target.shown[0].severity)
}

func TestReloader_HookFailure(t *testing.T) {
	h := newHarness(t, config.Default())
	target := &fakeShower{}
	notifier, _ := newTestNotifier(target)

	r := NewReloader(h.svc, notifier, nil)
	r.AddHook(func(*config.Config) error { return errors.New("theme not found") })
	r.Apply(config.Default())

	require.Len(t, target.shown, 1)
	assert.Equal(t, "Configuration error: theme not found", target.shown[0].message)
}

func TestReloader_Fail(t *testing.T) {
	target := &fakeShower{}
	notifier, _ := newTestNotifier(target)

	r := NewReloader(nil, notifier, nil)
	r.Fail(errors.New("volume must be between 0 and 100"))

	require.Len(t, target.shown, 1)
	assert.Equal(t, model.SeverityWarning, target.shown[0].severity)
}
