package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aurora-ide/aurora-notify/internal/audio"
	"github.com/aurora-ide/aurora-notify/internal/config"
	"github.com/aurora-ide/aurora-notify/internal/daemon"
	"github.com/aurora-ide/aurora-notify/internal/dbus"
	"github.com/aurora-ide/aurora-notify/internal/eventloop"
	"github.com/aurora-ide/aurora-notify/internal/model"
)

// RunOptions configures the TUI.
type RunOptions struct {
	Config  *config.Config
	Logger  *slog.Logger
	Version string

	// DBus exports the stack on the session bus so other processes can
	// post notifications into the terminal.
	DBus bool
}

// program forwards callbacks into a running tea.Program.
type program struct {
	p       atomic.Pointer[tea.Program]
	stopped atomic.Bool
}

// post delivers fn to the update loop. It blocks until the loop accepts
// the message, so it must not be called from the loop itself.
func (p *program) post(fn func()) bool {
	prog := p.p.Load()
	if prog == nil || p.stopped.Load() {
		return false
	}
	prog.Send(runMsg(fn))
	return !p.stopped.Load()
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var prog program
	// Timers fire on their own goroutines; hand-off must not block them.
	sched := eventloop.NewRealtime(func(fn func()) {
		go prog.post(fn)
	})

	var sounds *audio.Manager
	if cfg.Audio.Enabled {
		sounds = audio.NewManager(cfg, logger)
		defer sounds.Close()
	}

	m := New(cfg, sched, logger)
	if sounds != nil {
		m = m.WithSounder(sounds)
	}
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	prog.p.Store(p)

	if opts.DBus {
		service := daemon.NewService(prog.post, m.Stack(), cfg, logger)
		if sounds != nil {
			service.SetSounder(sounds)
		}

		server := dbus.NewServer(service, dbus.DefaultServerInfo(opts.Version), logger)
		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to export notification service: %w", err)
		}
		defer func() {
			if err := server.Stop(); err != nil {
				logger.Warn("failed to stop D-Bus server", "error", err)
			}
		}()

		service.OnClosed(func(id string, reason model.CloseReason) {
			// Runs on the update loop; the bus call must not hold it up.
			go func() {
				if err := server.EmitNotificationClosed(id, reason); err != nil {
					logger.Debug("failed to emit close signal", "id", id, "error", err)
				}
			}()
		})
	}

	_, err := p.Run()
	prog.stopped.Store(true)

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
