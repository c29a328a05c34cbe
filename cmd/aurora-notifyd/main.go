// Package main is the entry point for the aurora-notifyd notification host.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"golang.org/x/sync/errgroup"

	"github.com/aurora-ide/aurora-notify/internal/audio"
	"github.com/aurora-ide/aurora-notify/internal/config"
	"github.com/aurora-ide/aurora-notify/internal/daemon"
	"github.com/aurora-ide/aurora-notify/internal/dbus"
	"github.com/aurora-ide/aurora-notify/internal/display"
	"github.com/aurora-ide/aurora-notify/internal/model"
	"github.com/aurora-ide/aurora-notify/internal/stack"
	"github.com/aurora-ide/aurora-notify/internal/theme"
)

const appID = "org.aurora.notifyd"

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/aurora-notify/config.toml)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("aurora-notifyd version", version)
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		path = config.Path()
	}

	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	slog.SetDefault(logger)

	os.Exit(run(cfg, path, logger))
}

// run hosts the stack on the GTK main loop and returns the process exit
// status.
func run(cfg *config.Config, configPath string, logger *slog.Logger) int {
	logger.Info("starting aurora-notifyd", "version", version)

	app := adw.NewApplication(appID, 0)

	// Owned by the GTK main loop
	var (
		server         *dbus.Server
		displayManager *display.Manager
		audioManager   *audio.Manager
		running        atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	group, groupCtx := errgroup.WithContext(ctx)

	shutdown := func() {
		cancel()
		if displayManager != nil {
			displayManager.Stop()
			displayManager = nil
		}
		if server != nil {
			if err := server.Stop(); err != nil {
				logger.Warn("failed to stop D-Bus server", "error", err)
			}
			server = nil
		}
		if audioManager != nil {
			audioManager.Close()
			audioManager = nil
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			glib.IdleAdd(func() {
				if running.Load() {
					shutdown()
				}
				app.Quit()
			})
		case <-ctx.Done():
		}
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		themeLoader := theme.NewLoader(config.ThemesDir(), logger)
		if err := themeLoader.Load(cfg.Theme.Name); err != nil {
			logger.Warn("failed to load theme, using default", "error", err)
		}
		themeLoader.Apply(nil)

		audioManager = audio.NewManager(cfg, logger)
		audioManager.Preload()

		sched := display.NewScheduler()
		displayManager = display.NewManager(&app.Application, cfg, sched, logger)
		st := stack.New(sched, displayManager, cfg.StackOptions(), logger)
		displayManager.Bind(st)
		if err := displayManager.Start(); err != nil {
			logger.Error("failed to start display manager", "error", err)
			app.Quit()
			return
		}

		service := daemon.NewService(display.Post, st, cfg, logger)
		service.SetSounder(audioManager)

		server = dbus.NewServer(service, dbus.DefaultServerInfo(version), logger)
		if err := server.Start(); err != nil {
			logger.Error("failed to start D-Bus server", "error", err)
			server = nil
			app.Quit()
			return
		}
		emitter := server
		service.OnClosed(func(id string, reason model.CloseReason) {
			// Runs on the main loop; the bus write must not hold it up.
			go func() {
				if err := emitter.EmitNotificationClosed(id, reason); err != nil {
					logger.Debug("failed to emit close signal", "id", id, "error", err)
				}
			}()
		})

		notifier := daemon.NewInternalNotifier(service, logger)
		reloader := daemon.NewReloader(service, notifier, logger)

		sounds := audioManager
		reloader.AddHook(func(newConfig *config.Config) error {
			sounds.UpdateConfig(newConfig)
			return nil
		})

		popups := displayManager
		reloader.AddHook(func(newConfig *config.Config) error {
			// Theme and popups are GTK objects.
			glib.IdleAdd(func() {
				if err := themeLoader.UpdateConfig(newConfig); err != nil {
					notifier.NotifyThemeError(err)
				} else if newConfig.Theme.Name != cfg.Theme.Name {
					notifier.NotifyThemeReloaded(newConfig.Theme.Name)
				}
				cfg = newConfig
				if err := popups.UpdateConfig(newConfig); err != nil {
					logger.Warn("failed to apply display settings", "error", err)
				}
			})
			return nil
		})

		watcher, err := config.NewWatcher(configPath, logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else {
			reloader.Bind(watcher)
			group.Go(func() error {
				return watcher.Run(groupCtx)
			})
		}

		notifier.NotifyStartup(version)
		logger.Info("aurora-notifyd ready", "bus_name", dbus.BusName)

		// GTK apps quit when all windows are closed
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		shutdown()
		running.Store(false)
	})

	status := app.Run(os.Args[:1])

	cancel()
	if err := group.Wait(); err != nil {
		logger.Warn("background task failed", "error", err)
	}

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		return status
	}

	logger.Info("aurora-notifyd stopped")
	return 0
}
