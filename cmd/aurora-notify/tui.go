package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aurora-ide/aurora-notify/internal/tui"
)

var tuiOpts struct {
	dbus    bool
	logFile string
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Host the notification stack in the terminal",
	Long: `Host the notification stack inside the terminal.

Cards stack in the bottom-left corner, newest at the bottom. Hovering a
card pauses its countdown and unpacks the stack; clicking its ✕ dismisses it.

With --dbus the stack is exported on the session bus, so "aurora-notify send"
from another shell posts into this terminal. Only one host can own the bus
name at a time.

Key bindings:
  s/e/w/i     Spawn a success/error/warning/info card
  m           Spawn a card with rich markup
  x, d        Dismiss the newest card
  c           Clear all cards
  tab         Pin the stack expanded
  ?           Show help
  q           Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().BoolVar(&tuiOpts.dbus, "dbus", false,
		"Export the stack on the session bus")
	tuiCmd.Flags().StringVar(&tuiOpts.logFile, "log-file", "",
		"Write logs to this file (the terminal is owned by the UI)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	tuiLogger, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, tui.RunOptions{
		Config:  cfg,
		Logger:  tuiLogger,
		Version: version,
		DBus:    tuiOpts.dbus,
	})
}

// tuiLogger returns a logger that stays off the terminal while the UI owns it.
func tuiLogger() (*slog.Logger, func(), error) {
	level := cfg.LogLevel()
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	if tuiOpts.logFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	f, err := os.OpenFile(tuiOpts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return l, func() { _ = f.Close() }, nil
}
