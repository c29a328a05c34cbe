package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aurora-ide/aurora-notify/internal/dbus"
	"github.com/aurora-ide/aurora-notify/internal/model"
)

var sendOpts struct {
	severity string
	duration time.Duration
	markup   bool
	wait     bool
}

var sendCmd = &cobra.Command{
	Use:   "send MESSAGE",
	Short: "Show a notification card",
	Long: `Show a notification card on the running notification host.

The id of the new card is printed on stdout. With --markup the message may
use inline tags such as <b>, <i>, <u>, <s> and <code>; other tags are dropped
and their text kept.

Examples:
  aurora-notify send "Build finished" --severity success
  aurora-notify send "Indexing <b>42</b> files" --markup --duration 10s
  aurora-notify send "Deploy failed" --severity error --wait`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendOpts.severity, "severity", "s", "info",
		"Severity (success, error, warning, info)")
	sendCmd.Flags().DurationVarP(&sendOpts.duration, "duration", "d", 0,
		"How long the card stays up (0 = configured default)")
	sendCmd.Flags().BoolVar(&sendOpts.markup, "markup", false,
		"Interpret inline markup in MESSAGE")
	sendCmd.Flags().BoolVarP(&sendOpts.wait, "wait", "w", false,
		"Block until the card closes and print why")
}

func runSend(cmd *cobra.Command, args []string) error {
	severity, err := parseSeverity(sendOpts.severity)
	if err != nil {
		return err
	}
	if sendOpts.duration < 0 {
		return fmt.Errorf("--duration must not be negative")
	}

	if !sendOpts.wait {
		return withClient(func(ctx context.Context, client *dbus.Client) error {
			id, err := send(ctx, client, args[0], severity)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := dbus.NewClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	subscribe := func(ctx context.Context) (closedSource, error) {
		sub, err := client.SubscribeClosed(ctx)
		if err != nil {
			return nil, err
		}
		return sub, nil
	}
	show := func(ctx context.Context) (string, error) {
		return send(ctx, client, args[0], severity)
	}
	return sendAndWait(ctx, cmd.OutOrStdout(), subscribe, show)
}

// closedSource yields NotificationClosed events in arrival order.
type closedSource interface {
	Next(ctx context.Context) (string, model.CloseReason, error)
	Close() error
}

// sendAndWait subscribes before showing so a short-lived card cannot close
// unseen, then blocks until that card's close event arrives.
func sendAndWait(
	ctx context.Context,
	out io.Writer,
	subscribe func(context.Context) (closedSource, error),
	show func(context.Context) (string, error),
) error {
	sub, err := subscribe(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sub.Close() }()

	callCtx, callCancel := context.WithTimeout(ctx, callTimeout)
	id, err := show(callCtx)
	callCancel()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, id)

	for {
		closedID, reason, err := sub.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if closedID == id {
			fmt.Fprintln(out, reason)
			return nil
		}
	}
}

func send(ctx context.Context, client *dbus.Client, message string, severity model.Severity) (string, error) {
	if sendOpts.markup {
		return client.ShowMarkup(ctx, message, severity, sendOpts.duration)
	}
	return client.Show(ctx, message, severity, sendOpts.duration)
}

// parseSeverity is stricter than model.ParseSeverity: a typo on the command
// line is an error rather than a silent info card.
func parseSeverity(s string) (model.Severity, error) {
	severity := model.Severity(strings.ToLower(strings.TrimSpace(s)))
	if !severity.Valid() {
		return "", fmt.Errorf("unknown severity %q (valid: success, error, warning, info)", s)
	}
	return severity, nil
}
