package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aurora-ide/aurora-notify/internal/dbus"
)

var dismissCmd = &cobra.Command{
	Use:   "dismiss ID",
	Short: "Dismiss a notification card",
	Long: `Dismiss a card by id, as if its close button had been clicked.

Unknown ids and cards that are already closing are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *dbus.Client) error {
			return client.Dismiss(ctx, args[0])
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Dismiss every notification card",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *dbus.Client) error {
			return client.Clear(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(dismissCmd)
	rootCmd.AddCommand(clearCmd)
}
