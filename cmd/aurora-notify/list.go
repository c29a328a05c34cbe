package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurora-ide/aurora-notify/internal/dbus"
	"github.com/aurora-ide/aurora-notify/internal/output"
)

var listOpts struct {
	format   string
	template string
	noHeader bool
	maxLen   int
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the cards on screen",
	Long: `List every card the notification host is tracking, newest first.

Cards beyond the visible cap are included; their index is at or past the
configured max_visible.

Examples:
  aurora-notify list
  aurora-notify list --output json
  aurora-notify list --output plain --template '{{.Card.ID}} {{.Card.Severity}}'
  aurora-notify list --output ids | xargs -n1 aurora-notify dismiss`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOpts.format, "output", "o", "table",
		"Output format (table, plain, json, yaml, ids)")
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Go template for plain output")
	listCmd.Flags().BoolVar(&listOpts.noHeader, "no-header", false,
		"Omit the table header")
	listCmd.Flags().IntVar(&listOpts.maxLen, "max-len", output.DefaultFormatterOptions().MessageMaxLen,
		"Truncate messages to this many characters (0 = unlimited)")
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(listOpts.format)
	if err != nil {
		return err
	}
	if listOpts.template != "" && format == output.FormatTable {
		format = output.FormatPlain
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = listOpts.template
	opts.NoHeader = listOpts.noHeader
	opts.MessageMaxLen = listOpts.maxLen

	formatter, err := output.NewFormatter(format, opts)
	if err != nil {
		return err
	}

	return withClient(func(ctx context.Context, client *dbus.Client) error {
		cards, err := client.List(ctx)
		if err != nil {
			return err
		}
		logger.Debug("listed cards", "count", len(cards))

		if err := formatter.Format(cmd.OutOrStdout(), cards); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return nil
	})
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show which notification host is running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *dbus.Client) error {
			info, err := client.ServerInformation(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", info.Name, info.Version, info.Vendor)
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
