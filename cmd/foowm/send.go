package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/footron/foowm/internal/command"
	"github.com/footron/foowm/internal/policy"
)

var (
	sendTimeout  time.Duration
	afterFlag    int64
	beforeFlag   int64
	includeFlags []string

	successColor = color.New(color.FgGreen, color.Bold)
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a control message to a running window manager",
	Long: `Publishes one control message on the control channel. Messages are
fire-and-forget: the window manager never replies, and an invalid message is
logged and dropped on its side.`,
}

var sendLayoutCmd = &cobra.Command{
	Use:       "layout <full|fit4k|production>",
	Short:     "Switch the display layout",
	Args:      cobra.ExactArgs(1),
	ValidArgs: layoutNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := policy.ParseLayout(args[0])
		if err != nil {
			return err
		}
		msg := command.LayoutMessage{Type: command.MessageLayout, Layout: string(layout)}
		if cmd.Flags().Changed("after") {
			msg.After = &afterFlag
		}
		return send(cmd, msg)
	},
}

var sendClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Close viewport content created before a cutoff",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		msg := command.ClearViewportMessage{Type: command.MessageClearViewport, Before: beforeFlag}
		if !cmd.Flags().Changed("before") {
			msg.Before = time.Now().UnixMilli()
		}
		for _, name := range includeFlags {
			typ, err := policy.ParseClientType(name)
			if err != nil {
				return err
			}
			msg.Include = append(msg.Include, string(typ))
		}
		return send(cmd, msg)
	},
}

func init() {
	sendCmd.PersistentFlags().DurationVar(&sendTimeout, "timeout", 2*time.Second, "Give up if the message cannot be sent in time")

	sendLayoutCmd.Flags().Int64Var(&afterFlag, "after", 0, "Only resize content created after this time (Unix milliseconds)")
	sendClearCmd.Flags().Int64Var(&beforeFlag, "before", 0, "Close content created at or before this time (Unix milliseconds, default now)")
	sendClearCmd.Flags().StringSliceVar(&includeFlags, "include", nil, "Client types to close (default from the window manager config)")

	sendCmd.AddCommand(sendLayoutCmd)
	sendCmd.AddCommand(sendClearCmd)
}

func send(cmd *cobra.Command, msg any) error {
	res, err := loadConfig()
	if err != nil {
		return err
	}
	endpoint := res.Config.Endpoint
	if cmd.Flags().Changed("endpoint") {
		endpoint = endpointFlag
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := command.Send(ctx, endpoint, msg); err != nil {
		return err
	}
	successColor.Fprint(cmd.OutOrStdout(), "sent")
	fmt.Fprintf(cmd.OutOrStdout(), " to %s\n", endpoint)
	return nil
}

func layoutNames() []string {
	names := make([]string, len(policy.Layouts))
	for i, l := range policy.Layouts {
		names[i] = string(l)
	}
	return names
}
