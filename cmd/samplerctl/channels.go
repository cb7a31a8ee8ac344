package main

import (
	"fmt"

	"github.com/spf13/cobra"

	lscp "github.com/noisegate/go-lscp"
	"github.com/noisegate/go-lscp/internal/console"
)

func newChannelsCommand(cc *commandContext) *cobra.Command {
	channelsCmd := &cobra.Command{
		Use:   "channels",
		Short: "Manage sampler channels",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List channels with engine, instrument and activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withSession(func(sess *console.Session, r *console.Renderer) error {
				states, err := sess.Refresh()
				if err != nil {
					return err
				}
				r.ChannelTable(states)
				return nil
			})
		},
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a sampler channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withSession(func(sess *console.Session, _ *console.Renderer) error {
				id, err := sess.Client().AddChannel()
				if err != nil {
					return err
				}
				fmt.Printf("added channel %d\n", id)
				return nil
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <channel>",
		Short: "Remove a sampler channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := parseChannel(args[0])
			if err != nil {
				return err
			}
			return cc.withSession(func(sess *console.Session, _ *console.Renderer) error {
				return sess.Client().RemoveChannel(ch)
			})
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset <channel>",
		Short: "Reset a channel's engine to its initial state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := parseChannel(args[0])
			if err != nil {
				return err
			}
			return cc.withSession(func(sess *console.Session, _ *console.Renderer) error {
				return sess.Client().ResetChannel(ch)
			})
		},
	}

	var showFill bool
	infoCmd := &cobra.Command{
		Use:   "info <channel>",
		Short: "Show the full setup of one channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := parseChannel(args[0])
			if err != nil {
				return err
			}
			return cc.withSession(func(sess *console.Session, r *console.Renderer) error {
				client := sess.Client()
				info, err := client.GetChannelInfo(ch)
				if err != nil {
					return err
				}
				state := console.ChannelState{ID: ch, Info: info}
				// Activity counters are cosmetic here, skip them on error.
				if n, err := client.GetChannelVoiceCount(ch); err == nil {
					state.Voices = n
				}
				if n, err := client.GetChannelStreamCount(ch); err == nil {
					state.Streams = n
				}
				r.ChannelDetail(state)

				if showFill {
					fill, err := client.GetChannelBufferFill(lscp.UsagePercentage, ch)
					if err != nil {
						return err
					}
					r.BufferFill(lscp.UsagePercentage, fill)
				}
				return nil
			})
		},
	}
	infoCmd.Flags().BoolVar(&showFill, "fill", false, "Also show disk stream buffer fill")

	channelsCmd.AddCommand(listCmd, addCmd, removeCmd, resetCmd, infoCmd)
	return channelsCmd
}
