package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/noisegate/go-lscp/internal/console"
)

func newSetCommand(cc *commandContext) *cobra.Command {
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change channel parameters",
	}

	volumeCmd := &cobra.Command{
		Use:   "volume <channel> <value>",
		Short: "Scale a channel's volume (1.0 is unity gain)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := parseChannel(args[0])
			if err != nil {
				return err
			}
			vol, err := strconv.ParseFloat(args[1], 32)
			if err != nil {
				return fmt.Errorf("invalid volume %q", args[1])
			}
			return cc.withSession(func(sess *console.Session, _ *console.Renderer) error {
				return sess.Client().SetChannelVolume(ch, float32(vol))
			})
		},
	}

	audioTypeCmd := &cobra.Command{
		Use:   "audio-type <channel> <driver>",
		Short: "Select a channel's audio output driver",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := parseChannel(args[0])
			if err != nil {
				return err
			}
			return cc.withSession(func(sess *console.Session, _ *console.Renderer) error {
				return sess.Client().SetChannelAudioType(ch, args[1])
			})
		},
	}

	audioChannelCmd := &cobra.Command{
		Use:   "audio-channel <channel> <out> <in>",
		Short: "Route a channel's audio output to a device channel",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := parseChannel(args[0])
			if err != nil {
				return err
			}
			out, err := parseInt(args[1], "output channel")
			if err != nil {
				return err
			}
			in, err := parseInt(args[2], "input channel")
			if err != nil {
				return err
			}
			return cc.withSession(func(sess *console.Session, _ *console.Renderer) error {
				return sess.Client().SetChannelAudioChannel(ch, out, in)
			})
		},
	}

	midiTypeCmd := &cobra.Command{
		Use:   "midi-type <channel> <driver>",
		Short: "Select a channel's MIDI input driver",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := parseChannel(args[0])
			if err != nil {
				return err
			}
			return cc.withSession(func(sess *console.Session, _ *console.Renderer) error {
				return sess.Client().SetChannelMIDIType(ch, args[1])
			})
		},
	}

	midiPortCmd := &cobra.Command{
		Use:   "midi-port <channel> <port>",
		Short: "Select a channel's MIDI input port",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := parseChannel(args[0])
			if err != nil {
				return err
			}
			port, err := parseInt(args[1], "MIDI port")
			if err != nil {
				return err
			}
			return cc.withSession(func(sess *console.Session, _ *console.Renderer) error {
				return sess.Client().SetChannelMIDIPort(ch, port)
			})
		},
	}

	midiChannelCmd := &cobra.Command{
		Use:   "midi-channel <channel> <midi-channel>",
		Short: "Select a channel's MIDI channel, 0 listens on all",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := parseChannel(args[0])
			if err != nil {
				return err
			}
			mc, err := parseInt(args[1], "MIDI channel")
			if err != nil {
				return err
			}
			return cc.withSession(func(sess *console.Session, _ *console.Renderer) error {
				return sess.Client().SetChannelMIDIChannel(ch, mc)
			})
		},
	}

	setCmd.AddCommand(volumeCmd, audioTypeCmd, audioChannelCmd, midiTypeCmd, midiPortCmd, midiChannelCmd)
	return setCmd
}
