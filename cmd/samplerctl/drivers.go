package main

import (
	"github.com/spf13/cobra"

	"github.com/noisegate/go-lscp/internal/console"
)

func newDriversCommand(cc *commandContext) *cobra.Command {
	driversCmd := &cobra.Command{
		Use:   "drivers",
		Short: "Inspect audio output and MIDI input drivers",
	}

	var audioInfo string
	audioCmd := &cobra.Command{
		Use:   "audio",
		Short: "List audio output drivers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withSession(func(sess *console.Session, r *console.Renderer) error {
				client := sess.Client()
				if audioInfo != "" {
					info, err := client.GetAudioDriverInfo(audioInfo)
					if err != nil {
						return err
					}
					r.DriverInfo(audioInfo, info)
					return nil
				}
				drivers, err := client.GetAvailableAudioDrivers()
				if err != nil {
					return err
				}
				r.StringList("AUDIO DRIVER", drivers)
				return nil
			})
		},
	}
	audioCmd.Flags().StringVar(&audioInfo, "info", "", "Describe one driver instead of listing")

	var midiInfo string
	midiCmd := &cobra.Command{
		Use:   "midi",
		Short: "List MIDI input drivers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withSession(func(sess *console.Session, r *console.Renderer) error {
				client := sess.Client()
				if midiInfo != "" {
					info, err := client.GetMIDIDriverInfo(midiInfo)
					if err != nil {
						return err
					}
					r.DriverInfo(midiInfo, info)
					return nil
				}
				drivers, err := client.GetAvailableMIDIDrivers()
				if err != nil {
					return err
				}
				r.StringList("MIDI DRIVER", drivers)
				return nil
			})
		},
	}
	midiCmd.Flags().StringVar(&midiInfo, "info", "", "Describe one driver instead of listing")

	driversCmd.AddCommand(audioCmd, midiCmd)
	return driversCmd
}
