package main

import (
	"github.com/spf13/cobra"

	"github.com/noisegate/go-lscp/internal/console"
)

func newLoadCommand(cc *commandContext) *cobra.Command {
	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Load engines and instruments onto channels",
	}

	engineCmd := &cobra.Command{
		Use:   "engine <name> <channel>",
		Short: "Deploy a sampler engine on a channel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := parseChannel(args[1])
			if err != nil {
				return err
			}
			return cc.withSession(func(sess *console.Session, _ *console.Renderer) error {
				return sess.Client().LoadEngine(args[0], ch)
			})
		},
	}

	instrumentCmd := &cobra.Command{
		Use:   "instrument <file> <index> <channel>",
		Short: "Load an instrument from a file into a channel",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			nr, err := parseInt(args[1], "instrument index")
			if err != nil {
				return err
			}
			ch, err := parseChannel(args[2])
			if err != nil {
				return err
			}
			return cc.withSession(func(sess *console.Session, _ *console.Renderer) error {
				return sess.Client().LoadInstrument(args[0], nr, ch)
			})
		},
	}

	loadCmd.AddCommand(engineCmd, instrumentCmd)
	return loadCmd
}
