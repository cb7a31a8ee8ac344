package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/noisegate/go-lscp/internal/console"
)

func newWatchCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Subscribe to server notifications and stream them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			return console.RunWatch(ctx, cfg, os.Stdout, cc.log)
		},
	}
}
