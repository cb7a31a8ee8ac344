package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noisegate/go-lscp/internal/console"
)

func newQueryCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "query <command>...",
		Short: "Send one raw LSCP line and print the classified result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withSession(func(sess *console.Session, _ *console.Renderer) error {
				resp, err := sess.Client().Query(strings.Join(args, " "))
				if err != nil {
					return err
				}
				printResponse(os.Stdout, resp)
				return nil
			})
		},
	}
}
