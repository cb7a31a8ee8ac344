package main

import (
	"github.com/spf13/cobra"

	"github.com/noisegate/go-lscp/internal/console"
)

func newEnginesCommand(cc *commandContext) *cobra.Command {
	var engineInfo string
	enginesCmd := &cobra.Command{
		Use:   "engines",
		Short: "List sampler engines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withSession(func(sess *console.Session, r *console.Renderer) error {
				client := sess.Client()
				if engineInfo != "" {
					info, err := client.GetEngineInfo(engineInfo)
					if err != nil {
						return err
					}
					r.EngineInfo(engineInfo, info)
					return nil
				}
				engines, err := client.GetAvailableEngines()
				if err != nil {
					return err
				}
				r.StringList("ENGINE", engines)
				return nil
			})
		},
	}
	enginesCmd.Flags().StringVar(&engineInfo, "info", "", "Describe one engine instead of listing")

	return enginesCmd
}
