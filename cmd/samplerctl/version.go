package main

import (
	"fmt"

	"github.com/spf13/cobra"

	lscp "github.com/noisegate/go-lscp"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client library name and version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", lscp.Package, lscp.Version)
		},
	}
}
