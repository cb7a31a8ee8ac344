package main

import (
	"fmt"
	"io"
	"strconv"

	lscp "github.com/noisegate/go-lscp"
)

func parseChannel(arg string) (int, error) {
	return parseInt(arg, "channel number")
}

func parseInt(arg, what string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, arg)
	}
	return n, nil
}

// printResponse writes one classified transaction result the way the shell
// shows it
func printResponse(out io.Writer, resp lscp.Response) {
	switch resp.Status {
	case lscp.StatusWarning:
		fmt.Fprintf(out, "warning %d: %s\n", resp.Code, resp.Text)
	case lscp.StatusError:
		fmt.Fprintf(out, "error %d: %s\n", resp.Code, resp.Text)
	default:
		if resp.Text == "" {
			fmt.Fprintln(out, "OK")
			return
		}
		fmt.Fprintln(out, resp.Text)
	}
}
