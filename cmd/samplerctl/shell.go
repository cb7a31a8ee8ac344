package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"

	"github.com/noisegate/go-lscp/internal/console"
)

func newShellCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive LSCP shell",
		Long: "Open an interactive shell against the configured server. Plain input\n" +
			"is sent verbatim as LSCP command lines; dot-commands render typed views.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cc)
		},
	}
}

func runShell(cc *commandContext) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	sess, err := console.Connect(ctx, cfg, nil, cc.log)
	if err != nil {
		return err
	}
	defer sess.Close()

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:                 "lscp> ",
		HistoryFile:            cfg.HistoryPath(),
		HistoryLimit:           500,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize line editor: %w", err)
	}
	defer rl.Close()

	r := console.NewRenderer(os.Stdout, cfg.TableStyle)
	fmt.Printf("connected to %s; .help lists commands\n", cfg.Server)

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rl.SaveToHistory(line)

		if strings.HasPrefix(line, ".") {
			if quit := runDotCommand(cc, sess, r, line); quit {
				return nil
			}
			continue
		}

		resp, err := sess.Client().Query(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		printResponse(os.Stdout, resp)
	}
}

// runDotCommand executes one local shell command; it reports true when the
// shell should exit
func runDotCommand(cc *commandContext, sess *console.Session, r *console.Renderer, line string) bool {
	client := sess.Client()
	switch fields := strings.Fields(line); fields[0] {
	case ".quit", ".exit":
		return true

	case ".help":
		fmt.Print(shellHelp)

	case ".channels":
		states, err := sess.Refresh()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return false
		}
		r.ChannelTable(states)

	case ".drivers":
		audio, err := client.GetAvailableAudioDrivers()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return false
		}
		r.StringList("AUDIO DRIVER", audio)
		midi, err := client.GetAvailableMIDIDrivers()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return false
		}
		r.StringList("MIDI DRIVER", midi)

	case ".engines":
		engines, err := client.GetAvailableEngines()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return false
		}
		r.StringList("ENGINE", engines)

	case ".watch":
		watchChannels(cc, sess, r)

	default:
		fmt.Printf("unknown command %s, try .help\n", fields[0])
	}
	return false
}

// watchChannels re-renders the channel table on the refresh interval until
// the user interrupts
func watchChannels(cc *commandContext, sess *console.Session, r *console.Renderer) {
	ctx, stop := signalContext()
	defer stop()

	fmt.Println("watching channels, Ctrl-C to stop")
	err := sess.Poll(ctx, cc.cfg.RefreshInterval, func(states []console.ChannelState) {
		r.ChannelTable(states)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

const shellHelp = `dot-commands:
  .channels   channel table with engine, instrument and activity
  .drivers    audio and MIDI driver lists
  .engines    engine list
  .watch      re-render the channel table until Ctrl-C
  .help       this text
  .quit       leave the shell

anything else is sent verbatim as an LSCP command line
`
