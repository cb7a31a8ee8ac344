package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noisegate/go-lscp/internal/config"
	"github.com/noisegate/go-lscp/internal/console"
)

// commandContext carries the resolved configuration and logger shared by
// every subcommand
type commandContext struct {
	serverFlag  string
	configFlag  string
	timeoutFlag time.Duration
	verbosity   int

	cfg   *config.Config
	log   logr.Logger
	flush func()
}

// ensureConfig loads the config file once, then overlays environment and
// flag overrides (flags win)
func (cc *commandContext) ensureConfig() (*config.Config, error) {
	if cc.cfg != nil {
		return cc.cfg, nil
	}

	path := cc.configFlag
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if cc.serverFlag != "" {
		cfg.Server = cc.serverFlag
	}
	if cc.timeoutFlag > 0 {
		cfg.Timeout = cc.timeoutFlag
	}

	cc.cfg = cfg
	return cfg, nil
}

// withSession connects to the configured server and runs fn with the
// session and a stdout renderer, closing the session afterwards
func (cc *commandContext) withSession(fn func(*console.Session, *console.Renderer) error) error {
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

	return fn(sess, console.NewRenderer(os.Stdout, cfg.TableStyle))
}

// newLogger builds the zap-backed logr used across the console; each -v
// lowers the level so log.V(n) tracing shows up
func newLogger(verbosity int) (logr.Logger, func()) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	zc.DisableStacktrace = true
	zapLogger, err := zc.Build()
	if err != nil {
		return logr.Discard(), func() {}
	}
	return zapr.NewLogger(zapLogger), func() { _ = zapLogger.Sync() }
}

// signalContext returns a context canceled by SIGINT/SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newRootCommand() *cobra.Command {
	cc := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "samplerctl",
		Short:         "Control a LinuxSampler server over LSCP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cc.log, cc.flush = newLogger(cc.verbosity)
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := cc.ensureConfig()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cc.flush != nil {
				cc.flush()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cc.serverFlag, "server", "s", "", "Sampler server address (host:port)")
	rootCmd.PersistentFlags().StringVar(&cc.configFlag, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().DurationVar(&cc.timeoutFlag, "timeout", 0, "Control transaction timeout")
	rootCmd.PersistentFlags().CountVarP(&cc.verbosity, "verbose", "v", "Increase diagnostic verbosity")

	rootCmd.AddCommand(newShellCommand(cc))
	rootCmd.AddCommand(newChannelsCommand(cc))
	rootCmd.AddCommand(newDriversCommand(cc))
	rootCmd.AddCommand(newEnginesCommand(cc))
	rootCmd.AddCommand(newLoadCommand(cc))
	rootCmd.AddCommand(newSetCommand(cc))
	rootCmd.AddCommand(newQueryCommand(cc))
	rootCmd.AddCommand(newWatchCommand(cc))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	return cmd.Name() == "version" || cmd.Name() == "help"
}
