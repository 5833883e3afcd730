package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"launch_notifier/internal/config"
	"launch_notifier/internal/logger"
	"launch_notifier/internal/repository"
	"launch_notifier/internal/service"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configFile string
	envFile    string
	dryRun     bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "launch-notifier",
		Short: "Send the next SpaceX launch to a Meshtastic mesh",
		Long: "launch-notifier queries the Launch Library 2 schedule, picks the next launch from the\n" +
			"configured site and broadcasts a short text message over a serial or TCP Meshtastic radio.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNotify(cmd, flags)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&flags.configFile, "config", "", "config file (default configs/config.yml if present)")
	f.StringVar(&flags.envFile, "env-file", "", "dotenv file (default .env if present)")
	f.BoolVar(&flags.dryRun, "dry-run", false, "print the message instead of sending it")
	f.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	root.AddCommand(&cobra.Command{
		Use:   "preview",
		Short: "Print the message for the next launch without opening a radio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd, flags)
		},
	})
	return root
}

// setup loads configuration and wires the pipeline for one run.
func setup(flags *rootFlags, out io.Writer) (*service.Service, config.Config, *logger.Logger, error) {
	cfg, err := config.Load(config.Options{
		ConfigFile: flags.configFile,
		EnvFile:    flags.envFile,
		DryRun:     flags.dryRun,
		LogLevel:   flags.logLevel,
	})
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	log := logger.Get(cfg.LogLevel)

	repos, err := repository.NewRepository(cfg.Launch)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	return service.NewService(repos, cfg, log, out), cfg, log, nil
}

// signalContext is cancelled on SIGINT/SIGTERM so an in-flight request or device write stops promptly.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runNotify(cmd *cobra.Command, flags *rootFlags) error {
	services, cfg, log, err := setup(flags, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	if cfg.Transport.DryRun {
		log.Infow("dry run: message will be printed, not sent")
	}
	log.Infow("starting launch notifier", "site", cfg.Launch.Site, "mode", cfg.Transport.Mode, "channel", cfg.Transport.ChannelIndex)

	out, err := services.Run(ctx)
	if err != nil {
		return err
	}
	if !out.Selection.Found {
		log.Infow("nothing to send", "site", cfg.Launch.Site)
	}
	return nil
}

func runPreview(cmd *cobra.Command, flags *rootFlags) error {
	services, cfg, log, err := setup(flags, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	out, err := services.Preview(ctx)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if !out.Selection.Found {
		fmt.Fprintf(w, "No upcoming launches found for %s\n", cfg.Launch.Site)
		return nil
	}
	fmt.Fprintf(w, "%s\n\n(%d bytes, channel %d)\n", out.Message, len(out.Message), cfg.Transport.ChannelIndex)
	return nil
}
