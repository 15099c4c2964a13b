package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/capcom6/pdf-mover/internal/config"
	"github.com/capcom6/pdf-mover/internal/logging"
	"github.com/capcom6/pdf-mover/internal/mover"
	"github.com/capcom6/pdf-mover/internal/watcher"
	"github.com/urfave/cli/v3"
)

func main() {
	// flag sources read the environment while parsing, so .env goes first
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cmd := &cli.Command{
		Name:            "pdf-mover",
		Usage:           "move new PDF files from one folder to another",
		ArgsUsage:       config.ArgsUsage,
		Version:         config.Version(),
		Flags:           config.Flags(),
		HideHelpCommand: true,
		Action:          run,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cmd.Run(ctx, os.Args)
	cancel()

	if err != nil {
		if errors.Is(err, config.ErrUsage) {
			fmt.Fprintf(os.Stderr, "Usage: %s %s\n", cmd.Name, config.ArgsUsage)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	mv := mover.New(cfg.MoverConfig(), logger.With("component", "mover"))
	watch := watcher.New(
		watcher.NewBackend(cfg.PollInterval),
		mv,
		watcher.Config{
			Filter: watcher.Filter{
				Extension: watcher.DefaultExtension,
				Excludes:  cfg.Excludes,
			},
			Workers: cfg.Workers,
		},
		logger.With("component", "watcher"),
	)

	err = watch.Watch(ctx, cfg.SourceDir, cfg.DestinationDir)

	stats := watch.Stats()
	logger.Info("Bye!", "moved", stats.Moved, "gone", stats.Gone, "failed", stats.Failed, "events", stats.Events)

	switch {
	case errors.Is(err, watcher.ErrSubscriptionOpen):
		return err
	case err != nil:
		// the watch ran and ended; that is a normal exit for the process
		logger.Error("watch stopped", "error", err)
	}

	return nil
}
