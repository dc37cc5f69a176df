package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	appLog "touhoucal/internal/log"
)

func watchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the ICS file on the configured cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, cmd, opts)
		},
	}
}

// runWatch generates once, failing fast, then regenerates on every tick of
// cfg.Refresh until ctx is done. Failures after the first run are logged.
func runWatch(ctx context.Context, cmd *cobra.Command, opts *options) error {
	cfg := opts.cfg
	schedule, err := cron.ParseStandard(cfg.Refresh)
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", cfg.Refresh, err)
	}

	// A regeneration in progress is allowed to finish after shutdown starts.
	genCtx := context.WithoutCancel(ctx)

	out := cmd.OutOrStdout()
	if _, err := generate(genCtx, cfg.DaysDir, cfg.Output, out); err != nil {
		return err
	}

	c := cron.New()
	c.Schedule(schedule, cron.FuncJob(func() {
		n, err := generate(genCtx, cfg.DaysDir, cfg.Output, out)
		if err != nil {
			appLog.Error("regeneration failed", err, "days_dir", cfg.DaysDir)
			return
		}
		appLog.Info("calendar regenerated", "events", n, "output", cfg.Output)
	}))
	c.Start()
	appLog.Info("watching definitions", "days_dir", cfg.DaysDir, "refresh", cfg.Refresh)

	<-ctx.Done()
	appLog.Info("signal received, shutting down")

	// Wait for a running regeneration to finish.
	<-c.Stop().Done()
	return nil
}
