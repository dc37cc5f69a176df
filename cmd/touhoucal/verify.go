package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"touhoucal/internal/ics"
	"touhoucal/internal/loader"
)

func verifyCmd(opts *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that the ICS file on disk is current and well-formed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = opts.cfg.Output
			}
			return runVerify(cmd.Context(), cmd, opts.cfg.DaysDir, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "ICS file to check (defaults to the configured output)")
	return cmd
}

func runVerify(ctx context.Context, cmd *cobra.Command, daysDir, file string) error {
	events, err := loader.LoadDir(cmd.Context(), daysDir)
	if err != nil {
		return err
	}

	onDisk, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	if err := ics.Verify(string(onDisk), events); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	if string(onDisk) != ics.Build(events) {
		return fmt.Errorf("%s is stale; run generate", file)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date with %d events.\n", file, len(events))
	return nil
}
