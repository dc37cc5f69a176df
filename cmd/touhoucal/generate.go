package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"touhoucal/internal/ics"
	"touhoucal/internal/loader"
	"touhoucal/internal/model"
)

func generateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Load definitions and write the ICS file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}
}

func runGenerate(cmd *cobra.Command, opts *options) error {
	_, err := generate(cmd.Context(), opts.cfg.DaysDir, opts.cfg.Output, cmd.OutOrStdout())
	return err
}

// generate runs load, summary, build and write. Nothing is written unless
// every source loaded.
func generate(ctx context.Context, daysDir, output string, out io.Writer) (int, error) {
	events, err := loader.LoadDir(ctx, daysDir)
	if err != nil {
		return 0, err
	}

	printSummary(out, events)

	if err := ics.WriteFile(output, ics.Build(events)); err != nil {
		return 0, fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Fprintf(out, "Written %s with %d events.\n", filepath.Base(output), len(events))
	return len(events), nil
}

func printSummary(out io.Writer, events []model.Event) {
	fmt.Fprintf(out, "Parsed %d events:\n\n", len(events))
	for _, ev := range events {
		fmt.Fprintf(out, "  %s\n", ev)
	}
	fmt.Fprintln(out)
}
