package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"touhoucal/internal/config"
)

func configCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the touhoucal config file",
	}
	cmd.AddCommand(configInitCmd(opts))
	return cmd
}

func configInitCmd(opts *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				return fmt.Errorf("--config is required")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
