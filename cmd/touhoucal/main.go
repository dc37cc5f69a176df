package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"touhoucal/internal/config"
	appLog "touhoucal/internal/log"
)

// options holds persistent flag values; cfg is filled before any command runs.
type options struct {
	configPath string
	daysDir    string
	output     string
	logLevel   string

	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		appLog.Error("touhoucal failed", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "touhoucal",
		Short:         "Build a yearly Touhou calendar (ICS) from monthly definition files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "touhoucal.yaml", "Path to config file (missing file means defaults)")
	flags.StringVar(&opts.daysDir, "days", "", "Directory holding 1.yaml .. 12.yaml (overrides config)")
	flags.StringVar(&opts.output, "output", "", "Output ICS file (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	root.AddCommand(generateCmd(opts))
	root.AddCommand(listCmd(opts))
	root.AddCommand(verifyCmd(opts))
	root.AddCommand(upcomingCmd(opts))
	root.AddCommand(watchCmd(opts))
	root.AddCommand(configCmd(opts))
	root.AddCommand(versionCmd())
	return root
}

// load resolves the effective config: file, then .env/environment, then flags.
func (o *options) load() error {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.daysDir != "" {
		cfg.DaysDir = o.daysDir
	}
	if o.output != "" {
		cfg.Output = o.output
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	level, err := appLog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	appLog.SetLevel(level)

	appLog.Debug("effective config",
		"config_path", o.configPath,
		"days_dir", cfg.DaysDir,
		"output", cfg.Output,
		"refresh", cfg.Refresh,
		"upcoming_days", cfg.UpcomingDays,
	)

	o.cfg = cfg
	return nil
}
