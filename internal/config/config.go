package config

import (
	"errors"
	"io/fs"
	"os"

	env "github.com/Netflix/go-env"
	"gopkg.in/yaml.v3"

	"touhoucal/internal/fileutil"
)

const (
	DefaultDaysDir      = "TouhouCalendarBot/days"
	DefaultOutput       = "touhou_calendar.ics"
	DefaultLogLevel     = "info"
	DefaultRefresh      = "@hourly"
	DefaultUpcomingDays = 30
)

// Config is the top-level application configuration.
type Config struct {
	// DaysDir holds the twelve month definition files (1.yaml .. 12.yaml).
	DaysDir string `yaml:"days_dir"`

	// Output is the generated ICS file path.
	Output string `yaml:"output"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Refresh is the cron schedule used by watch mode (e.g. "*/15 * * * *").
	Refresh string `yaml:"refresh"`

	// UpcomingDays is the default window of the upcoming listing.
	UpcomingDays int `yaml:"upcoming_days"`
}

// envOverrides are read from the process environment after the file.
type envOverrides struct {
	DaysDir  string `env:"TOUHOUCAL_DAYS_DIR"`
	Output   string `env:"TOUHOUCAL_OUTPUT"`
	LogLevel string `env:"TOUHOUCAL_LOG_LEVEL"`
	Refresh  string `env:"TOUHOUCAL_REFRESH"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		DaysDir:      DefaultDaysDir,
		Output:       DefaultOutput,
		LogLevel:     DefaultLogLevel,
		Refresh:      DefaultRefresh,
		UpcomingDays: DefaultUpcomingDays,
	}
}

// Normalize fills in missing/zero values with defaults so partially-filled
// configs still behave correctly.
func (c *Config) Normalize() {
	if c.DaysDir == "" {
		c.DaysDir = DefaultDaysDir
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Refresh == "" {
		c.Refresh = DefaultRefresh
	}
	if c.UpcomingDays <= 0 {
		c.UpcomingDays = DefaultUpcomingDays
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - An empty path or a missing file yields the defaults.
//   - Otherwise the YAML is unmarshalled into Config.
//   - TOUHOUCAL_* environment variables override file values.
//   - Missing values are normalized to defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Defaults only.
		case err != nil:
			return nil, err
		default:
			cfg = &Config{}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return cfg, nil
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if _, err := env.UnmarshalFromEnviron(&o); err != nil {
		return err
	}
	if o.DaysDir != "" {
		c.DaysDir = o.DaysDir
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.Refresh != "" {
		c.Refresh = o.Refresh
	}
	return nil
}

// Save writes the configuration to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return fileutil.WriteAtomic(path, data, 0o600)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
