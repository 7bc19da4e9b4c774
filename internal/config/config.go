package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/veloroad/ridediag/internal/diag"
	"github.com/veloroad/ridediag/internal/errors"
)

const (
	DefaultLogLevel   = "info"
	defaultIntervalMs = 500

	defaultMinGPSHz         = 1.0
	defaultMaxGPSAccuracyM  = 25.0
	defaultMotionMinSamples = 50
	defaultMotionWindowMs   = 1000
)

// Config is the daemon configuration, merged from defaults, the TOML
// config file and command-line flags (flags win).
type Config struct {
	IntervalMs int    `mapstructure:"interval_ms"`
	LogLevel   string `mapstructure:"log_level"`
	Debug      bool   `mapstructure:"debug"`
	Verbose    bool   `mapstructure:"verbose"`

	Journal   bool   `mapstructure:"journal"`
	JournalDB string `mapstructure:"journal_db"`

	AutoStartSession bool `mapstructure:"auto_start_session"`

	// Analysis thresholds from the host application.
	MinGPSHz         float64 `mapstructure:"min_gps_hz"`
	MaxGPSAccuracyM  float64 `mapstructure:"max_gps_accuracy_m"`
	MotionMinSamples int     `mapstructure:"motion_min_samples"`
	MotionWindowMs   int     `mapstructure:"motion_window_ms"`
}

func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("interval_ms", defaultIntervalMs)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("journal", false)
	v.SetDefault("journal_db", "/var/lib/ridediagd/findings.db")
	v.SetDefault("auto_start_session", true)
	v.SetDefault("min_gps_hz", defaultMinGPSHz)
	v.SetDefault("max_gps_accuracy_m", defaultMaxGPSAccuracyM)
	v.SetDefault("motion_min_samples", defaultMotionMinSamples)
	v.SetDefault("motion_window_ms", defaultMotionWindowMs)

	flags := pflag.NewFlagSet("ridediagd", pflag.ContinueOnError)
	flags.Int("interval-ms", defaultIntervalMs, "Interval between evaluations in milliseconds")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.Bool("debug", false, "Enable debugging mode")
	flags.Bool("verbose", false, "Enable verbose logging")
	flags.Bool("journal", false, "Persist closed findings to the journal database")
	flags.String("journal-db", "", "Path to the findings journal database")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	bind := map[string]string{
		"interval_ms": "interval-ms",
		"log_level":   "log-level",
		"debug":       "debug",
		"verbose":     "verbose",
		"journal":     "journal",
		"journal_db":  "journal-db",
	}
	for key, name := range bind {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errFactory.Wrap(errors.ErrBindFlags, err)
			}
		}
	}

	// An explicit config path wins over the search path.
	if path := os.Getenv("RIDEDIAG_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ridediag")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err).
				WithMessage("Failed to read config file")
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	applyLogLevel(config)

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.IntervalMs <= 0 {
		return errFactory.New(errors.ErrInvalidInterval)
	}
	if !isValidLogLevel(c.LogLevel) {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

// Interval returns the evaluation interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// DiagConfig maps the analysis thresholds onto the diagnostics core
// configuration, keeping the core's own defaults for hold windows.
func (c *Config) DiagConfig() diag.Config {
	dc := diag.DefaultConfig()
	dc.MinGPSHz = c.MinGPSHz
	dc.MaxGPSAccuracyM = c.MaxGPSAccuracyM
	dc.MotionMinSamples = c.MotionMinSamples
	dc.MotionWindow = time.Duration(c.MotionWindowMs) * time.Millisecond
	return dc
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warning", "error":
		return true
	default:
		return false
	}
}

func applyLogLevel(c *Config) {
	switch {
	case c.Debug || c.LogLevel == "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case c.Verbose || c.LogLevel == "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case c.LogLevel == "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	}
}
