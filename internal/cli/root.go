package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/smokyabdulrahman/prayer-engine/internal/config"
	"github.com/smokyabdulrahman/prayer-engine/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Global flags shared across all subcommands.
var (
	FlagCity             string
	FlagCountry          string
	FlagLatitude         float64
	FlagLongitude        float64
	FlagTimezone         string
	FlagMethod           string
	FlagAsrMethod        string
	FlagHighLatitudeRule string
	FlagPrayers          string
	FlagDate             string
	FlagJSON             bool
	FlagCacheDir         string
	FlagTimeFormat       string
	FlagLogLevel         string
	FlagLogFile          string
	FlagVerbose          bool
)

// flagKeys maps persistent flags onto the config keys they override.
var flagKeys = []struct{ flag, key string }{
	{"city", "city"},
	{"country", "country"},
	{"latitude", "latitude"},
	{"longitude", "longitude"},
	{"timezone", "timezone"},
	{"method", "method"},
	{"asr-method", "asr_method"},
	{"high-latitude", "high_latitude_rule"},
	{"prayers", "prayers"},
	{"cache-dir", "cache_dir"},
	{"time-format", "time_format"},
	{"log-level", "log_level"},
	{"log-file", "log_file"},
}

// skipConfigAnnotation marks commands that must keep working with a broken
// config file, such as `config reset`.
const skipConfigAnnotation = "skip-config"

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// nowFunc is the clock used by every command.
var nowFunc = time.Now

// NewRootCmd creates the root command for the prayer-times CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "prayer-times",
		Short:   "Islamic prayer times CLI",
		Long:    "An offline CLI for Islamic prayer times and the Qibla direction.\nTimes are computed locally from the sun's position; no network access is needed\nonce a location is known.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				if cmd.Annotations[skipConfigAnnotation] == "" {
					return fmt.Errorf("failed to load config: %w", err)
				}
				defaults := config.Defaults()
				cfg = &defaults
			}
			loadedConfig = cfg

			logger := newLogger(cmd, cfg)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			logger.Debug().Str("command", cmd.CommandPath()).Msg("starting")
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "City label shown with the times")
	pf.StringVar(&FlagCountry, "country", "", "Country label shown with the times")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude (-90 to 90)")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude (-180 to 180)")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA timezone, e.g. Europe/London (default: detected or local)")
	pf.StringVar(&FlagMethod, "method", "", "Calculation method: MWL, ISNA, Egypt, Makkah, Karachi")
	pf.StringVar(&FlagAsrMethod, "asr-method", "", "Asr method: Standard or Hanafi")
	pf.StringVar(&FlagHighLatitudeRule, "high-latitude", "", "High latitude rule: NightMiddle, OneSeventh, AngleBased")
	pf.StringVar(&FlagPrayers, "prayers", "", "Comma-separated list of prayers to show (overrides config)")
	pf.StringVar(&FlagDate, "date", "", "Compute for this date (YYYY-MM-DD) instead of today")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/prayer-times/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagLogLevel, "log-level", "", "Log level: debug, info, warn, error, off")
	pf.StringVar(&FlagLogFile, "log-file", "", "Also write JSON logs to this file (rotated)")
	pf.BoolVarP(&FlagVerbose, "verbose", "v", false, "Shorthand for --log-level debug")

	// Register subcommands.
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newQiblaCmd())
	rootCmd.AddCommand(newDetailsCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())
	rootCmd.AddCommand(newCacheCmd())

	return rootCmd
}

// PrintVersion prints the version string in the expected format.
func PrintVersion(version string) string {
	return fmt.Sprintf("prayer-times %s\n", version)
}

// newLogger builds the command's logger. Flags win over the config file.
func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	lc := logging.DefaultConfig()
	lc.Console = cmd.ErrOrStderr()
	if cfg.LogLevel != "" {
		lc.Level = cfg.LogLevel
	}
	lc.FilePath = cfg.LogFile

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()
	if flagWasSet(flags, root, "log-level") {
		lc.Level = FlagLogLevel
	}
	if flagWasSet(flags, root, "log-file") {
		lc.FilePath = FlagLogFile
	}
	if FlagVerbose {
		lc.Level = "debug"
	}
	return logging.New(lc)
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > environment > config file > defaults.
// Flag values go through config.Set so they are validated exactly like
// `config set`.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Defaults()
	if loadedConfig != nil {
		cfg = *loadedConfig
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	for _, fk := range flagKeys {
		if !flagWasSet(flags, root, fk.flag) {
			continue
		}
		f := flags.Lookup(fk.flag)
		if f == nil {
			f = root.Lookup(fk.flag)
		}
		if err := cfg.Set(fk.key, f.Value.String()); err != nil {
			return nil, fmt.Errorf("--%s: %w", fk.flag, err)
		}
	}

	// Fill remaining gaps from the defaults.
	defaults := config.Defaults()
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}
	return &cfg, nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
