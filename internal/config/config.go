// Package config provides persistent configuration for the prayer-times CLI.
//
// Configuration is stored as JSON at ~/.config/prayer-times/config.json
// (XDG-compliant) and read through viper, so every key can also be supplied
// as an environment variable named PRAYER_TIMES_<KEY>, for example
// PRAYER_TIMES_LATITUDE. The merge priority is:
// CLI flags > environment > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

const (
	configDirName  = "prayer-times"
	configFileName = "config.json"

	// EnvPrefix prefixes the environment overrides.
	EnvPrefix = "PRAYER_TIMES"

	// MaxAdjustment bounds the per-prayer minute offsets.
	MaxAdjustment = 30
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city", "country",
	"latitude", "longitude",
	"timezone",
	"method", "asr_method", "high_latitude_rule",
	"fajr_adjust", "sunrise_adjust", "dhuhr_adjust",
	"asr_adjust", "maghrib_adjust", "isha_adjust",
	"time_format",
	"prayers",
	"cache_dir",
	"log_level", "log_file",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	City      string   `json:"city,omitempty" mapstructure:"city"`
	Country   string   `json:"country,omitempty" mapstructure:"country"`
	Latitude  *float64 `json:"latitude,omitempty" mapstructure:"latitude"` // pointer so the equator is a valid value
	Longitude *float64 `json:"longitude,omitempty" mapstructure:"longitude"`
	Timezone  string   `json:"timezone,omitempty" mapstructure:"timezone"` // IANA name, e.g. "Europe/London"

	Method           string `json:"method,omitempty" mapstructure:"method"`
	AsrMethod        string `json:"asr_method,omitempty" mapstructure:"asr_method"`
	HighLatitudeRule string `json:"high_latitude_rule,omitempty" mapstructure:"high_latitude_rule"`

	FajrAdjust    int `json:"fajr_adjust,omitempty" mapstructure:"fajr_adjust"`
	SunriseAdjust int `json:"sunrise_adjust,omitempty" mapstructure:"sunrise_adjust"`
	DhuhrAdjust   int `json:"dhuhr_adjust,omitempty" mapstructure:"dhuhr_adjust"`
	AsrAdjust     int `json:"asr_adjust,omitempty" mapstructure:"asr_adjust"`
	MaghribAdjust int `json:"maghrib_adjust,omitempty" mapstructure:"maghrib_adjust"`
	IshaAdjust    int `json:"isha_adjust,omitempty" mapstructure:"isha_adjust"`

	TimeFormat string `json:"time_format,omitempty" mapstructure:"time_format"` // "12h" or "24h"
	Prayers    string `json:"prayers,omitempty" mapstructure:"prayers"`         // comma-separated list
	CacheDir   string `json:"cache_dir,omitempty" mapstructure:"cache_dir"`
	LogLevel   string `json:"log_level,omitempty" mapstructure:"log_level"`
	LogFile    string `json:"log_file,omitempty" mapstructure:"log_file"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	s := prayer.DefaultSettings()
	return Config{
		Method:           s.Method.String(),
		AsrMethod:        s.Asr.String(),
		HighLatitudeRule: s.HighLatitude.String(),
		TimeFormat:       "24h",
		LogLevel:         "warn",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk and applies environment overrides.
// A missing file is not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return load(path, true)
}

// LoadFrom reads the config from a specific file path without environment
// overrides. This is what `config set` edits, so env values never leak into
// the saved file.
func LoadFrom(path string) (*Config, error) {
	return load(path, false)
}

// LoadWithEnv reads the config at path and applies environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, env bool) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if env {
		v.SetEnvPrefix(EnvPrefix)
		for _, key := range ValidKeys {
			if err := v.BindEnv(key); err != nil {
				return nil, fmt.Errorf("binding env for %s: %w", key, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "city":
		c.City = value
	case "country":
		c.Country = value
	case "latitude":
		v, err := parseCoordinate(key, value, 90)
		if err != nil {
			return err
		}
		c.Latitude = &v
	case "longitude":
		v, err := parseCoordinate(key, value, 180)
		if err != nil {
			return err
		}
		c.Longitude = &v
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", value, err)
		}
		c.Timezone = value
	case "method":
		m, err := prayer.ParseMethod(value)
		if err != nil {
			return err
		}
		c.Method = m.String()
	case "asr_method":
		a, err := prayer.ParseAsrMethod(value)
		if err != nil {
			return err
		}
		c.AsrMethod = a.String()
	case "high_latitude_rule":
		r, err := prayer.ParseHighLatitudeRule(value)
		if err != nil {
			return err
		}
		c.HighLatitudeRule = r.String()
	case "fajr_adjust", "sunrise_adjust", "dhuhr_adjust", "asr_adjust", "maghrib_adjust", "isha_adjust":
		v, err := parseAdjustment(key, value)
		if err != nil {
			return err
		}
		*c.adjustment(key) = v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "prayers":
		names, err := prayer.ParseNames(value)
		if err != nil {
			return fmt.Errorf("invalid prayers list: %w", err)
		}
		c.Prayers = strings.Join(names, ",")
	case "cache_dir":
		c.CacheDir = value
	case "log_level":
		switch value {
		case "debug", "info", "warn", "error", "off":
		default:
			return fmt.Errorf("invalid log_level %q: must be debug, info, warn, error or off", value)
		}
		c.LogLevel = value
	case "log_file":
		c.LogFile = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "city":
		return c.City, nil
	case "country":
		return c.Country, nil
	case "latitude":
		return formatCoordinate(c.Latitude), nil
	case "longitude":
		return formatCoordinate(c.Longitude), nil
	case "timezone":
		return c.Timezone, nil
	case "method":
		return c.Method, nil
	case "asr_method":
		return c.AsrMethod, nil
	case "high_latitude_rule":
		return c.HighLatitudeRule, nil
	case "fajr_adjust", "sunrise_adjust", "dhuhr_adjust", "asr_adjust", "maghrib_adjust", "isha_adjust":
		v := *c.adjustment(key)
		if v == 0 {
			return "", nil
		}
		return strconv.Itoa(v), nil
	case "time_format":
		return c.TimeFormat, nil
	case "prayers":
		return c.Prayers, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_file":
		return c.LogFile, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Validate checks values that may have bypassed Set, such as hand-edited
// files or environment overrides.
func (c *Config) Validate() error {
	if c.Latitude != nil && (*c.Latitude < -90 || *c.Latitude > 90) {
		return fmt.Errorf("latitude %v out of range [-90, 90]", *c.Latitude)
	}
	if c.Longitude != nil && (*c.Longitude < -180 || *c.Longitude > 180) {
		return fmt.Errorf("longitude %v out of range [-180, 180]", *c.Longitude)
	}
	for _, key := range []string{"fajr_adjust", "sunrise_adjust", "dhuhr_adjust", "asr_adjust", "maghrib_adjust", "isha_adjust"} {
		if v := *c.adjustment(key); v < -MaxAdjustment || v > MaxAdjustment {
			return fmt.Errorf("%s %d out of range [-%d, %d]", key, v, MaxAdjustment, MaxAdjustment)
		}
	}
	if _, err := c.Settings(); err != nil {
		return err
	}
	return nil
}

// Settings converts the calculation keys into engine settings. Unset keys
// take the engine defaults.
func (c *Config) Settings() (prayer.Settings, error) {
	s := prayer.DefaultSettings()

	if c.Method != "" {
		m, err := prayer.ParseMethod(c.Method)
		if err != nil {
			return s, err
		}
		s.Method = m
	}
	if c.AsrMethod != "" {
		a, err := prayer.ParseAsrMethod(c.AsrMethod)
		if err != nil {
			return s, err
		}
		s.Asr = a
	}
	if c.HighLatitudeRule != "" {
		r, err := prayer.ParseHighLatitudeRule(c.HighLatitudeRule)
		if err != nil {
			return s, err
		}
		s.HighLatitude = r
	}

	s.Adjustments = prayer.Adjustments{
		Fajr:    c.FajrAdjust,
		Sunrise: c.SunriseAdjust,
		Dhuhr:   c.DhuhrAdjust,
		Asr:     c.AsrAdjust,
		Maghrib: c.MaghribAdjust,
		Isha:    c.IshaAdjust,
	}
	return s, nil
}

// Coordinates returns the configured location, if both halves are set.
func (c *Config) Coordinates() (prayer.Location, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return prayer.Location{}, false
	}
	return prayer.Location{Latitude: *c.Latitude, Longitude: *c.Longitude}, true
}

// Zone loads the configured timezone, or returns nil when unset.
func (c *Config) Zone() (*time.Location, error) {
	if c.Timezone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) adjustment(key string) *int {
	switch key {
	case "fajr_adjust":
		return &c.FajrAdjust
	case "sunrise_adjust":
		return &c.SunriseAdjust
	case "dhuhr_adjust":
		return &c.DhuhrAdjust
	case "asr_adjust":
		return &c.AsrAdjust
	case "maghrib_adjust":
		return &c.MaghribAdjust
	case "isha_adjust":
		return &c.IshaAdjust
	}
	panic("config: not an adjustment key: " + key)
}

func parseCoordinate(key, value string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", key, value)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("invalid %s %q: must be between %v and %v", key, value, -limit, limit)
	}
	return v, nil
}

func parseAdjustment(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer number of minutes", key, value)
	}
	if v < -MaxAdjustment || v > MaxAdjustment {
		return 0, fmt.Errorf("invalid %s %q: must be between -%d and %d", key, value, MaxAdjustment, MaxAdjustment)
	}
	return v, nil
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
