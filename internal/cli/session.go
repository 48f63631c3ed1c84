package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/smokyabdulrahman/prayer-engine/internal/cache"
	"github.com/smokyabdulrahman/prayer-engine/internal/config"
	"github.com/smokyabdulrahman/prayer-engine/internal/geo"
	"github.com/smokyabdulrahman/prayer-engine/internal/logging"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/spf13/cobra"
)

// detectLocation looks the user up by IP address. Tests replace it.
var detectLocation = geo.DetectLocation

// locationSource records where the coordinates came from.
type locationSource string

const (
	sourceConfig   locationSource = "config"
	sourceCache    locationSource = "cache"
	sourceDetected locationSource = "detected"
)

// resolvedLocation holds the result of location resolution.
type resolvedLocation struct {
	prayer.Location
	City     string
	Country  string
	Timezone string // hint from geo-detection
	Source   locationSource
}

// label is "City, Country" when both are known, otherwise the coordinates.
func (l resolvedLocation) label() string {
	if l.City != "" && l.Country != "" {
		return l.City + ", " + l.Country
	}
	if l.City != "" {
		return l.City
	}
	return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
}

// session is everything a command needs to compute and print times.
type session struct {
	cfg      *config.Config
	settings prayer.Settings
	loc      resolvedLocation
	zone     *time.Location
	cache    *cache.Cache
	logger   zerolog.Logger

	now       time.Time   // wall clock in zone
	date      prayer.Date // day being shown
	isToday   bool
	timeFmt   string // Go layout
	selection []string
}

// newSession merges the configuration, resolves the location and timezone,
// and settles which date and prayers the command works with.
func newSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return nil, err
	}

	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	selection, err := prayer.ParseNames(cfg.Prayers)
	if err != nil {
		return nil, fmt.Errorf("invalid prayers list: %w", err)
	}

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		// Cache init failure is non-fatal; we just skip caching.
		c = nil
		logger.Warn().Err(err).Msg("cache disabled")
	}

	loc, err := resolveLocation(ctx, cfg, c)
	if err != nil {
		return nil, err
	}

	zone, err := resolveZone(cfg, loc)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:       cfg,
		settings:  settings,
		loc:       loc,
		zone:      zone,
		cache:     c,
		logger:    logger,
		now:       nowFunc().In(zone),
		timeFmt:   goTimeFormat(cfg.TimeFormat),
		selection: selection,
	}

	s.date = prayer.DateOf(s.now)
	s.isToday = true
	if FlagDate != "" {
		d, err := prayer.ParseDate(FlagDate)
		if err != nil {
			return nil, err
		}
		s.isToday = d == s.date
		s.date = d
	}

	logger.Debug().
		Float64("latitude", loc.Latitude).
		Float64("longitude", loc.Longitude).
		Str("source", string(loc.Source)).
		Str("zone", zone.String()).
		Str("method", settings.Method.String()).
		Str("asr", settings.Asr.String()).
		Str("high_latitude", settings.HighLatitude.String()).
		Str("date", s.date.String()).
		Msg("session ready")
	return s, nil
}

// times computes the full schedule for d.
func (s *session) times(d prayer.Date) prayer.Times {
	t := prayer.Compute(s.loc.Location, d, s.zone, s.settings)
	if t.Estimated != 0 {
		s.logger.Debug().
			Str("date", d.String()).
			Str("rule", s.settings.HighLatitude.String()).
			Msg("high latitude estimate in use")
	}
	return t
}

// selected computes d and keeps the configured prayers.
func (s *session) selected(d prayer.Date) ([]prayer.Prayer, error) {
	return prayer.Select(s.times(d), s.selection)
}

// defaultSelection reports whether the user kept the full six-event list.
func (s *session) defaultSelection() bool {
	return strings.Join(s.selection, ",") == strings.Join(prayer.DefaultPrayerNames, ",")
}

// resolveLocation determines the effective location based on user flags, config, or auto-detection.
// Priority: CLI flags > config > cached geolocation > IP auto-detect.
// City and country are labels only; the engine needs coordinates.
func resolveLocation(ctx context.Context, cfg *config.Config, c *cache.Cache) (resolvedLocation, error) {
	logger := logging.FromContext(ctx)

	if coords, ok := cfg.Coordinates(); ok {
		return resolvedLocation{
			Location: coords,
			City:     cfg.City,
			Country:  cfg.Country,
			Source:   sourceConfig,
		}, nil
	}
	if cfg.Latitude != nil || cfg.Longitude != nil {
		return resolvedLocation{}, fmt.Errorf("both --latitude and --longitude are required")
	}

	// Try cached geolocation first.
	if c != nil {
		if cached := c.LoadGeo(); cached != nil {
			logger.Debug().Msg("using cached geolocation")
			return fromDetected(cached, cfg, sourceCache), nil
		}
	}

	// Fall back to IP-based geolocation.
	detected, err := detectLocation(ctx)
	if err != nil {
		return resolvedLocation{}, fmt.Errorf("no location specified and auto-detection failed: %w\n(set one with `prayer-times config set latitude <deg>` and `... longitude <deg>`)", err)
	}

	// Cache the detected location.
	if c != nil {
		if err := c.SaveGeo(detected); err != nil {
			logger.Debug().Err(err).Msg("could not cache geolocation")
		}
	}
	return fromDetected(detected, cfg, sourceDetected), nil
}

func fromDetected(g *geo.Location, cfg *config.Config, src locationSource) resolvedLocation {
	loc := resolvedLocation{
		Location: g.Coordinates(),
		City:     g.City,
		Country:  g.Country,
		Timezone: g.Timezone,
		Source:   src,
	}
	// Labels from the user win over the detected ones.
	if cfg.City != "" {
		loc.City = cfg.City
	}
	if cfg.Country != "" {
		loc.Country = cfg.Country
	}
	return loc
}

// resolveZone picks the timezone: configured > detected > system local.
func resolveZone(cfg *config.Config, loc resolvedLocation) (*time.Location, error) {
	zone, err := cfg.Zone()
	if err != nil {
		return nil, err
	}
	if zone != nil {
		return zone, nil
	}
	if z := (geo.Location{Timezone: loc.Timezone}).Zone(); z != nil {
		return z, nil
	}
	return time.Local, nil
}

// goTimeFormat converts the configured "12h"/"24h" into a Go layout.
func goTimeFormat(tf string) string {
	if tf == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// parseDays reads the number of days for list-style commands.
func parseDays(s string) (int, error) {
	switch s {
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	var days int
	n, err := fmt.Sscanf(s, "%d", &days)
	if err != nil || n != 1 || days < 1 {
		return 0, fmt.Errorf("invalid number of days: %q (must be a positive integer, 'week', or 'month')", s)
	}
	return days, nil
}
