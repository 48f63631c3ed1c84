// Command tmux-prayer-times prints the next prayer as a single line for a
// tmux status bar.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/prayer-engine/internal/cache"
	"github.com/smokyabdulrahman/prayer-engine/internal/config"
	"github.com/smokyabdulrahman/prayer-engine/internal/geo"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

// Replaced in tests.
var (
	now    = time.Now
	detect = geo.DetectLocation
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// flagKeys maps flags onto config keys; anything set on the command line
// overrides the shared prayer-times config file.
var flagKeys = []struct{ flag, key string }{
	{"latitude", "latitude"},
	{"longitude", "longitude"},
	{"timezone", "timezone"},
	{"method", "method"},
	{"asr-method", "asr_method"},
	{"high-latitude", "high_latitude_rule"},
	{"time-format", "time_format"},
	{"prayers", "prayers"},
	{"cache-dir", "cache_dir"},
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("tmux-prayer-times", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	// Location flags
	fs.Float64("latitude", 0, "Latitude for prayer time calculation")
	fs.Float64("longitude", 0, "Longitude for prayer time calculation")
	fs.String("timezone", "", "IANA timezone (default: detected or local)")

	// Calculation flags
	fs.String("method", "", "Calculation method: MWL, ISNA, Egypt, Makkah, Karachi")
	fs.String("asr-method", "", "Asr method: Standard or Hanafi")
	fs.String("high-latitude", "", "High latitude rule: NightMiddle, OneSeventh, AngleBased")

	// Display flags
	format := fs.String("format", prayer.FormatNameAndTime, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template (e.g. '{{.Name}} in {{.Remaining}}'). Template fields: .Name, .ShortName, .Time, .Remaining, .Hours, .Minutes, .Estimated")
	fs.String("time-format", "", "Time format: 12h or 24h")
	fs.String("prayers", "", "Comma-separated list of prayers to track (default: the five daily prayers)")

	// Cache flags
	fs.String("cache-dir", "", "Cache directory (default: ~/.cache/prayer-times/)")

	// Info flags
	showVersion := fs.Bool("version", false, "Print version and exit")
	listMethods := fs.Bool("list-methods", false, "Print supported calculation methods and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "tmux-prayer-times %s\n", version)
		return 0
	}

	if *listMethods {
		printMethods(stdout)
		return 0
	}

	out, err := status(fs, *format)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprint(stdout, out)
	return 0
}

// printMethods prints the table of supported calculation methods.
func printMethods(w io.Writer) {
	fmt.Fprintln(w, "Supported calculation methods:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-8s %s\n", "Name", "Authority")
	fmt.Fprintf(w, "  %-8s %s\n", "────", "─────────")
	for _, m := range prayer.Methods() {
		fmt.Fprintf(w, "  %-8s %s\n", m, m.Description())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use --method <name> to select a calculation method (default: MWL).")
}

// status computes the one-line status for the next tracked prayer.
func status(fs *pflag.FlagSet, format string) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	for _, fk := range flagKeys {
		if f := fs.Lookup(fk.flag); f != nil && f.Changed {
			if err := cfg.Set(fk.key, f.Value.String()); err != nil {
				return "", fmt.Errorf("--%s: %w", fk.flag, err)
			}
		}
	}

	settings, err := cfg.Settings()
	if err != nil {
		return "", err
	}

	goTimeFmt := "15:04" // 24h
	if cfg.TimeFormat == "12h" {
		goTimeFmt = "3:04 PM"
	}

	loc, hint, err := resolveLocation(cfg)
	if err != nil {
		return "", err
	}

	zone, err := cfg.Zone()
	if err != nil {
		return "", err
	}
	if zone == nil {
		zone = (geo.Location{Timezone: hint}).Zone()
	}
	if zone == nil {
		zone = time.Local
	}

	t := now().In(zone)

	// Without a list, track the five daily prayers.
	if strings.TrimSpace(cfg.Prayers) == "" {
		next := prayer.Upcoming(loc, zone, settings, t)
		return prayer.FormatOutput(next, t, format, goTimeFmt), nil
	}

	names, err := prayer.ParseNames(cfg.Prayers)
	if err != nil {
		return "", err
	}
	today := prayer.DateOf(t)
	prayers, err := prayer.Select(prayer.Compute(loc, today, zone, settings), names)
	if err != nil {
		return "", err
	}
	next := prayer.NextIn(prayers, t)

	// If all today's prayers have passed, take tomorrow's first.
	if next == nil {
		tomorrow, err := prayer.Select(prayer.Compute(loc, today.AddDays(1), zone, settings), names)
		if err != nil {
			return "", err
		}
		if len(tomorrow) == 0 {
			return "", fmt.Errorf("could not determine next prayer")
		}
		next = &tomorrow[0]
	}

	return prayer.FormatOutput(*next, t, format, goTimeFmt), nil
}

// resolveLocation returns the configured coordinates, or the cached or
// detected ones, plus a timezone hint from detection.
func resolveLocation(cfg *config.Config) (prayer.Location, string, error) {
	if loc, ok := cfg.Coordinates(); ok {
		return loc, "", nil
	}

	// Cache init failure is non-fatal; we just skip caching.
	c, _ := cache.New(cfg.CacheDir)
	if c != nil {
		if cached := c.LoadGeo(); cached != nil {
			return cached.Coordinates(), cached.Timezone, nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	detected, err := detect(ctx)
	if err != nil {
		return prayer.Location{}, "", fmt.Errorf("no location specified and auto-detection failed: %w", err)
	}
	if c != nil {
		_ = c.SaveGeo(detected) // best-effort
	}
	return detected.Coordinates(), detected.Timezone, nil
}
