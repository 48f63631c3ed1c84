package prayer

import (
	"fmt"
	"strings"
	"time"
)

// Prayer is a single named event at a point in time.
type Prayer struct {
	Name      string
	Event     Event
	Time      time.Time
	Estimated bool
}

// DefaultPrayerNames are the events tracked by default, in chronological order.
var DefaultPrayerNames = []string{
	"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha",
}

// ShortNames maps full prayer names to single-character abbreviations.
var ShortNames = map[string]string{
	"Fajr":    "F",
	"Sunrise": "S",
	"Dhuhr":   "D",
	"Asr":     "A",
	"Maghrib": "M",
	"Isha":    "I",
}

// ParseNames splits a comma-separated list of prayer names and normalises
// their spelling. An empty string yields DefaultPrayerNames.
func ParseNames(list string) ([]string, error) {
	if strings.TrimSpace(list) == "" {
		return DefaultPrayerNames, nil
	}
	var names []string
	for _, raw := range strings.Split(list, ",") {
		e, err := ParseEvent(raw)
		if err != nil {
			return nil, err
		}
		names = append(names, e.String())
	}
	return names, nil
}

// Select returns the prayers of t named in selected, in the order given.
func Select(t Times, selected []string) ([]Prayer, error) {
	var prayers []Prayer
	for _, name := range selected {
		e, err := ParseEvent(name)
		if err != nil {
			return nil, err
		}
		prayers = append(prayers, t.prayer(e))
	}
	return prayers, nil
}

// NextIn finds the first prayer in prayers after now.
// If all of them have passed it returns nil and the caller moves on to the
// next day.
func NextIn(prayers []Prayer, now time.Time) *Prayer {
	for i := range prayers {
		if prayers[i].Time.After(now) {
			return &prayers[i]
		}
	}
	return nil
}

// CurrentIn returns the latest prayer in prayers that has already started,
// or nil before the first one.
func CurrentIn(prayers []Prayer, now time.Time) *Prayer {
	var current *Prayer
	for i := range prayers {
		if prayers[i].Time.After(now) {
			break
		}
		current = &prayers[i]
	}
	return current
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(prayer Prayer, now time.Time) time.Duration {
	return prayer.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
