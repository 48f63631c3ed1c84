package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

// Response represents the top-level Al Adhan API response.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// Data holds the prayer timings, date info, and metadata.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains all prayer and event times as HH:MM strings.
// The API may include a timezone suffix like " (BST)" which we strip during parsing.
type Timings struct {
	Fajr       string `json:"Fajr"`
	Sunrise    string `json:"Sunrise"`
	Dhuhr      string `json:"Dhuhr"`
	Asr        string `json:"Asr"`
	Sunset     string `json:"Sunset"`
	Maghrib    string `json:"Maghrib"`
	Isha       string `json:"Isha"`
	Imsak      string `json:"Imsak"`
	Midnight   string `json:"Midnight"`
	Firstthird string `json:"Firstthird"`
	Lastthird  string `json:"Lastthird"`
}

// Times parses the six engine events for date in zone. The API may include
// a timezone suffix like " (BST)" which is stripped.
func (t Timings) Times(date prayer.Date, zone *time.Location) (prayer.Times, error) {
	var out prayer.Times
	fields := []struct {
		name string
		raw  string
		dst  *time.Time
	}{
		{"Fajr", t.Fajr, &out.Fajr},
		{"Sunrise", t.Sunrise, &out.Sunrise},
		{"Dhuhr", t.Dhuhr, &out.Dhuhr},
		{"Asr", t.Asr, &out.Asr},
		{"Maghrib", t.Maghrib, &out.Maghrib},
		{"Isha", t.Isha, &out.Isha},
	}
	for _, f := range fields {
		v, err := parseClock(date, f.raw, zone)
		if err != nil {
			return prayer.Times{}, fmt.Errorf("parsing %s: %w", f.name, err)
		}
		*f.dst = v
	}
	return out, nil
}

func parseClock(date prayer.Date, raw string, zone *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, ' '); i >= 0 {
		raw = raw[:i]
	}
	hm, err := time.Parse("15:04", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", raw)
	}
	return time.Date(date.Year, date.Month, date.Day, hm.Hour(), hm.Minute(), 0, 0, zone), nil
}

// DateInfo contains date representations.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Timestamp string        `json:"timestamp"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate represents the Hijri (Islamic) date from the API response.
type HijriDate struct {
	Date        string           `json:"date"` // e.g. "10-08-1447"
	Day         string           `json:"day"`
	Month       HijriMonth       `json:"month"`
	Year        string           `json:"year"`
	Designation HijriDesignation `json:"designation"`
}

// HijriMonth represents the month in the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // English name, e.g. "Shaʿbān"
	Ar     string `json:"ar"` // Arabic name
}

// HijriDesignation contains the calendar designation labels.
type HijriDesignation struct {
	Abbreviated string `json:"abbreviated"` // "AH"
	Expanded    string `json:"expanded"`    // "Anno Hegirae"
}

// Format returns the Hijri date as "DD MonthName YYYY AH".
func (h HijriDate) Format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	abbr := h.Designation.Abbreviated
	if abbr == "" {
		abbr = "AH"
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " " + abbr
}

// GregorianDate represents the Gregorian date from the API response.
type GregorianDate struct {
	Date    string         `json:"date"` // e.g. "28-02-2026"
	Day     string         `json:"day"`
	Weekday GregorianDay   `json:"weekday"`
	Month   GregorianMonth `json:"month"`
	Year    string         `json:"year"`
}

// Day parses the "DD-MM-YYYY" date.
func (g GregorianDate) Day() (prayer.Date, error) {
	t, err := time.Parse("02-01-2006", g.Date)
	if err != nil {
		return prayer.Date{}, fmt.Errorf("invalid gregorian date %q", g.Date)
	}
	return prayer.DateOf(t), nil
}

// GregorianDay contains the weekday name.
type GregorianDay struct {
	En string `json:"en"` // e.g. "Saturday"
}

// GregorianMonth contains the month details.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // e.g. "February"
}

// Zone loads the timezone the API computed in, falling back to fallback.
func (m Meta) Zone(fallback *time.Location) *time.Location {
	if m.Timezone == "" {
		return fallback
	}
	zone, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return fallback
	}
	return zone
}

// Meta contains request metadata returned by the API.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
	School    string     `json:"school"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CalendarResponse represents the Al Adhan calendar API response.
// The calendar endpoint returns an array of daily data objects for a whole month.
type CalendarResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   []Data `json:"data"`
}
