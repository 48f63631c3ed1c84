package prayer

import (
	"fmt"
	"strings"
	"time"
)

// Location is an observer's position in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Date is a civil calendar date with no time of day or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: must be YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Event identifies one of the six computed times.
type Event int

const (
	Fajr Event = iota
	Sunrise
	Dhuhr
	Asr
	Maghrib
	Isha

	eventCount
)

var eventNames = [eventCount]string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

// Events returns the six events in the order they occur on a normal day.
func Events() []Event {
	return []Event{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}
}

func (e Event) String() string {
	if e < 0 || e >= eventCount {
		return fmt.Sprintf("Event(%d)", int(e))
	}
	return eventNames[e]
}

// IsPrayer is false for Sunrise, which marks the end of Fajr rather than a
// prayer of its own.
func (e Event) IsPrayer() bool {
	return e != Sunrise
}

// ParseEvent matches an event name case-insensitively.
func ParseEvent(s string) (Event, error) {
	for _, e := range Events() {
		if strings.EqualFold(strings.TrimSpace(s), e.String()) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown prayer name: %s", s)
}

// MarshalText encodes the event by name.
func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText accepts any spelling ParseEvent does.
func (e *Event) UnmarshalText(b []byte) error {
	v, err := ParseEvent(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// side is -1 for events before solar noon and +1 for those after it.
func (e Event) side() float64 {
	if e == Fajr || e == Sunrise {
		return -1
	}
	return 1
}

// EventSet is a small set of events.
type EventSet uint8

// With returns s with e added.
func (s EventSet) With(e Event) EventSet {
	return s | 1<<uint(e)
}

// Has reports whether e is in s.
func (s EventSet) Has(e Event) bool {
	return s&(1<<uint(e)) != 0
}

// Times holds one day's results.
type Times struct {
	Fajr    time.Time
	Sunrise time.Time
	Dhuhr   time.Time
	Asr     time.Time
	Maghrib time.Time
	Isha    time.Time

	// Estimated lists the events taken from the high latitude estimate
	// instead of the sun's actual position.
	Estimated EventSet
}

// At returns the time of e.
func (t Times) At(e Event) time.Time {
	switch e {
	case Fajr:
		return t.Fajr
	case Sunrise:
		return t.Sunrise
	case Dhuhr:
		return t.Dhuhr
	case Asr:
		return t.Asr
	case Maghrib:
		return t.Maghrib
	case Isha:
		return t.Isha
	}
	return time.Time{}
}

func (t *Times) set(e Event, v time.Time) {
	switch e {
	case Fajr:
		t.Fajr = v
	case Sunrise:
		t.Sunrise = v
	case Dhuhr:
		t.Dhuhr = v
	case Asr:
		t.Asr = v
	case Maghrib:
		t.Maghrib = v
	case Isha:
		t.Isha = v
	}
}

// Prayers returns all six events, Sunrise included, in event order.
func (t Times) Prayers() []Prayer {
	out := make([]Prayer, 0, eventCount)
	for _, e := range Events() {
		out = append(out, t.prayer(e))
	}
	return out
}

func (t Times) prayer(e Event) Prayer {
	return Prayer{Name: e.String(), Event: e, Time: t.At(e), Estimated: t.Estimated.Has(e)}
}

// NextPrayer returns the first prayer of t strictly after ref. Sunrise is
// skipped. Once Isha has passed it returns today's Fajr moved forward one
// calendar day; Upcoming recomputes that Fajr instead.
func NextPrayer(t Times, ref time.Time) Prayer {
	for _, e := range Events() {
		if e.IsPrayer() && t.At(e).After(ref) {
			return t.prayer(e)
		}
	}
	p := t.prayer(Fajr)
	p.Time = p.Time.AddDate(0, 0, 1)
	return p
}

// Upcoming is NextPrayer for ref's own day at loc, with tomorrow's Fajr
// computed for tomorrow's date.
func Upcoming(loc Location, zone *time.Location, s Settings, ref time.Time) Prayer {
	if zone == nil {
		zone = time.Local
	}
	today := DateOf(ref.In(zone))
	times := Compute(loc, today, zone, s)
	for _, e := range Events() {
		if e.IsPrayer() && times.At(e).After(ref) {
			return times.prayer(e)
		}
	}
	return Compute(loc, today.AddDays(1), zone, s).prayer(Fajr)
}
