package prayer

import (
	"math"
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/astro"
)

// refinementPasses is fixed: declination and the equation of time are
// evaluated at each event's own time of day, and two passes settle the
// results below a minute.
const refinementPasses = 2

// seeds are the first guesses, in local solar hours, for each event.
var seeds = [eventCount]float64{
	Fajr:    5,
	Sunrise: 6,
	Dhuhr:   12,
	Asr:     13,
	Maghrib: 18,
	Isha:    18,
}

// Compute returns the prayer times at loc on date, as wall-clock times in
// zone. The zone's UTC offset at local noon of date is the one used; pass
// time.FixedZone for a fixed offset. A nil zone means time.Local.
//
// Compute never fails. Where the sun does not reach an event's altitude the
// high latitude rule in s supplies an estimate and the event is recorded in
// Times.Estimated.
func Compute(loc Location, date Date, zone *time.Location, s Settings) Times {
	if zone == nil {
		zone = time.Local
	}
	_, offset := time.Date(date.Year, date.Month, date.Day, 12, 0, 0, 0, zone).Zone()

	c := &calculator{
		lat:      loc.Latitude,
		settings: s,
		params:   s.Method.Parameters(),
		// Shifted so that jd + hours/24 is in the observer's local solar time.
		jd: astro.JulianDay(date.Year, int(date.Month), date.Day) - loc.Longitude/360,
	}

	hours := seeds
	for i := 0; i < refinementPasses; i++ {
		c.estimated = 0
		hours = c.pass(hours)
	}

	shift := float64(offset)/3600 - loc.Longitude/15
	out := Times{Estimated: c.estimated}
	for _, e := range Events() {
		out.set(e, clock(date, zone, hours[e]+shift, s.Adjustments.For(e)))
	}
	return out
}

// clock turns fractional hours past local midnight plus an adjustment into a
// wall-clock time on date, truncated to the minute. Values outside [0,24)
// land on the neighbouring day.
func clock(date Date, zone *time.Location, hours float64, adjust int) time.Time {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		hours = 12
	}
	minutes := int(math.Floor(hours*60)) + adjust
	return time.Date(date.Year, date.Month, date.Day, 0, minutes, 0, 0, zone)
}

type calculator struct {
	lat       float64
	jd        float64
	settings  Settings
	params    Parameters
	estimated EventSet
}

func (c *calculator) pass(in [eventCount]float64) [eventCount]float64 {
	var out [eventCount]float64
	out[Fajr] = c.twilight(Fajr, c.params.FajrAngle, in[Fajr])
	out[Sunrise] = c.horizon(Sunrise, in[Sunrise])
	out[Dhuhr] = c.noon(c.sun(in[Dhuhr]))
	out[Asr] = c.asr(in[Asr])
	out[Maghrib] = c.horizon(Maghrib, in[Maghrib])
	if c.params.UsesIshaInterval() {
		out[Isha] = out[Maghrib] + float64(c.params.IshaInterval)/60
		if c.estimated.Has(Maghrib) {
			c.estimated = c.estimated.With(Isha)
		}
	} else {
		out[Isha] = c.twilight(Isha, c.params.IshaAngle, in[Isha])
	}
	return out
}

func (c *calculator) sun(hours float64) astro.Position {
	return astro.SunPosition(c.jd + hours/24)
}

func (c *calculator) noon(pos astro.Position) float64 {
	return astro.FixHour(12 - pos.EquationOfTime)
}

// at returns when the sun crosses altitude on e's side of noon.
func (c *calculator) at(e Event, altitude float64, pos astro.Position) (float64, bool) {
	h, ok := astro.HourAngle(altitude, c.lat, pos.Declination)
	if !ok {
		return 0, false
	}
	return c.noon(pos) + e.side()*h, true
}

func (c *calculator) horizon(e Event, hours float64) float64 {
	pos := c.sun(hours)
	if v, ok := c.at(e, astro.RefractionHorizon, pos); ok {
		return v
	}
	c.estimated = c.estimated.With(e)
	return c.noon(pos) + e.side()*astro.DayLength(c.lat, pos.Declination)/2
}

// twilight handles Fajr and Isha. On days with no sunrise or sunset the
// twilight is not anchored to anything, so the estimate is used even when
// the sun does pass the angle.
func (c *calculator) twilight(e Event, angle, hours float64) float64 {
	pos := c.sun(hours)
	day := astro.DayLength(c.lat, pos.Declination)
	if day > 0 && day < 24 {
		if v, ok := c.at(e, -angle, pos); ok {
			return v
		}
	}
	c.estimated = c.estimated.With(e)
	night := 24 - day
	return c.noon(pos) + e.side()*(day/2+c.settings.HighLatitude.portion(angle)*night)
}

// asr solves the shadow equation: the sun's altitude when an object's shadow
// is factor times its length plus its noon shadow.
func (c *calculator) asr(hours float64) float64 {
	pos := c.sun(hours)
	zenith := math.Abs(c.lat - pos.Declination)
	if zenith < 90 {
		altitude := astro.Atan(1 / (c.settings.Asr.ShadowFactor() + astro.Tan(zenith)))
		if v, ok := c.at(Asr, altitude, pos); ok {
			return v
		}
	}
	c.estimated = c.estimated.With(Asr)
	return c.noon(pos) + astro.DayLength(c.lat, pos.Declination)/4
}
