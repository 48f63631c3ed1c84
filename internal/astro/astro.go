// Package astro holds the spherical trigonometry and low-precision solar
// position formulas shared by the prayer-time and Qibla calculations.
//
// All angles are in degrees unless a name says otherwise.
package astro

import "math"

// J2000 is the Julian day of 2000-01-01 12:00 TT, the epoch of the solar
// series below.
const J2000 = 2451545.0

// RefractionHorizon is the sun's altitude at sunrise and sunset: refraction
// plus the radius of the solar disk.
const RefractionHorizon = -0.833

// DegToRad converts degrees to radians.
func DegToRad(d float64) float64 { return d * math.Pi / 180 }

// RadToDeg converts radians to degrees.
func RadToDeg(r float64) float64 { return r * 180 / math.Pi }

func Sin(d float64) float64  { return math.Sin(DegToRad(d)) }
func Cos(d float64) float64  { return math.Cos(DegToRad(d)) }
func Tan(d float64) float64  { return math.Tan(DegToRad(d)) }
func Asin(x float64) float64 { return RadToDeg(math.Asin(x)) }
func Acos(x float64) float64 { return RadToDeg(math.Acos(x)) }
func Atan(x float64) float64 { return RadToDeg(math.Atan(x)) }

// Atan2 returns the angle of (x, y) in degrees, in (-180, 180].
func Atan2(y, x float64) float64 { return RadToDeg(math.Atan2(y, x)) }

// FixAngle wraps a into [0, 360).
func FixAngle(a float64) float64 {
	return wrap(a, 360)
}

// FixHour wraps h into [0, 24).
func FixHour(h float64) float64 {
	return wrap(h, 24)
}

func wrap(a, n float64) float64 {
	a -= n * math.Floor(a/n)
	if a < 0 {
		a += n
	}
	if a >= n {
		a -= n
	}
	return a
}

// JulianDay returns the Julian day at 0h UT of the given Gregorian date.
// January and February count as months 13 and 14 of the previous year.
func JulianDay(year, month, day int) float64 {
	if month <= 2 {
		year--
		month += 12
	}
	a := math.Floor(float64(year) / 100)
	b := 2 - a + math.Floor(a/4)
	return math.Floor(365.25*float64(year+4716)) + math.Floor(30.6001*float64(month+1)) +
		float64(day) + b - 1524.5
}
