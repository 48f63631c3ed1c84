package astro

import "math"

// Position is the part of the sun's apparent position the prayer
// calculations need.
type Position struct {
	// Declination is the sun's angle north (+) or south (-) of the celestial
	// equator.
	Declination float64
	// EquationOfTime is apparent minus mean solar time, in hours, in (-12, 12].
	EquationOfTime float64
}

// SunPosition evaluates the low-precision solar model at Julian day jd.
func SunPosition(jd float64) Position {
	n := jd - J2000

	g := FixAngle(357.528 + 0.9856003*n)
	l := FixAngle(280.466 + 0.9856474*n)
	lambda := l + 1.915*Sin(g) + 0.020*Sin(2*g)
	epsilon := 23.44 - 0.0000004*n

	decl := Asin(Sin(epsilon) * Sin(lambda))
	ra := Atan2(Cos(epsilon)*Sin(lambda), Cos(lambda)) / 15
	ra = FixHour(ra)

	eqt := l/15 - ra
	eqt = FixHour(eqt+12) - 12
	if eqt == -12 {
		eqt = 12
	}

	return Position{Declination: decl, EquationOfTime: eqt}
}

// HourAngle returns the hour angle, in hours, at which the sun stands at
// the given altitude for an observer at latitude, together with ok=false
// when the sun never reaches that altitude on the day.
func HourAngle(altitude, latitude, declination float64) (float64, bool) {
	t := (Sin(altitude) - Sin(declination)*Sin(latitude)) /
		(Cos(declination) * Cos(latitude))
	// Written so NaN also lands here.
	if !(t >= -1 && t <= 1) {
		return 0, false
	}
	return Acos(t) / 15, true
}

// DayLength returns the hours between sunrise and sunset. Days on which the
// sun never rises report 0 and days on which it never sets report 24.
func DayLength(latitude, declination float64) float64 {
	t := (Sin(RefractionHorizon) - Sin(declination)*Sin(latitude)) /
		(Cos(declination) * Cos(latitude))
	switch {
	case math.IsNaN(t):
		return 0
	case t >= 1:
		return 0
	case t <= -1:
		return 24
	}
	return 2 * Acos(t) / 15
}

// NoonAltitude is the sun's altitude at upper culmination.
func NoonAltitude(latitude, declination float64) float64 {
	return 90 - math.Abs(latitude-declination)
}
