package astro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJulianDay(t *testing.T) {
	tests := []struct {
		y, m, d int
		want    float64
	}{
		{2000, 1, 1, 2451544.5},
		{1999, 1, 1, 2451179.5},
		{2024, 2, 29, 2460369.5},
		{2025, 6, 21, 2460847.5},
		{1957, 10, 4, 2436115.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JulianDay(tt.y, tt.m, tt.d), "%04d-%02d-%02d", tt.y, tt.m, tt.d)
	}
}

func TestFixAngleAndHour(t *testing.T) {
	assert.Equal(t, 10.0, FixAngle(370))
	assert.Equal(t, 350.0, FixAngle(-10))
	assert.Equal(t, 0.0, FixAngle(720))
	assert.Equal(t, 23.0, FixHour(-1))
	assert.Equal(t, 1.5, FixHour(25.5))

	for _, a := range []float64{-1e-18, -720.5, 1e9} {
		got := FixAngle(a)
		assert.True(t, got >= 0 && got < 360, "FixAngle(%v) = %v", a, got)
	}
}

func TestSunPosition_Solstices(t *testing.T) {
	june := SunPosition(JulianDay(2025, 6, 21) + 0.5)
	assert.InDelta(t, 23.44, june.Declination, 0.1)

	december := SunPosition(JulianDay(2025, 12, 21) + 0.5)
	assert.InDelta(t, -23.44, december.Declination, 0.1)

	equinox := SunPosition(JulianDay(2025, 3, 20) + 0.5)
	assert.InDelta(t, 0, equinox.Declination, 0.5)
}

func TestSunPosition_EquationOfTime(t *testing.T) {
	// Early November: the sun runs about 16.4 minutes fast.
	nov := SunPosition(JulianDay(2025, 11, 3) + 0.5)
	assert.InDelta(t, 16.4, nov.EquationOfTime*60, 0.5)

	// Mid February: about 14.2 minutes slow.
	feb := SunPosition(JulianDay(2025, 2, 11) + 0.5)
	assert.InDelta(t, -14.2, feb.EquationOfTime*60, 0.5)

	for d := 0.0; d < 366; d += 5 {
		eqt := SunPosition(J2000 + d).EquationOfTime
		assert.True(t, eqt > -12 && eqt <= 12, "eqt %v out of range", eqt)
	}
}

func TestHourAngle(t *testing.T) {
	// On the equator at equinox the sun rises six hours before noon.
	h, ok := HourAngle(0, 0, 0)
	assert.True(t, ok)
	assert.InDelta(t, 6, h, 1e-9)

	_, ok = HourAngle(-18, 70, 23.44)
	assert.False(t, ok, "no astronomical night in arctic summer")

	_, ok = HourAngle(0, 90, math.NaN())
	assert.False(t, ok)
}

func TestDayLength(t *testing.T) {
	assert.InDelta(t, 12.1, DayLength(0, 0), 0.1)
	assert.Equal(t, 24.0, DayLength(70, 23.44))
	assert.Equal(t, 0.0, DayLength(70, -23.44))
	assert.InDelta(t, 16.6, DayLength(51.5, 23.44), 0.2)
}

func TestNoonAltitude(t *testing.T) {
	assert.InDelta(t, 90, NoonAltitude(23.44, 23.44), 1e-9)
	assert.InDelta(t, -3.09, NoonAltitude(69.65, -23.44), 0.01)
}
